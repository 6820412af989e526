package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alhamdani/settleup/pkg/middleware"
	"github.com/alhamdani/settleup/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}/balances", h.GroupBalances)
	r.Get("/group/{groupId}/plan", h.PlanForGroup)
	r.Post("/group/{groupId}/transfers", h.AcceptTransfer)

	return r
}

// GroupBalances handles GET /settlements/group/{groupId}/balances
// @Summary      Get group balances
// @Description  Net every member's expenses and payments into one signed balance per member
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/balances [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// PlanForGroup handles GET /settlements/group/{groupId}/plan
// @Summary      Get settlement plan
// @Description  Compute the suggested transfers that would settle the group up
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]TransferResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/plan [get]
func (h *Handler) PlanForGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	transfers, err := h.service.PlanForGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settlement plan")
		return
	}

	response.JSON(w, http.StatusOK, transfers)
}

// AcceptTransfer handles POST /settlements/group/{groupId}/transfers
// @Summary      Accept a suggested transfer
// @Description  Record a suggested transfer as a payment from the authenticated user
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        request body AcceptTransferRequest true "Transfer to record"
// @Success      201 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/transfers [post]
func (h *Handler) AcceptTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1 // Default for development
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req AcceptTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.AcceptTransfer(r.Context(), groupID, userID, &req)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}
