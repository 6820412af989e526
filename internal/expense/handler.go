package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alhamdani/settleup/internal/expense/split"
	"github.com/alhamdani/settleup/internal/money"
	"github.com/alhamdani/settleup/pkg/middleware"
	"github.com/alhamdani/settleup/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/split", h.Resplit)
	r.Delete("/{id}", h.Delete)

	// Group-based listing and queries
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/search", h.Query)
	r.Get("/group/{groupId}/stats", h.Stats)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense with automatic share allocation using the EQUAL, PERCENTAGE, EXACT, or SHARES policy
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		payerID = 1 // Default for development
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !split.PolicyType(req.SplitType).Valid() {
		response.BadRequest(w, "Invalid split type. Must be EQUAL, PERCENTAGE, EXACT, or SHARES")
		return
	}

	exp, err := h.service.CreateExpense(r.Context(), payerID, &req)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		// Allocation and membership failures are user-correctable input errors
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, exp.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense with all its shares
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	exp, err := h.service.GetExpenseByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, exp.ToResponse())
}

// Resplit handles PUT /expenses/{id}/split
// @Summary      Re-split an expense
// @Description  Replace the expense's amount, policy and shares with a freshly computed allocation
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body ResplitExpenseRequest true "Re-split request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id}/split [put]
func (h *Handler) Resplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req ResplitExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !split.PolicyType(req.SplitType).Valid() {
		response.BadRequest(w, "Invalid split type. Must be EQUAL, PERCENTAGE, EXACT, or SHARES")
		return
	}

	exp, err := h.service.Resplit(r.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotPayer):
			response.Forbidden(w, err.Error())
		default:
			response.BadRequest(w, err.Error())
		}
		return
	}

	response.JSON(w, http.StatusOK, exp.ToResponse())
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Description  Get a paginated list of expenses for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	expenses, total, err := h.service.ListByGroup(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	responses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, responses, response.NewMeta(page, perPage, total))
}

// Query handles GET /expenses/group/{groupId}/search
// @Summary      Search and filter a group's expenses
// @Description  Substring search plus composable date-range, participant, and amount-range filters with multi-key sort
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        q query string false "Substring matched against description, amount, and participant names"
// @Param        from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param        to query string false "Inclusive end date (YYYY-MM-DD)"
// @Param        member_id query int false "Only expenses this member participates in"
// @Param        min_amount query string false "Inclusive minimum total, decimal"
// @Param        max_amount query string false "Inclusive maximum total, decimal"
// @Param        sort query string false "Sort field: date, amount, description, payer" default(date)
// @Param        order query string false "asc or desc" default(asc)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId}/search [get]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	opts, err := queryOptionsFromRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	expenses, err := h.service.Query(r.Context(), groupID, opts)
	if err != nil {
		response.InternalError(w, "Failed to query expenses")
		return
	}

	responses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = e.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// Stats handles GET /expenses/group/{groupId}/stats
// @Summary      Aggregate statistics for a group's expenses
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=StatsResponse}
// @Router       /expenses/group/{groupId}/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	stats, err := h.service.GroupStats(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to compute statistics")
		return
	}

	response.JSON(w, http.StatusOK, stats.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Soft-delete an expense; only the payer may delete
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotPayer):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to delete expense")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

func queryOptionsFromRequest(r *http.Request) (QueryOptions, error) {
	q := r.URL.Query()
	opts := QueryOptions{
		Search:     q.Get("q"),
		SortField:  SortField(q.Get("sort")),
		Descending: q.Get("order") == "desc",
	}
	if opts.SortField == "" {
		opts.SortField = SortByDate
	}

	if v := q.Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return opts, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		opts.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return opts, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		opts.To = to
	}
	if v := q.Get("member_id"); v != "" {
		memberID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, errors.New("invalid member_id")
		}
		opts.MemberID = memberID
	}
	if v := q.Get("min_amount"); v != "" {
		cents, err := money.ParseCents(v)
		if err != nil {
			return opts, errors.New("invalid min_amount")
		}
		opts.MinAmountCents = &cents
	}
	if v := q.Get("max_amount"); v != "" {
		cents, err := money.ParseCents(v)
		if err != nil {
			return opts, errors.New("invalid max_amount")
		}
		opts.MaxAmountCents = &cents
	}
	return opts, nil
}
