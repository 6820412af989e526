package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alhamdani/settleup/internal/group"
	"github.com/alhamdani/settleup/internal/money"
)

// Common errors
var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrSelfPayment       = errors.New("payer and recipient must differ")
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNotGroupMember    = errors.New("payer and recipient must be group members")
	ErrNotPayer          = errors.New("only the payer can delete this payment")
)

// Service handles payment business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
}

// NewService creates a new payment service
func NewService(repo *Repository, groupRepo *group.Repository) *Service {
	return &Service{repo: repo, groupRepo: groupRepo}
}

// Create validates and records a payment from payerID to the recipient. Like
// expenses, a client_ref makes creation idempotent.
func (s *Service) Create(ctx context.Context, payerID int64, req *CreatePaymentRequest) (*Payment, error) {
	if payerID == req.RecipientID {
		return nil, ErrSelfPayment
	}

	grp, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	if req.ClientRef != "" {
		existing, err := s.repo.GetByClientRef(ctx, req.GroupID, req.ClientRef)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	amount, err := money.Parse(req.Amount, grp.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	memberIDs, err := s.groupRepo.GetMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	members := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}
	if _, ok := members[payerID]; !ok {
		return nil, fmt.Errorf("%w: payer %d", ErrNotGroupMember, payerID)
	}
	if _, ok := members[req.RecipientID]; !ok {
		return nil, fmt.Errorf("%w: recipient %d", ErrNotGroupMember, req.RecipientID)
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != "" {
		paidAt, err = time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.PaidAt)
		}
	}

	clientRef := req.ClientRef
	if clientRef == "" {
		clientRef = uuid.NewString()
	}

	return s.repo.Create(ctx, &Payment{
		GroupID:     req.GroupID,
		PayerID:     payerID,
		RecipientID: req.RecipientID,
		Amount:      amount,
		Note:        req.Note,
		ClientRef:   clientRef,
		PaidAt:      paidAt,
	})
}

// GetByID retrieves a payment by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ListByGroup retrieves payments for a group, newest first
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Payment, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// Delete soft-deletes a payment. Only the payer may delete.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPaymentNotFound
	}
	if p.PayerID != userID {
		return ErrNotPayer
	}
	return s.repo.SoftDelete(ctx, id)
}
