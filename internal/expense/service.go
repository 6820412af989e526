package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alhamdani/settleup/internal/expense/split"
	"github.com/alhamdani/settleup/internal/group"
	"github.com/alhamdani/settleup/internal/money"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrNotGroupMember  = errors.New("participant is not a member of the group")
	ErrNotPayer        = errors.New("only the payer can modify this expense")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
)

// Service handles expense business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, groupRepo *group.Repository) *Service {
	return &Service{repo: repo, groupRepo: groupRepo}
}

// CreateExpense validates the request against the group, allocates shares
// with the requested split policy and persists expense plus shares in one
// transaction. A client_ref makes creation idempotent: resubmitting the same
// reference returns the already-created expense.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*Expense, error) {
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
			existing.Shares, err = s.repo.GetSharesByExpenseID(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			return existing, nil
		}
	}

	total, err := money.Parse(req.Amount, grp.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}

	memberIDs, err := s.groupRepo.GetMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(memberIDs, payerID, req.Participants); err != nil {
		return nil, err
	}

	participants, policy, err := buildPolicy(req.SplitType, req.Participants, grp.Currency)
	if err != nil {
		return nil, err
	}

	shares, err := split.Allocate(total, policy, participants)
	if err != nil {
		return nil, err
	}

	spentAt := time.Now().UTC()
	if req.SpentAt != "" {
		spentAt, err = time.Parse("2006-01-02", req.SpentAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.SpentAt)
		}
	}

	clientRef := req.ClientRef
	if clientRef == "" {
		clientRef = uuid.NewString()
	}

	exp := &Expense{
		GroupID:     req.GroupID,
		PayerID:     payerID,
		Description: req.Description,
		Amount:      total,
		SplitType:   policy.Type,
		ClientRef:   clientRef,
		SpentAt:     spentAt,
	}
	return s.repo.CreateWithShares(ctx, exp, shares)
}

// GetExpenseByID retrieves an expense with its shares
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}

	exp.Shares, err = s.repo.GetSharesByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// ListByGroup retrieves expenses for a group, newest first
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// Resplit re-derives the entire split from a new total, policy and
// participant set, replacing all existing shares in one transaction. Editing
// a single share in isolation is deliberately impossible: it would break the
// exact-sum invariant.
func (s *Service) Resplit(ctx context.Context, id, userID int64, req *ResplitExpenseRequest) (*Expense, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}
	if exp.PayerID != userID {
		return nil, ErrNotPayer
	}

	total, err := money.Parse(req.Amount, exp.Amount.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}

	memberIDs, err := s.groupRepo.GetMemberIDs(ctx, exp.GroupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(memberIDs, exp.PayerID, req.Participants); err != nil {
		return nil, err
	}

	participants, policy, err := buildPolicy(req.SplitType, req.Participants, exp.Amount.Currency)
	if err != nil {
		return nil, err
	}

	shares, err := split.Allocate(total, policy, participants)
	if err != nil {
		return nil, err
	}

	return s.repo.ReplaceShares(ctx, id, total, policy.Type, shares)
}

// Delete soft-deletes an expense. Only the payer may delete.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp == nil {
		return ErrExpenseNotFound
	}
	if exp.PayerID != userID {
		return ErrNotPayer
	}
	return s.repo.SoftDelete(ctx, id)
}

// Query loads all of a group's expenses with shares and applies the given
// in-memory search, filters and sort.
func (s *Service) Query(ctx context.Context, groupID int64, opts QueryOptions) ([]*Expense, error) {
	expenses, err := s.repo.ListAllByGroupWithShares(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ApplyQuery(expenses, opts), nil
}

// GroupStats computes aggregate statistics over all of a group's expenses.
func (s *Service) GroupStats(ctx context.Context, groupID int64) (*Stats, error) {
	expenses, err := s.repo.ListAllByGroupWithShares(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ComputeStats(expenses), nil
}

func requireMembers(memberIDs []int64, payerID int64, participants []*ParticipantInput) error {
	members := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}
	if _, ok := members[payerID]; !ok {
		return fmt.Errorf("%w: payer %d", ErrNotGroupMember, payerID)
	}
	for _, p := range participants {
		if _, ok := members[p.MemberID]; !ok {
			return fmt.Errorf("%w: member %d", ErrNotGroupMember, p.MemberID)
		}
	}
	return nil
}

// buildPolicy converts request participants into the ordered participant list
// and the typed split policy. Parameter maps are always non-nil; a
// participant missing its parameter is reported by the allocator.
func buildPolicy(splitType string, inputs []*ParticipantInput, currency string) ([]int64, split.Policy, error) {
	participants := make([]int64, len(inputs))
	for i, p := range inputs {
		participants[i] = p.MemberID
	}

	switch split.PolicyType(splitType) {
	case split.PolicyEqual:
		return participants, split.Equal(), nil

	case split.PolicyPercentage:
		percentages := make(map[int64]float64, len(inputs))
		for _, p := range inputs {
			if p.Percentage != nil {
				percentages[p.MemberID] = *p.Percentage
			}
		}
		return participants, split.Percentage(percentages), nil

	case split.PolicyExact:
		amounts := make(map[int64]money.Money, len(inputs))
		for _, p := range inputs {
			if p.Amount == nil {
				continue
			}
			amt, err := money.Parse(*p.Amount, currency)
			if err != nil {
				return nil, split.Policy{}, fmt.Errorf("%w: member %d has %q", ErrInvalidAmount, p.MemberID, *p.Amount)
			}
			amounts[p.MemberID] = amt
		}
		return participants, split.Exact(amounts), nil

	case split.PolicyShares:
		weights := make(map[int64]int64, len(inputs))
		for _, p := range inputs {
			if p.Weight != nil {
				weights[p.MemberID] = *p.Weight
			}
		}
		return participants, split.Shares(weights), nil

	default:
		return nil, split.Policy{}, fmt.Errorf("unknown split policy: %s", splitType)
	}
}
