package settlement

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/alhamdani/settleup/internal/expense"
	"github.com/alhamdani/settleup/internal/group"
	"github.com/alhamdani/settleup/internal/money"
	"github.com/alhamdani/settleup/internal/payment"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
)

// Service derives balances and settlement plans for a group. Balances are
// never stored: every call re-nets the live expense and payment rows, so
// there is no cache to invalidate.
type Service struct {
	groupRepo   *group.Repository
	expenseRepo *expense.Repository
	paymentRepo *payment.Repository
	paymentSvc  *payment.Service
}

// NewService creates a new settlement service
func NewService(groupRepo *group.Repository, expenseRepo *expense.Repository, paymentRepo *payment.Repository, paymentSvc *payment.Service) *Service {
	return &Service{
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		paymentSvc:  paymentSvc,
	}
}

// snapshot is a causally-consistent read of everything netting needs.
type snapshot struct {
	currency  string
	memberIDs []int64
	names     map[int64]string
	expenses  []ExpenseEntry
	payments  []PaymentEntry
}

// GroupBalances nets every member's expenses and payments into one signed
// balance per member. Positive means the group owes the member.
func (s *Service) GroupBalances(ctx context.Context, groupID int64) ([]*BalanceResponse, error) {
	snap, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := NetBalances(snap.expenses, snap.payments, snap.memberIDs, snap.currency)
	if err != nil {
		return nil, err
	}

	responses := make([]*BalanceResponse, 0, len(snap.memberIDs))
	for _, id := range snap.memberIDs {
		responses = append(responses, newBalanceResponse(id, snap.names[id], balances[id]))
	}
	return responses, nil
}

// PlanForGroup nets the group's balances and computes the suggested
// transfers that would settle everyone up.
func (s *Service) PlanForGroup(ctx context.Context, groupID int64) ([]*TransferResponse, error) {
	snap, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := NetBalances(snap.expenses, snap.payments, snap.memberIDs, snap.currency)
	if err != nil {
		return nil, err
	}

	transfers, err := Plan(balances)
	if err != nil {
		return nil, err
	}

	responses := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = newTransferResponse(t, snap.names)
	}
	return responses, nil
}

// AcceptTransfer records a suggested transfer as a real payment on behalf of
// the debtor. The transfer itself is never persisted.
func (s *Service) AcceptTransfer(ctx context.Context, groupID, userID int64, req *AcceptTransferRequest) (*payment.Payment, error) {
	p, err := s.paymentSvc.Create(ctx, userID, &payment.CreatePaymentRequest{
		GroupID:     groupID,
		RecipientID: req.ToID,
		Amount:      req.Amount,
		Note:        "Settlement",
		ClientRef:   req.ClientRef,
	})
	if err != nil {
		if errors.Is(err, payment.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return p, nil
}

// load fetches members, expenses and payments for the group. The three reads
// are independent, so they run concurrently.
func (s *Service) load(ctx context.Context, groupID int64) (*snapshot, error) {
	grp, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	snap := &snapshot{currency: grp.Currency}

	var (
		members  []*group.GroupMember
		expenses []*expense.Expense
		payments []*payment.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.groupRepo.GetMembers(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.ListAllByGroupWithShares(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.paymentRepo.ListAllByGroup(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.names = make(map[int64]string, len(members))
	for _, m := range members {
		snap.memberIDs = append(snap.memberIDs, m.UserID)
		snap.names[m.UserID] = m.Label
	}

	snap.expenses = make([]ExpenseEntry, len(expenses))
	for i, e := range expenses {
		shares := make(map[int64]money.Money, len(e.Shares))
		for _, sh := range e.Shares {
			shares[sh.MemberID] = sh.Amount
		}
		snap.expenses[i] = ExpenseEntry{
			PayerID: e.PayerID,
			Total:   e.Amount,
			Shares:  shares,
		}
	}

	snap.payments = make([]PaymentEntry, len(payments))
	for i, p := range payments {
		snap.payments[i] = PaymentEntry{
			PayerID:     p.PayerID,
			RecipientID: p.RecipientID,
			Amount:      p.Amount,
		}
	}

	return snap, nil
}
