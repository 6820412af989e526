package settlement

import (
	"errors"
	"fmt"

	"github.com/alhamdani/settleup/internal/money"
)

// Data-integrity errors. These indicate an upstream bug (an invariant the
// caller was responsible for), not a user mistake, and are surfaced
// distinctly from validation errors.
var (
	ErrUnknownMember    = errors.New("reference to member outside the group")
	ErrShareSumMismatch = errors.New("expense shares do not sum to the expense total")
	ErrMixedCurrencies  = errors.New("amounts span more than one currency")
	ErrUnbalanced       = errors.New("balances do not sum to zero")
)

// ExpenseEntry is the minimal expense view needed for balance netting: who
// advanced the money and how the total was shared out.
type ExpenseEntry struct {
	PayerID int64
	Total   money.Money
	Shares  map[int64]money.Money
}

// PaymentEntry is a direct member-to-member payment.
type PaymentEntry struct {
	PayerID     int64
	RecipientID int64
	Amount      money.Money
}

// NetBalances folds a group's expenses and payments into one signed balance
// per member. A payer is credited the full expense total and debited their
// own share like everyone else, so their net credit is total minus own share.
// Payment payers are credited, recipients debited.
//
// The returned balances sum to exactly zero; every member of the group
// appears in the result, including members with a zero balance. A reference
// to a member outside groupMembers is a data-integrity error.
func NetBalances(expenses []ExpenseEntry, payments []PaymentEntry, groupMembers []int64, currency string) (map[int64]money.Money, error) {
	balances := make(map[int64]money.Money, len(groupMembers))
	for _, id := range groupMembers {
		balances[id] = money.Zero(currency)
	}

	credit := func(id int64, amt money.Money) error {
		bal, ok := balances[id]
		if !ok {
			return fmt.Errorf("%w: member %d", ErrUnknownMember, id)
		}
		if !amt.SameCurrency(bal) {
			return fmt.Errorf("%w: %s vs %s", ErrMixedCurrencies, amt.Currency, currency)
		}
		balances[id] = bal.Add(amt)
		return nil
	}

	for _, e := range expenses {
		if err := credit(e.PayerID, e.Total); err != nil {
			return nil, err
		}
		shareSum := money.Zero(currency)
		for memberID, share := range e.Shares {
			if err := credit(memberID, share.Neg()); err != nil {
				return nil, err
			}
			shareSum = shareSum.Add(share)
		}
		if shareSum.Cmp(e.Total) != 0 {
			return nil, fmt.Errorf("%w: total %s, shares %s", ErrShareSumMismatch, e.Total, shareSum)
		}
	}

	for _, p := range payments {
		if err := credit(p.PayerID, p.Amount); err != nil {
			return nil, err
		}
		if err := credit(p.RecipientID, p.Amount.Neg()); err != nil {
			return nil, err
		}
	}

	return balances, nil
}
