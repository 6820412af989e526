package settlement

import (
	"fmt"
	"sort"

	"github.com/alhamdani/settleup/internal/money"
)

// Transfer is a suggested settling payment. It is never persisted directly;
// it becomes a Payment only when a user confirms it.
type Transfer struct {
	FromID int64       `json:"from_id"`
	ToID   int64       `json:"to_id"`
	Amount money.Money `json:"amount"`
}

type party struct {
	id        int64
	remaining money.Money
}

// Plan computes an ordered list of transfers that zeroes every balance using
// greedy largest-creditor/largest-debtor matching. Ties on amount break on
// ascending member id, so the output is fully deterministic. Each step zeroes
// at least one party, bounding the plan at creditors+debtors-1 transfers.
//
// Balances that do not sum to exactly zero are a precondition violation from
// an upstream bug and are rejected.
func Plan(balances map[int64]money.Money) ([]Transfer, error) {
	if len(balances) == 0 {
		return nil, nil
	}

	currency := ""
	for _, b := range balances {
		currency = b.Currency
		break
	}

	sum := money.Zero(currency)
	var creditors, debtors []party
	for id, bal := range balances {
		if !bal.SameCurrency(sum) {
			return nil, fmt.Errorf("%w: %s vs %s", ErrMixedCurrencies, bal.Currency, currency)
		}
		sum = sum.Add(bal)
		switch {
		case bal.IsPositive():
			creditors = append(creditors, party{id: id, remaining: bal})
		case bal.IsNegative():
			debtors = append(debtors, party{id: id, remaining: bal.Neg()})
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: sum is %s", ErrUnbalanced, sum)
	}

	// Largest remaining first, lowest id on ties. Re-sorting after each match
	// keeps the greedy selection simple; group sizes make this cheap.
	byRemaining := func(parties []party) {
		sort.Slice(parties, func(i, j int) bool {
			if c := parties[i].remaining.Cmp(parties[j].remaining); c != 0 {
				return c > 0
			}
			return parties[i].id < parties[j].id
		})
	}

	var transfers []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		byRemaining(creditors)
		byRemaining(debtors)

		creditor := &creditors[0]
		debtor := &debtors[0]
		amount := money.Min(creditor.remaining, debtor.remaining)

		transfers = append(transfers, Transfer{
			FromID: debtor.id,
			ToID:   creditor.id,
			Amount: amount,
		})

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)
		if creditor.remaining.IsZero() {
			creditors = creditors[1:]
		}
		if debtor.remaining.IsZero() {
			debtors = debtors[1:]
		}
	}

	return transfers, nil
}
