package split

import (
	"fmt"
	"math"

	"github.com/alhamdani/settleup/internal/money"
)

// Allocate divides total among the given participants according to the
// policy. Shares are returned in participant input order and always sum
// exactly to total in minor units; any rounding remainder is distributed
// deterministically (see the per-policy helpers). Input order is significant:
// callers must pass participants in a stable order.
//
// All validation failures are typed errors. A policy whose required parameter
// map is missing entirely is a caller contract violation and panics.
func Allocate(total money.Money, policy Policy, participants []int64) ([]Share, error) {
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, ErrNonPositiveTotal
	}

	var (
		shares []Share
		err    error
	)
	switch policy.Type {
	case PolicyEqual:
		shares = allocateEqual(total, participants)
	case PolicyPercentage:
		shares, err = allocatePercentage(total, policy.Percentages, participants)
	case PolicyExact:
		shares, err = allocateExact(total, policy.Amounts, participants)
	case PolicyShares:
		shares, err = allocateWeighted(total, policy.Weights, participants)
	default:
		return nil, fmt.Errorf("unknown split policy: %s", policy.Type)
	}
	if err != nil {
		return nil, err
	}

	// Derived display percentage, rounded independently of the policy input.
	for i := range shares {
		shares[i].Percent = roundPercent(float64(shares[i].Amount.Cents) / float64(total.Cents) * 100)
	}
	return shares, nil
}

func validateParticipants(participants []int64) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[int64]struct{}, len(participants))
	for _, id := range participants {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: member %d", ErrDuplicateParticipant, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// allocateEqual assigns floor(total/n) to everyone and one extra minor unit
// to each of the first r participants in input order, where r is the
// remainder. 0 <= r < n, so the sum is exact by construction.
func allocateEqual(total money.Money, participants []int64) []Share {
	n := int64(len(participants))
	base := total.Cents / n
	r := total.Cents - base*n

	shares := make([]Share, len(participants))
	for i, id := range participants {
		cents := base
		if int64(i) < r {
			cents++
		}
		shares[i] = Share{MemberID: id, Amount: money.New(cents, total.Currency)}
	}
	return shares
}

// allocatePercentage rounds each participant's percentage share except the
// last, which receives the exact remainder so the sum is exact by
// construction rather than by luck of rounding. Each rounded share is capped
// at the cents still unallocated; otherwise accumulated half-up rounding can
// overdraw the total and push the last share negative (e.g. 0.01 split
// 50/50/0).
func allocatePercentage(total money.Money, percentages map[int64]float64, participants []int64) ([]Share, error) {
	if percentages == nil {
		panic("split: percentage policy requires a percentage map")
	}

	var sum float64
	for _, id := range participants {
		pct, ok := percentages[id]
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrMissingPercentage, id)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("%w: member %d has %.2f", ErrPercentageOutOfRange, id, pct)
		}
		sum += pct
	}
	if math.Abs(sum-100) > 0.01 {
		return nil, &SumError{
			Rule:     ErrInvalidPercentages,
			Expected: "100.00",
			Actual:   fmt.Sprintf("%.2f", sum),
		}
	}

	shares := make([]Share, len(participants))
	remaining := total.Cents
	for i, id := range participants {
		var cents int64
		if i == len(participants)-1 {
			cents = remaining
		} else {
			cents = int64(math.Round(float64(total.Cents) * percentages[id] / 100))
			if cents > remaining {
				cents = remaining
			}
			remaining -= cents
		}
		shares[i] = Share{MemberID: id, Amount: money.New(cents, total.Currency)}
	}
	return shares, nil
}

// allocateExact takes the caller-supplied amounts as-is. With integer minor
// units the ±0.01 tolerance of decimal input collapses to exact equality, so
// the sum must match the total to the minor unit.
func allocateExact(total money.Money, amounts map[int64]money.Money, participants []int64) ([]Share, error) {
	if amounts == nil {
		panic("split: exact policy requires an amount map")
	}

	sum := money.Zero(total.Currency)
	shares := make([]Share, len(participants))
	for i, id := range participants {
		amt, ok := amounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrMissingExactAmount, id)
		}
		if !amt.SameCurrency(total) {
			return nil, fmt.Errorf("%w: member %d has %s", ErrExactCurrencyMismatch, id, amt)
		}
		if amt.IsNegative() {
			return nil, fmt.Errorf("%w: member %d has %s", ErrNegativeExactAmount, id, amt)
		}
		sum = sum.Add(amt)
		shares[i] = Share{MemberID: id, Amount: amt}
	}
	if sum.Cmp(total) != 0 {
		return nil, &SumError{
			Rule:     ErrInvalidExactAmounts,
			Expected: total.Decimal(),
			Actual:   sum.Decimal(),
		}
	}
	return shares, nil
}

// allocateWeighted follows the same pattern as allocatePercentage: round all
// but the last participant, cap each share at the unallocated cents, then
// assign the last the exact remainder.
func allocateWeighted(total money.Money, weights map[int64]int64, participants []int64) ([]Share, error) {
	if weights == nil {
		panic("split: shares policy requires a weight map")
	}

	var totalWeight int64
	for _, id := range participants {
		w, ok := weights[id]
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrMissingWeight, id)
		}
		if w <= 0 {
			return nil, fmt.Errorf("%w: member %d has %d", ErrNonPositiveWeight, id, w)
		}
		totalWeight += w
	}

	shares := make([]Share, len(participants))
	remaining := total.Cents
	for i, id := range participants {
		var cents int64
		if i == len(participants)-1 {
			cents = remaining
		} else {
			cents = int64(math.Round(float64(total.Cents) * float64(weights[id]) / float64(totalWeight)))
			if cents > remaining {
				cents = remaining
			}
			remaining -= cents
		}
		shares[i] = Share{MemberID: id, Amount: money.New(cents, total.Currency)}
	}
	return shares, nil
}

// roundPercent rounds to 2 decimal places for display.
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
