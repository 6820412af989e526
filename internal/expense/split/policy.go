package split

import (
	"errors"
	"fmt"

	"github.com/alhamdani/settleup/internal/money"
)

// PolicyType identifies how an expense total is divided among participants.
type PolicyType string

const (
	PolicyEqual      PolicyType = "EQUAL"
	PolicyPercentage PolicyType = "PERCENTAGE"
	PolicyExact      PolicyType = "EXACT"
	PolicyShares     PolicyType = "SHARES"
)

// Valid reports whether t is a known policy type.
func (t PolicyType) Valid() bool {
	switch t {
	case PolicyEqual, PolicyPercentage, PolicyExact, PolicyShares:
		return true
	}
	return false
}

// Policy is the closed tagged union of split policies. Exactly one parameter
// map is consulted, selected by Type; the others are ignored. Use the
// constructors rather than building the struct by hand.
type Policy struct {
	Type        PolicyType
	Percentages map[int64]float64     // PERCENTAGE: member -> percentage of total
	Amounts     map[int64]money.Money // EXACT: member -> exact amount
	Weights     map[int64]int64       // SHARES: member -> positive integer weight
}

// Equal returns the policy that divides the total evenly.
func Equal() Policy {
	return Policy{Type: PolicyEqual}
}

// Percentage returns the policy that divides the total by per-member percentages.
func Percentage(percentages map[int64]float64) Policy {
	return Policy{Type: PolicyPercentage, Percentages: percentages}
}

// Exact returns the policy where every member owes a caller-supplied amount.
func Exact(amounts map[int64]money.Money) Policy {
	return Policy{Type: PolicyExact, Amounts: amounts}
}

// Shares returns the policy that divides the total by integer weights.
func Shares(weights map[int64]int64) Policy {
	return Policy{Type: PolicyShares, Weights: weights}
}

// Share is one participant's computed portion of an expense. Percent is the
// derived percentage-of-total, rounded independently for display; the Amount
// values are what sum exactly to the expense total.
type Share struct {
	MemberID int64       `json:"member_id"`
	Amount   money.Money `json:"amount"`
	Percent  float64     `json:"percent"`
}

// Validation errors reported for expected user-input problems.
var (
	ErrNoParticipants        = errors.New("at least one participant is required")
	ErrDuplicateParticipant  = errors.New("duplicate participant")
	ErrNonPositiveTotal      = errors.New("total amount must be positive")
	ErrMissingPercentage     = errors.New("percentage value required for all participants")
	ErrPercentageOutOfRange  = errors.New("percentage must be between 0 and 100")
	ErrInvalidPercentages    = errors.New("percentages must sum to 100")
	ErrMissingExactAmount    = errors.New("exact amount required for all participants")
	ErrNegativeExactAmount   = errors.New("exact amounts cannot be negative")
	ErrExactCurrencyMismatch = errors.New("exact amounts must be in the expense currency")
	ErrInvalidExactAmounts   = errors.New("exact amounts must sum to total amount")
	ErrMissingWeight         = errors.New("share weight required for all participants")
	ErrNonPositiveWeight     = errors.New("share weights must be positive")
)

// SumError reports a sum-validation failure with the expected and actual
// totals, so the presentation layer can prompt a correction. It unwraps to
// the sentinel naming the violated rule.
type SumError struct {
	Rule     error
	Expected string
	Actual   string
}

func (e *SumError) Error() string {
	return fmt.Sprintf("%v (expected %s, got %s)", e.Rule, e.Expected, e.Actual)
}

func (e *SumError) Unwrap() error { return e.Rule }
