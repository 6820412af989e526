package expense

import (
	"sort"
	"strings"
	"time"
)

// Predicate filters expenses in memory.
type Predicate func(*Expense) bool

// SortField selects the sort key for ordered listings.
type SortField string

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
	SortByPayer       SortField = "payer"
)

// QueryOptions bundles the composable search, filter and sort parameters the
// UI exposes over a group's expense collection.
type QueryOptions struct {
	Search         string
	From           time.Time // inclusive; zero means unbounded
	To             time.Time // inclusive; zero means unbounded
	MemberID       int64     // 0 means any participant
	MinAmountCents *int64    // inclusive; nil means unbounded
	MaxAmountCents *int64
	SortField      SortField
	Descending     bool
}

// ApplyQuery filters and sorts the expense list per opts. The input slice is
// not modified.
func ApplyQuery(expenses []*Expense, opts QueryOptions) []*Expense {
	var preds []Predicate
	if opts.Search != "" {
		preds = append(preds, MatchesSearch(opts.Search))
	}
	if !opts.From.IsZero() || !opts.To.IsZero() {
		preds = append(preds, InDateRange(opts.From, opts.To))
	}
	if opts.MemberID != 0 {
		preds = append(preds, HasParticipant(opts.MemberID))
	}
	if opts.MinAmountCents != nil || opts.MaxAmountCents != nil {
		preds = append(preds, AmountBetween(opts.MinAmountCents, opts.MaxAmountCents))
	}

	result := Filter(expenses, preds...)
	if opts.SortField != "" {
		SortExpenses(result, opts.SortField, opts.Descending)
	}
	return result
}

// Filter returns the expenses matching every predicate.
func Filter(expenses []*Expense, preds ...Predicate) []*Expense {
	result := make([]*Expense, 0, len(expenses))
	for _, e := range expenses {
		keep := true
		for _, p := range preds {
			if !p(e) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, e)
		}
	}
	return result
}

// MatchesSearch matches a case-insensitive substring against the description,
// the formatted amount and the payer and participant names.
func MatchesSearch(term string) Predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(e *Expense) bool {
		if term == "" {
			return true
		}
		if strings.Contains(strings.ToLower(e.Description), term) {
			return true
		}
		if strings.Contains(e.Amount.Decimal(), term) {
			return true
		}
		if strings.Contains(strings.ToLower(e.PayerName), term) {
			return true
		}
		for _, s := range e.Shares {
			if strings.Contains(strings.ToLower(s.MemberName), term) {
				return true
			}
		}
		return false
	}
}

// InDateRange matches expenses spent within [from, to], inclusive. A zero
// bound is open.
func InDateRange(from, to time.Time) Predicate {
	return func(e *Expense) bool {
		if !from.IsZero() && e.SpentAt.Before(from) {
			return false
		}
		if !to.IsZero() && e.SpentAt.After(to) {
			return false
		}
		return true
	}
}

// HasParticipant matches expenses in which the member holds a share.
func HasParticipant(memberID int64) Predicate {
	return func(e *Expense) bool {
		for _, s := range e.Shares {
			if s.MemberID == memberID {
				return true
			}
		}
		return false
	}
}

// AmountBetween matches expense totals within [min, max] minor units,
// inclusive. A nil bound is open. Bounds are plain minor units so callers
// don't need to know the group currency up front.
func AmountBetween(minCents, maxCents *int64) Predicate {
	return func(e *Expense) bool {
		if minCents != nil && e.Amount.Cents < *minCents {
			return false
		}
		if maxCents != nil && e.Amount.Cents > *maxCents {
			return false
		}
		return true
	}
}

// SortExpenses orders the slice in place on the given field, tie-breaking on
// expense id so the order is deterministic for equal keys.
func SortExpenses(expenses []*Expense, field SortField, descending bool) {
	less := func(a, b *Expense) bool {
		switch field {
		case SortByAmount:
			if c := a.Amount.Cmp(b.Amount); c != 0 {
				return c < 0
			}
		case SortByDescription:
			if a.Description != b.Description {
				return a.Description < b.Description
			}
		case SortByPayer:
			if a.PayerName != b.PayerName {
				return a.PayerName < b.PayerName
			}
		default: // SortByDate
			if !a.SpentAt.Equal(b.SpentAt) {
				return a.SpentAt.Before(b.SpentAt)
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if descending {
			return less(expenses[j], expenses[i])
		}
		return less(expenses[i], expenses[j])
	})
}
