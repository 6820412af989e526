package expense

import (
	"time"

	"github.com/alhamdani/settleup/internal/money"
)

// Stats summarizes an expense collection in one pass.
type Stats struct {
	Count                int64
	Total                money.Money
	Average              money.Money
	Min                  money.Money
	Max                  money.Money
	FirstSpentAt         time.Time
	LastSpentAt          time.Time
	DistinctParticipants int64
}

// ComputeStats aggregates count, sum, average, min/max, date span and
// distinct participant count over the given expenses. All expenses are
// expected to share one currency (the group's); the result for an empty
// collection is all zero values.
func ComputeStats(expenses []*Expense) *Stats {
	stats := &Stats{}
	if len(expenses) == 0 {
		return stats
	}

	currency := expenses[0].Amount.Currency
	stats.Total = money.Zero(currency)
	stats.Min = expenses[0].Amount
	stats.Max = expenses[0].Amount
	stats.FirstSpentAt = expenses[0].SpentAt
	stats.LastSpentAt = expenses[0].SpentAt

	participants := make(map[int64]struct{})
	for _, e := range expenses {
		stats.Count++
		stats.Total = stats.Total.Add(e.Amount)
		if e.Amount.Cmp(stats.Min) < 0 {
			stats.Min = e.Amount
		}
		if e.Amount.Cmp(stats.Max) > 0 {
			stats.Max = e.Amount
		}
		if e.SpentAt.Before(stats.FirstSpentAt) {
			stats.FirstSpentAt = e.SpentAt
		}
		if e.SpentAt.After(stats.LastSpentAt) {
			stats.LastSpentAt = e.SpentAt
		}
		for _, s := range e.Shares {
			participants[s.MemberID] = struct{}{}
		}
	}

	stats.Average = money.New(stats.Total.Cents/stats.Count, currency)
	stats.DistinctParticipants = int64(len(participants))
	return stats
}

// ToResponse converts Stats to its DTO.
func (s *Stats) ToResponse() *StatsResponse {
	resp := &StatsResponse{
		Count:                s.Count,
		Total:                s.Total.Decimal(),
		Average:              s.Average.Decimal(),
		Min:                  s.Min.Decimal(),
		Max:                  s.Max.Decimal(),
		Currency:             s.Total.Currency,
		DistinctParticipants: s.DistinctParticipants,
	}
	if !s.FirstSpentAt.IsZero() {
		resp.FirstSpentAt = s.FirstSpentAt.Format("2006-01-02")
		resp.LastSpentAt = s.LastSpentAt.Format("2006-01-02")
	}
	return resp
}
