package expense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhamdani/settleup/internal/expense/split"
	"github.com/alhamdani/settleup/internal/money"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func testExpenses() []*Expense {
	return []*Expense{
		{
			ID: 1, GroupID: 1, PayerID: 1, PayerName: "alice",
			Description: "Groceries", Amount: money.New(4500, "USD"),
			SplitType: split.PolicyEqual, SpentAt: day(1),
			Shares: []*Share{
				{MemberID: 1, MemberName: "alice", Amount: money.New(2250, "USD")},
				{MemberID: 2, MemberName: "bob", Amount: money.New(2250, "USD")},
			},
		},
		{
			ID: 2, GroupID: 1, PayerID: 2, PayerName: "bob",
			Description: "Concert tickets", Amount: money.New(12000, "USD"),
			SplitType: split.PolicyEqual, SpentAt: day(5),
			Shares: []*Share{
				{MemberID: 2, MemberName: "bob", Amount: money.New(6000, "USD")},
				{MemberID: 3, MemberName: "carol", Amount: money.New(6000, "USD")},
			},
		},
		{
			ID: 3, GroupID: 1, PayerID: 1, PayerName: "alice",
			Description: "Gas", Amount: money.New(3200, "USD"),
			SplitType: split.PolicyEqual, SpentAt: day(3),
			Shares: []*Share{
				{MemberID: 1, MemberName: "alice", Amount: money.New(1600, "USD")},
				{MemberID: 3, MemberName: "carol", Amount: money.New(1600, "USD")},
			},
		},
	}
}

func ids(expenses []*Expense) []int64 {
	out := make([]int64, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestMatchesSearch(t *testing.T) {
	expenses := testExpenses()

	assert.Equal(t, []int64{1}, ids(Filter(expenses, MatchesSearch("grocer"))))
	assert.Equal(t, []int64{2}, ids(Filter(expenses, MatchesSearch("120.00"))))   // formatted amount
	assert.Equal(t, []int64{2, 3}, ids(Filter(expenses, MatchesSearch("carol")))) // participant name
	assert.Equal(t, []int64{1, 3}, ids(Filter(expenses, MatchesSearch("ALICE")))) // case-insensitive
	assert.Empty(t, ids(Filter(expenses, MatchesSearch("sushi"))))
}

func TestInDateRange(t *testing.T) {
	expenses := testExpenses()

	assert.Equal(t, []int64{1, 3}, ids(Filter(expenses, InDateRange(day(1), day(3)))))
	assert.Equal(t, []int64{3}, ids(Filter(expenses, InDateRange(day(2), day(4)))))
	// Open bounds
	assert.Equal(t, []int64{2}, ids(Filter(expenses, InDateRange(day(4), time.Time{}))))
	assert.Equal(t, []int64{1, 2, 3}, ids(Filter(expenses, InDateRange(time.Time{}, time.Time{}))))
}

func TestHasParticipant(t *testing.T) {
	expenses := testExpenses()
	assert.Equal(t, []int64{1, 3}, ids(Filter(expenses, HasParticipant(1))))
	assert.Equal(t, []int64{2, 3}, ids(Filter(expenses, HasParticipant(3))))
	assert.Empty(t, ids(Filter(expenses, HasParticipant(99))))
}

func TestAmountBetween(t *testing.T) {
	expenses := testExpenses()
	lo, hi := int64(3200), int64(5000)
	assert.Equal(t, []int64{1, 3}, ids(Filter(expenses, AmountBetween(&lo, &hi))))
	assert.Equal(t, []int64{2}, ids(Filter(expenses, AmountBetween(&hi, nil))))
	assert.Equal(t, []int64{1, 3}, ids(Filter(expenses, AmountBetween(nil, &hi))))
}

func TestFiltersCompose(t *testing.T) {
	expenses := testExpenses()
	got := Filter(expenses, MatchesSearch("alice"), InDateRange(day(2), day(31)), HasParticipant(3))
	assert.Equal(t, []int64{3}, ids(got))
}

func TestSortExpenses(t *testing.T) {
	tests := []struct {
		name  string
		field SortField
		desc  bool
		want  []int64
	}{
		{"date ascending", SortByDate, false, []int64{1, 3, 2}},
		{"date descending", SortByDate, true, []int64{2, 3, 1}},
		{"amount ascending", SortByAmount, false, []int64{3, 1, 2}},
		{"amount descending", SortByAmount, true, []int64{2, 1, 3}},
		{"description ascending", SortByDescription, false, []int64{2, 3, 1}},
		{"payer then id tie-break", SortByPayer, false, []int64{1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := testExpenses()
			SortExpenses(expenses, tt.field, tt.desc)
			assert.Equal(t, tt.want, ids(expenses))
		})
	}
}

func TestApplyQuery(t *testing.T) {
	got := ApplyQuery(testExpenses(), QueryOptions{
		Search:     "a", // matches all via names
		From:       day(1),
		To:         day(5),
		SortField:  SortByAmount,
		Descending: true,
	})
	assert.Equal(t, []int64{2, 1, 3}, ids(got))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(testExpenses())

	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, money.New(19700, "USD"), stats.Total)
	assert.Equal(t, money.New(6566, "USD"), stats.Average)
	assert.Equal(t, money.New(3200, "USD"), stats.Min)
	assert.Equal(t, money.New(12000, "USD"), stats.Max)
	assert.Equal(t, day(1), stats.FirstSpentAt)
	assert.Equal(t, day(5), stats.LastSpentAt)
	assert.Equal(t, int64(3), stats.DistinctParticipants)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.Count)
	assert.True(t, stats.Total.IsZero())
	assert.True(t, stats.FirstSpentAt.IsZero())
}
