package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhamdani/settleup/internal/money"
)

func usd(cents int64) money.Money { return money.New(cents, "USD") }

func sumShares(t *testing.T, shares []Share) money.Money {
	t.Helper()
	sum := money.Zero("USD")
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestAllocateEqual(t *testing.T) {
	tests := []struct {
		name         string
		total        money.Money
		participants []int64
		wantCents    []int64
	}{
		{
			name:         "100.00 three ways, extra cent to first",
			total:        usd(10000),
			participants: []int64{1, 2, 3},
			wantCents:    []int64{3334, 3333, 3333},
		},
		{
			name:         "even division, no remainder",
			total:        usd(9000),
			participants: []int64{1, 2, 3},
			wantCents:    []int64{3000, 3000, 3000},
		},
		{
			name:         "two remainder cents to first two in input order",
			total:        usd(1001),
			participants: []int64{7, 4, 9},
			wantCents:    []int64{334, 334, 333},
		},
		{
			name:         "single participant gets everything",
			total:        usd(555),
			participants: []int64{42},
			wantCents:    []int64{555},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Allocate(tt.total, Equal(), tt.participants)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.participants))
			for i, want := range tt.wantCents {
				assert.Equal(t, tt.participants[i], shares[i].MemberID)
				assert.Equal(t, want, shares[i].Amount.Cents)
			}
			assert.Equal(t, tt.total, sumShares(t, shares))
		})
	}
}

func TestAllocatePercentage(t *testing.T) {
	t.Run("60/40 of 90.00", func(t *testing.T) {
		shares, err := Allocate(usd(9000), Percentage(map[int64]float64{1: 60, 2: 40}), []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5400), shares[0].Amount.Cents)
		assert.Equal(t, int64(3600), shares[1].Amount.Cents)
		assert.InDelta(t, 60.0, shares[0].Percent, 0.001)
		assert.InDelta(t, 40.0, shares[1].Percent, 0.001)
	})

	t.Run("last participant absorbs rounding", func(t *testing.T) {
		// 33.33/33.33/33.34 of 100.00: first two round to 3333, last gets the
		// exact remainder 3334 regardless of its own rounding.
		shares, err := Allocate(usd(10000), Percentage(map[int64]float64{1: 33.33, 2: 33.33, 3: 33.34}), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, int64(3333), shares[0].Amount.Cents)
		assert.Equal(t, int64(3333), shares[1].Amount.Cents)
		assert.Equal(t, int64(3334), shares[2].Amount.Cents)
		assert.Equal(t, usd(10000), sumShares(t, shares))
	})

	t.Run("sum not 100 rejected with detail", func(t *testing.T) {
		_, err := Allocate(usd(9000), Percentage(map[int64]float64{1: 60, 2: 30}), []int64{1, 2})
		require.ErrorIs(t, err, ErrInvalidPercentages)
		var sumErr *SumError
		require.ErrorAs(t, err, &sumErr)
		assert.Equal(t, "100.00", sumErr.Expected)
		assert.Equal(t, "90.00", sumErr.Actual)
	})

	t.Run("within tolerance accepted", func(t *testing.T) {
		shares, err := Allocate(usd(9000), Percentage(map[int64]float64{1: 33.33, 2: 33.33, 3: 33.33}), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, usd(9000), sumShares(t, shares))
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := Allocate(usd(9000), Percentage(map[int64]float64{1: 150, 2: -50}), []int64{1, 2})
		assert.ErrorIs(t, err, ErrPercentageOutOfRange)
	})

	t.Run("missing participant percentage rejected", func(t *testing.T) {
		_, err := Allocate(usd(9000), Percentage(map[int64]float64{1: 100}), []int64{1, 2})
		assert.ErrorIs(t, err, ErrMissingPercentage)
	})

	t.Run("nil parameter map panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = Allocate(usd(9000), Policy{Type: PolicyPercentage}, []int64{1, 2})
		})
	})
}

func TestAllocateExact(t *testing.T) {
	t.Run("amounts taken as-is", func(t *testing.T) {
		shares, err := Allocate(usd(5000), Exact(map[int64]money.Money{1: usd(1250), 2: usd(3750)}), []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, int64(1250), shares[0].Amount.Cents)
		assert.Equal(t, int64(3750), shares[1].Amount.Cents)
	})

	t.Run("zero share allowed", func(t *testing.T) {
		shares, err := Allocate(usd(5000), Exact(map[int64]money.Money{1: usd(0), 2: usd(5000)}), []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, int64(0), shares[0].Amount.Cents)
	})

	t.Run("sum mismatch rejected with detail", func(t *testing.T) {
		_, err := Allocate(usd(5000), Exact(map[int64]money.Money{1: usd(1000), 2: usd(3000)}), []int64{1, 2})
		require.ErrorIs(t, err, ErrInvalidExactAmounts)
		var sumErr *SumError
		require.ErrorAs(t, err, &sumErr)
		assert.Equal(t, "50.00", sumErr.Expected)
		assert.Equal(t, "40.00", sumErr.Actual)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := Allocate(usd(5000), Exact(map[int64]money.Money{1: usd(-100), 2: usd(5100)}), []int64{1, 2})
		assert.ErrorIs(t, err, ErrNegativeExactAmount)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		_, err := Allocate(usd(5000), Exact(map[int64]money.Money{1: money.New(5000, "EUR")}), []int64{1})
		assert.ErrorIs(t, err, ErrExactCurrencyMismatch)
	})
}

func TestAllocateShares(t *testing.T) {
	t.Run("1:2:3 weights", func(t *testing.T) {
		shares, err := Allocate(usd(6000), Shares(map[int64]int64{1: 1, 2: 2, 3: 3}), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), shares[0].Amount.Cents)
		assert.Equal(t, int64(2000), shares[1].Amount.Cents)
		assert.Equal(t, int64(3000), shares[2].Amount.Cents)
	})

	t.Run("remainder goes to last", func(t *testing.T) {
		shares, err := Allocate(usd(10000), Shares(map[int64]int64{1: 1, 2: 1, 3: 1}), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, usd(10000), sumShares(t, shares))
		assert.Equal(t, int64(3333), shares[0].Amount.Cents)
		assert.Equal(t, int64(3333), shares[1].Amount.Cents)
		assert.Equal(t, int64(3334), shares[2].Amount.Cents)
	})

	t.Run("zero weight rejected", func(t *testing.T) {
		_, err := Allocate(usd(10000), Shares(map[int64]int64{1: 0, 2: 1}), []int64{1, 2})
		assert.ErrorIs(t, err, ErrNonPositiveWeight)
	})

	t.Run("missing weight rejected", func(t *testing.T) {
		_, err := Allocate(usd(10000), Shares(map[int64]int64{1: 1}), []int64{1, 2})
		assert.ErrorIs(t, err, ErrMissingWeight)
	})
}

func TestAllocateCommonValidation(t *testing.T) {
	_, err := Allocate(usd(100), Equal(), nil)
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = Allocate(usd(100), Equal(), []int64{1, 2, 1})
	assert.ErrorIs(t, err, ErrDuplicateParticipant)

	_, err = Allocate(usd(0), Equal(), []int64{1})
	assert.ErrorIs(t, err, ErrNonPositiveTotal)

	_, err = Allocate(usd(-100), Equal(), []int64{1})
	assert.ErrorIs(t, err, ErrNonPositiveTotal)

	_, err = Allocate(usd(100), Policy{Type: "WEIRD"}, []int64{1})
	assert.Error(t, err)
}

func TestAllocateSinglePercentIs100(t *testing.T) {
	for _, policy := range []Policy{
		Equal(),
		Percentage(map[int64]float64{9: 100}),
		Exact(map[int64]money.Money{9: usd(777)}),
		Shares(map[int64]int64{9: 5}),
	} {
		shares, err := Allocate(usd(777), policy, []int64{9})
		require.NoError(t, err, "policy %s", policy.Type)
		require.Len(t, shares, 1)
		assert.Equal(t, int64(777), shares[0].Amount.Cents, "policy %s", policy.Type)
		assert.InDelta(t, 100.0, shares[0].Percent, 0.001, "policy %s", policy.Type)
	}
}

func TestAllocateDeterministic(t *testing.T) {
	policy := Percentage(map[int64]float64{1: 33.4, 2: 33.3, 3: 33.3})
	first, err := Allocate(usd(12345), policy, []int64{1, 2, 3})
	require.NoError(t, err)
	second, err := Allocate(usd(12345), policy, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllocateNonNegative(t *testing.T) {
	// Remainder assignment must never push a share below zero for valid input.
	totals := []int64{1, 2, 3, 99, 100, 101, 9999, 10001}
	for _, cents := range totals {
		shares, err := Allocate(usd(cents), Equal(), []int64{1, 2, 3})
		require.NoError(t, err)
		for _, s := range shares {
			assert.False(t, s.Amount.IsNegative(), "total %d produced %s", cents, s.Amount)
		}
		assert.Equal(t, usd(cents), sumShares(t, shares))
	}
}

func TestAllocateRoundingNeverOverdraws(t *testing.T) {
	// With a tiny total, half-up rounding on the early participants can claim
	// more cents than exist; the capped allocation must leave the trailing
	// participants at zero instead of negative.
	t.Run("percentage 50/50/0 of one cent", func(t *testing.T) {
		shares, err := Allocate(usd(1), Percentage(map[int64]float64{1: 50, 2: 50, 3: 0}), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 0, 0}, []int64{shares[0].Amount.Cents, shares[1].Amount.Cents, shares[2].Amount.Cents})
		assert.Equal(t, usd(1), sumShares(t, shares))
	})

	t.Run("four equal weights over two cents", func(t *testing.T) {
		shares, err := Allocate(usd(2), Shares(map[int64]int64{1: 1, 2: 1, 3: 1, 4: 1}), []int64{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, usd(2), sumShares(t, shares))
		for _, s := range shares {
			assert.False(t, s.Amount.IsNegative(), "share %+v is negative", s)
		}
	})

	t.Run("sweep small totals under both policies", func(t *testing.T) {
		for cents := int64(1); cents <= 25; cents++ {
			pctShares, err := Allocate(usd(cents), Percentage(map[int64]float64{1: 33.33, 2: 33.33, 3: 33.34}), []int64{1, 2, 3})
			require.NoError(t, err)
			wShares, err := Allocate(usd(cents), Shares(map[int64]int64{1: 3, 2: 2, 3: 1}), []int64{1, 2, 3})
			require.NoError(t, err)
			for _, shares := range [][]Share{pctShares, wShares} {
				for _, s := range shares {
					assert.False(t, s.Amount.IsNegative(), "total %d produced %s", cents, s.Amount)
				}
				assert.Equal(t, usd(cents), sumShares(t, shares))
			}
		}
	})
}
