package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up on third decimal
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		// Largest parsable amount: 92233720368547757.99 is 2^63-9 cents.
		// One more integer unit would overflow once the fractional cents
		// are added, so everything above is rejected.
		{"92233720368547757.99", 9223372036854775799, true},
		{"92233720368547758", 0, false},
		{"92233720368547758.08", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		} else {
			assert.Error(t, err, "input %q", tc.in)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := New(1050, "USD")
	b := New(525, "USD")

	assert.Equal(t, New(1575, "USD"), a.Add(b))
	assert.Equal(t, New(525, "USD"), a.Sub(b))
	assert.Equal(t, New(-525, "USD"), b.Sub(a))
	assert.Equal(t, New(-1050, "USD"), a.Neg())
	assert.Equal(t, New(1050, "USD"), a.Neg().Abs())
	assert.Equal(t, b, Min(a, b))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, New(1, "EUR").Cmp(New(2, "EUR")))
	assert.Equal(t, 0, New(2, "EUR").Cmp(New(2, "EUR")))
	assert.Equal(t, 1, New(3, "EUR").Cmp(New(2, "EUR")))
}

func TestCurrencyMismatchPanics(t *testing.T) {
	usd := New(100, "USD")
	eur := New(100, "EUR")

	assert.Panics(t, func() { usd.Add(eur) })
	assert.Panics(t, func() { usd.Sub(eur) })
	assert.Panics(t, func() { usd.Cmp(eur) })
	assert.False(t, usd.SameCurrency(eur))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "12.34", New(1234, "USD").Decimal())
	assert.Equal(t, "0.05", New(5, "USD").Decimal())
	assert.Equal(t, "-0.05", New(-5, "USD").Decimal())
	assert.Equal(t, "100.00", New(10000, "USD").Decimal())
	assert.Equal(t, "12.34 USD", New(1234, "USD").String())
}

func TestPredicates(t *testing.T) {
	assert.True(t, Zero("USD").IsZero())
	assert.True(t, New(1, "USD").IsPositive())
	assert.True(t, New(-1, "USD").IsNegative())
}
