package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhamdani/settleup/internal/money"
)

func usd(cents int64) money.Money { return money.New(cents, "USD") }

func assertZeroSum(t *testing.T, balances map[int64]money.Money) {
	t.Helper()
	sum := money.Zero("USD")
	for _, b := range balances {
		sum = sum.Add(b)
	}
	assert.True(t, sum.IsZero(), "balances sum to %s, want zero", sum)
}

func TestNetBalancesSingleExpense(t *testing.T) {
	// A pays 90.00 split evenly among A, B, C: A is owed 60, B and C owe 30.
	expenses := []ExpenseEntry{{
		PayerID: 1,
		Total:   usd(9000),
		Shares:  map[int64]money.Money{1: usd(3000), 2: usd(3000), 3: usd(3000)},
	}}

	balances, err := NetBalances(expenses, nil, []int64{1, 2, 3}, "USD")
	require.NoError(t, err)

	assert.Equal(t, usd(6000), balances[1])
	assert.Equal(t, usd(-3000), balances[2])
	assert.Equal(t, usd(-3000), balances[3])
	assertZeroSum(t, balances)
}

func TestNetBalancesPaymentsOffsetDebts(t *testing.T) {
	expenses := []ExpenseEntry{{
		PayerID: 1,
		Total:   usd(9000),
		Shares:  map[int64]money.Money{1: usd(3000), 2: usd(3000), 3: usd(3000)},
	}}
	payments := []PaymentEntry{
		{PayerID: 2, RecipientID: 1, Amount: usd(3000)},
		{PayerID: 3, RecipientID: 1, Amount: usd(1000)},
	}

	balances, err := NetBalances(expenses, payments, []int64{1, 2, 3}, "USD")
	require.NoError(t, err)

	assert.Equal(t, usd(2000), balances[1])
	assert.True(t, balances[2].IsZero())
	assert.Equal(t, usd(-2000), balances[3])
	assertZeroSum(t, balances)
}

func TestNetBalancesPayerNotParticipating(t *testing.T) {
	// A pays for B and C only: A's net credit is the full total.
	expenses := []ExpenseEntry{{
		PayerID: 1,
		Total:   usd(4000),
		Shares:  map[int64]money.Money{2: usd(2000), 3: usd(2000)},
	}}

	balances, err := NetBalances(expenses, nil, []int64{1, 2, 3}, "USD")
	require.NoError(t, err)
	assert.Equal(t, usd(4000), balances[1])
	assertZeroSum(t, balances)
}

func TestNetBalancesEveryMemberPresent(t *testing.T) {
	balances, err := NetBalances(nil, nil, []int64{1, 2, 3}, "USD")
	require.NoError(t, err)
	require.Len(t, balances, 3)
	for _, b := range balances {
		assert.True(t, b.IsZero())
	}
}

func TestNetBalancesUnknownMember(t *testing.T) {
	expenses := []ExpenseEntry{{
		PayerID: 99,
		Total:   usd(1000),
		Shares:  map[int64]money.Money{99: usd(1000)},
	}}
	_, err := NetBalances(expenses, nil, []int64{1, 2}, "USD")
	assert.ErrorIs(t, err, ErrUnknownMember)

	payments := []PaymentEntry{{PayerID: 1, RecipientID: 42, Amount: usd(100)}}
	_, err = NetBalances(nil, payments, []int64{1, 2}, "USD")
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestNetBalancesShareSumMismatch(t *testing.T) {
	expenses := []ExpenseEntry{{
		PayerID: 1,
		Total:   usd(1000),
		Shares:  map[int64]money.Money{1: usd(400), 2: usd(400)},
	}}
	_, err := NetBalances(expenses, nil, []int64{1, 2}, "USD")
	assert.ErrorIs(t, err, ErrShareSumMismatch)
}

func TestNetBalancesMixedCurrencies(t *testing.T) {
	expenses := []ExpenseEntry{{
		PayerID: 1,
		Total:   money.New(1000, "EUR"),
		Shares:  map[int64]money.Money{1: money.New(1000, "EUR")},
	}}
	_, err := NetBalances(expenses, nil, []int64{1, 2}, "USD")
	assert.ErrorIs(t, err, ErrMixedCurrencies)
}

func TestNetBalancesZeroSumProperty(t *testing.T) {
	// A denser history: several expenses with uneven shares plus payments.
	expenses := []ExpenseEntry{
		{PayerID: 1, Total: usd(10000), Shares: map[int64]money.Money{1: usd(3334), 2: usd(3333), 3: usd(3333)}},
		{PayerID: 2, Total: usd(4500), Shares: map[int64]money.Money{2: usd(1500), 3: usd(3000)}},
		{PayerID: 3, Total: usd(199), Shares: map[int64]money.Money{1: usd(199)}},
		{PayerID: 4, Total: usd(8000), Shares: map[int64]money.Money{1: usd(2000), 2: usd(2000), 3: usd(2000), 4: usd(2000)}},
	}
	payments := []PaymentEntry{
		{PayerID: 3, RecipientID: 1, Amount: usd(2500)},
		{PayerID: 2, RecipientID: 4, Amount: usd(1750)},
	}

	balances, err := NetBalances(expenses, payments, []int64{1, 2, 3, 4}, "USD")
	require.NoError(t, err)
	assertZeroSum(t, balances)
}
