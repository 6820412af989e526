package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhamdani/settleup/internal/money"
)

func TestPlanTwoDebtorsOneCreditor(t *testing.T) {
	// A is owed 50.00, B owes 30.00, C owes 20.00: B pays A first (larger
	// debt), then C pays A.
	balances := map[int64]money.Money{
		1: usd(5000),
		2: usd(-3000),
		3: usd(-2000),
	}

	transfers, err := Plan(balances)
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	assert.Equal(t, Transfer{FromID: 2, ToID: 1, Amount: usd(3000)}, transfers[0])
	assert.Equal(t, Transfer{FromID: 3, ToID: 1, Amount: usd(2000)}, transfers[1])
}

func TestPlanPartialMatch(t *testing.T) {
	// One large debtor settles two creditors in descending order.
	balances := map[int64]money.Money{
		1: usd(7000),
		2: usd(3000),
		3: usd(-10000),
	}

	transfers, err := Plan(balances)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, Transfer{FromID: 3, ToID: 1, Amount: usd(7000)}, transfers[0])
	assert.Equal(t, Transfer{FromID: 3, ToID: 2, Amount: usd(3000)}, transfers[1])
}

func TestPlanTieBreaksOnMemberID(t *testing.T) {
	balances := map[int64]money.Money{
		5: usd(-1000),
		7: usd(-1000),
		2: usd(1000),
		9: usd(1000),
	}

	transfers, err := Plan(balances)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, Transfer{FromID: 5, ToID: 2, Amount: usd(1000)}, transfers[0])
	assert.Equal(t, Transfer{FromID: 7, ToID: 9, Amount: usd(1000)}, transfers[1])
}

func TestPlanZeroBalancesDropped(t *testing.T) {
	balances := map[int64]money.Money{
		1: usd(100),
		2: usd(-100),
		3: usd(0),
	}
	transfers, err := Plan(balances)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	for _, tr := range transfers {
		assert.NotEqual(t, int64(3), tr.FromID)
		assert.NotEqual(t, int64(3), tr.ToID)
	}
}

func TestPlanEmptyAndSettled(t *testing.T) {
	transfers, err := Plan(nil)
	require.NoError(t, err)
	assert.Empty(t, transfers)

	transfers, err = Plan(map[int64]money.Money{1: usd(0), 2: usd(0)})
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestPlanRejectsUnbalancedInput(t *testing.T) {
	_, err := Plan(map[int64]money.Money{1: usd(100), 2: usd(-50)})
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestPlanRejectsMixedCurrencies(t *testing.T) {
	_, err := Plan(map[int64]money.Money{1: usd(100), 2: money.New(-100, "EUR")})
	assert.ErrorIs(t, err, ErrMixedCurrencies)
}

func TestPlanTransferCountBound(t *testing.T) {
	balances := map[int64]money.Money{
		1: usd(5500), 2: usd(2500), 3: usd(1000),
		4: usd(-4000), 5: usd(-3000), 6: usd(-2000),
	}
	transfers, err := Plan(balances)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(transfers), 5) // creditors + debtors - 1
}

func TestPlanSettlesAllBalances(t *testing.T) {
	// Applying the plan as payments and re-netting must yield all zeros, and
	// every transfer must be strictly positive with distinct endpoints.
	balances := map[int64]money.Money{
		1: usd(6789), 2: usd(-123), 3: usd(-4567),
		4: usd(1101), 5: usd(-3200), 6: usd(0),
	}

	transfers, err := Plan(balances)
	require.NoError(t, err)

	var payments []PaymentEntry
	for _, tr := range transfers {
		assert.True(t, tr.Amount.IsPositive(), "non-positive transfer %+v", tr)
		assert.NotEqual(t, tr.FromID, tr.ToID)
		payments = append(payments, PaymentEntry{PayerID: tr.FromID, RecipientID: tr.ToID, Amount: tr.Amount})
	}

	// Fold the transfers back into the balance map: a payment credits the
	// payer and debits the recipient, the same rule NetBalances applies.
	remaining := make(map[int64]money.Money, len(balances))
	for id, b := range balances {
		remaining[id] = b
	}
	for _, p := range payments {
		remaining[p.PayerID] = remaining[p.PayerID].Add(p.Amount)
		remaining[p.RecipientID] = remaining[p.RecipientID].Sub(p.Amount)
	}
	for id, b := range remaining {
		assert.True(t, b.IsZero(), "member %d left with %s", id, b)
	}
}

func TestPlanInflowMatchesOriginalBalance(t *testing.T) {
	balances := map[int64]money.Money{
		1: usd(4000), 2: usd(1500), 3: usd(-2500), 4: usd(-3000),
	}
	transfers, err := Plan(balances)
	require.NoError(t, err)

	inflow := map[int64]money.Money{}
	outflow := map[int64]money.Money{}
	for _, tr := range transfers {
		if _, ok := inflow[tr.ToID]; !ok {
			inflow[tr.ToID] = usd(0)
		}
		if _, ok := outflow[tr.FromID]; !ok {
			outflow[tr.FromID] = usd(0)
		}
		inflow[tr.ToID] = inflow[tr.ToID].Add(tr.Amount)
		outflow[tr.FromID] = outflow[tr.FromID].Add(tr.Amount)
	}

	assert.Equal(t, usd(4000), inflow[1])
	assert.Equal(t, usd(1500), inflow[2])
	assert.Equal(t, usd(2500), outflow[3])
	assert.Equal(t, usd(3000), outflow[4])
}

func TestPlanDeterministic(t *testing.T) {
	balances := map[int64]money.Money{
		1: usd(3000), 2: usd(3000), 3: usd(-2000), 4: usd(-2000), 5: usd(-2000),
	}
	first, err := Plan(balances)
	require.NoError(t, err)
	second, err := Plan(balances)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
