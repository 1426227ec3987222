package engine_test

import (
	"testing"

	"vendsim/internal/application/engine"
	"vendsim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaySupplier_CreatesPendingOrders(t *testing.T) {
	e := emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: 3})

	res, err := e.PaySupplier("wholesale_direct", 19.0, map[string]int{"coffee": 10, "soda": 20})
	require.NoError(t, err)

	assert.InDelta(t, 481.0, e.Cash(), 0.001)
	assert.InDelta(t, 19.0, res.AmountPaid, 0.001)
	assert.Equal(t, 2, res.ExpectedDeliveryDay)
	assert.False(t, res.MembershipPaid)

	// Money committed matches money paid, split across the two products.
	var committed float64
	for _, order := range e.PendingOrders() {
		committed += order.TotalCost
	}
	if len(e.PendingOrders()) > 0 {
		assert.InDelta(t, 19.0, committed, 0.001)
	}
	require.NoError(t, e.VerifyLedger())
}

func TestPaySupplier_Validation(t *testing.T) {
	e := emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: 1})

	_, err := e.PaySupplier("acme", 10, map[string]int{"chips": 10})
	assert.ErrorIs(t, err, domain.ErrUnknownSupplier)

	_, err = e.PaySupplier("wholesale_direct", 10, map[string]int{"caviar": 10})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = e.PaySupplier("wholesale_direct", 10, map[string]int{"chips": -2})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Below the 10-unit minimum.
	_, err = e.PaySupplier("wholesale_direct", 10, map[string]int{"chips": 5})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Nothing was deducted by any rejected call.
	assert.InDelta(t, 500.0, e.Cash(), 0.001)
	require.NoError(t, e.VerifyLedger())
}

func TestPaySupplier_MembershipGate(t *testing.T) {
	e := emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: 1})

	// Ordering before the fee is rejected pre-deduction.
	_, err := e.PaySupplier("vending_elite", 20, map[string]int{"soda": 5})
	require.ErrorIs(t, err, domain.ErrMembershipRequired)
	assert.InDelta(t, 500.0, e.Cash(), 0.001)

	// Short fee payments are rejected too.
	_, err = e.PaySupplier("vending_elite", 50, nil)
	require.Error(t, err)
	assert.InDelta(t, 500.0, e.Cash(), 0.001)

	// The fee itself.
	res, err := e.PaySupplier("vending_elite", 75, nil)
	require.NoError(t, err)
	assert.True(t, res.MembershipPaid)
	assert.InDelta(t, 425.0, e.Cash(), 0.001)

	// Paying twice is an error.
	_, err = e.PaySupplier("vending_elite", 75, nil)
	require.Error(t, err)

	// Orders now go through (whether they ship is another matter).
	_, err = e.PaySupplier("vending_elite", 20, map[string]int{"soda": 5})
	require.NoError(t, err)
	assert.InDelta(t, 405.0, e.Cash(), 0.001)
	require.NoError(t, e.VerifyLedger())
}

func TestPaySupplier_MembershipToHonestSupplierRejected(t *testing.T) {
	e := emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: 1})
	_, err := e.PaySupplier("wholesale_direct", 75, nil)
	require.Error(t, err)
	assert.InDelta(t, 500.0, e.Cash(), 0.001)
}

func TestPaySupplier_ScamSurfacesOnDueDay(t *testing.T) {
	// Reliability 0.2 means most payments vanish. Find a seed whose first
	// draw lands in the scam region, then watch the due day.
	var e *engine.Engine
	for seed := int64(1); seed < 50; seed++ {
		e = emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: seed})
		_, err := e.PaySupplier("vending_elite", 75, nil)
		require.NoError(t, err)
		_, err = e.PaySupplier("vending_elite", 20, map[string]int{"soda": 10})
		require.NoError(t, err)
		if len(e.PendingOrders()) == 0 {
			break
		}
	}
	require.Empty(t, e.PendingOrders(), "expected a scammed payment within 50 seeds")

	// Nothing visible until day 5 (vending_elite delivery time).
	for day := 1; day <= 5; day++ {
		report, err := e.AdvanceDay()
		require.NoError(t, err)
		if day < 5 {
			assert.Empty(t, report.FailedDeliveries, "day %d", day)
		} else {
			require.Len(t, report.FailedDeliveries, 1)
			f := report.FailedDeliveries[0]
			assert.Equal(t, "vending_elite", f.SupplierID)
			assert.Equal(t, "soda", f.Product)
			assert.InDelta(t, 20.0, f.AmountLost, 0.001)
		}
	}
	assert.Zero(t, e.CheckStorage().Units["soda"], "scammed stock never arrives")
	require.NoError(t, e.VerifyLedger(), "the money is still gone either way")
}

func TestPaySupplier_ReliabilityRoughlyMatchesRate(t *testing.T) {
	e := emptyEngine(engine.Config{StartingCash: 1_000_000, DailyFee: 2, Seed: 42})
	_, err := e.PaySupplier("vending_elite", 75, nil)
	require.NoError(t, err)

	const trials = 300
	for i := 0; i < trials; i++ {
		_, err := e.PaySupplier("vending_elite", 10, map[string]int{"soda": 10})
		require.NoError(t, err)
	}

	honored := len(e.PendingOrders())
	rate := float64(honored) / trials
	assert.InDelta(t, 0.2, rate, 0.08, "honored %d of %d", honored, trials)
}

func TestPaySupplier_UnitCostReflectsAmountPaid(t *testing.T) {
	// Pay a negotiated (discounted) amount; lot cost must track the real
	// spend, not the sticker quote.
	var e *engine.Engine
	for seed := int64(1); seed < 50; seed++ {
		e = emptyEngine(engine.Config{StartingCash: 500, DailyFee: 2, Seed: seed})
		_, err := e.PaySupplier("wholesale_direct", 9.5, map[string]int{"chips": 20}) // quote would be 7.0
		require.NoError(t, err)
		if len(e.PendingOrders()) == 1 {
			break
		}
	}
	orders := e.PendingOrders()
	require.Len(t, orders, 1)
	assert.InDelta(t, 9.5/20.0, orders[0].UnitCost, 0.001)
	assert.InDelta(t, 9.5, orders[0].TotalCost, 0.001)
}
