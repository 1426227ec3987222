package domain_test

import (
	"testing"

	"vendsim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_DayZeroIsMondayJanuary(t *testing.T) {
	ctx := domain.ContextForDay(0)
	assert.Equal(t, "Monday", ctx.DayOfWeek)
	assert.Equal(t, "January", ctx.Month)
}

func TestCalendar_MonthsAre30Days(t *testing.T) {
	assert.Equal(t, 1, domain.Month(29))
	assert.Equal(t, 2, domain.Month(30))
	assert.Equal(t, 12, domain.Month(359))
	// Year wraps
	assert.Equal(t, 1, domain.Month(360))
}

func TestWeatherForDay_Deterministic(t *testing.T) {
	for _, day := range []int{0, 1, 17, 100, 364} {
		w1, m1 := domain.WeatherForDay(day)
		w2, m2 := domain.WeatherForDay(day)
		assert.Equal(t, w1, w2, "day %d", day)
		assert.Equal(t, m1, m2, "day %d", day)
	}
}

func TestWeatherForDay_NoSnowInSummer(t *testing.T) {
	// July (days 180-209) carries zero snow probability.
	for day := 180; day < 210; day++ {
		w, _ := domain.WeatherForDay(day)
		assert.NotEqual(t, domain.WeatherSnowy, w, "day %d", day)
	}
}

func TestChoiceMultiplier_RewardsAssortment(t *testing.T) {
	assert.Equal(t, 0.0, domain.ChoiceMultiplier(0))
	assert.Equal(t, 0.60, domain.ChoiceMultiplier(1))
	assert.Equal(t, 0.95, domain.ChoiceMultiplier(2))
	assert.Equal(t, 1.10, domain.ChoiceMultiplier(3))
	assert.Equal(t, 1.00, domain.ChoiceMultiplier(4))
	assert.Equal(t, 0.50, domain.ChoiceMultiplier(5))
	assert.Equal(t, 0.50, domain.ChoiceMultiplier(9))
}

func TestDemand_Deterministic(t *testing.T) {
	for _, id := range domain.ProductIDs {
		d1 := domain.Demand(id, domain.Catalog[id].TypicalRetail, 42, 3)
		d2 := domain.Demand(id, domain.Catalog[id].TypicalRetail, 42, 3)
		assert.Equal(t, d1, d2, id)
	}
}

func TestDemand_EmptyMachineSellsNothing(t *testing.T) {
	for day := 0; day < 30; day++ {
		assert.Zero(t, domain.Demand("chips", 1.50, day, 0))
	}
}

func TestDemand_UnknownProductIsZero(t *testing.T) {
	assert.Zero(t, domain.Demand("caviar", 10, 5, 3))
}

func TestDemand_NeverNegative(t *testing.T) {
	// An absurd price drives the elasticity factor into its floor, not
	// below zero.
	for day := 0; day < 60; day++ {
		d := domain.Demand("coffee", 50.0, day, 3)
		assert.GreaterOrEqual(t, d, 0, "day %d", day)
	}
}

func TestDemand_PriceCutRaisesDemand(t *testing.T) {
	// Averaged over many days so noise cannot flip the comparison.
	cheap, expensive := 0, 0
	for day := 0; day < 120; day++ {
		cheap += domain.Demand("soda", 1.50, day, 3)
		expensive += domain.Demand("soda", 4.00, day, 3)
	}
	assert.Greater(t, cheap, expensive)
}

func TestCategoryWeatherModifier_HotVsCold(t *testing.T) {
	// Rainy day boosts coffee, hurts soda.
	assert.Equal(t, 1.4, domain.CategoryWeatherModifier(domain.CategoryHotBeverage, domain.WeatherRainy, 4))
	assert.Equal(t, 0.6, domain.CategoryWeatherModifier(domain.CategoryColdBeverage, domain.WeatherRainy, 4))

	// Sunny summer flips it.
	assert.Equal(t, 0.5, domain.CategoryWeatherModifier(domain.CategoryHotBeverage, domain.WeatherSunny, 7))
	assert.Equal(t, 1.5, domain.CategoryWeatherModifier(domain.CategoryColdBeverage, domain.WeatherSunny, 7))

	// Snacks do not care.
	assert.Equal(t, 1.0, domain.CategoryWeatherModifier(domain.CategorySnack, domain.WeatherStormy, 1))
}

func TestProfitMargin(t *testing.T) {
	require.InDelta(t, 50.0, domain.ProfitMargin("coffee", 3.00), 0.001)
	assert.Zero(t, domain.ProfitMargin("coffee", 1.00), "selling below cost floors at 0")
	assert.Zero(t, domain.ProfitMargin("caviar", 3.00))
}
