package notify_test

import (
	"bytes"
	"context"
	"testing"

	"vendsim/internal/adapters/notify"
	"vendsim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReport() domain.DailyReport {
	return domain.DailyReport{
		Day: 12,
		Context: domain.DayContext{
			Day:       12,
			DayOfWeek: "Saturday",
			Month:     "January",
			Weather:   domain.WeatherCloudy,
		},
		Sales: []domain.SaleLine{
			{Product: "chips", Quantity: 3, Price: 1.50, Revenue: 4.50},
		},
		TotalRevenue:   4.50,
		TotalUnitsSold: 3,
		FailedDeliveries: []domain.FailedDelivery{
			{OrderID: "abc12345", SupplierID: "vending_elite", Product: "soda", Quantity: 10, AmountLost: 20},
		},
		Spoiled: []domain.SpoilageLine{
			{Product: "coffee", Quantity: 5, Loss: 7.50},
		},
		FeeCharged:   2,
		NewEmails:    1,
		Cash:         480.50,
		StorageUnits: map[string]int{"coffee": 0, "chocolate": 20, "chips": 12, "soda": 20},
		MachineUnits: map[string]int{"coffee": 0, "chocolate": 0, "chips": 3, "soda": 0},
		Prices:       map[string]float64{"coffee": 3.00, "chocolate": 2.00, "chips": 1.50, "soda": 2.50},
		StorageValue: 27.40,
		NetWorth:     507.90,
	}
}

func TestConsole_DailyBriefing_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.DailyBriefing(context.Background(), makeReport()))
	out := buf.String()

	assert.Contains(t, out, "[day  12]")
	assert.Contains(t, out, "Saturday")
	assert.Contains(t, out, "sold 3 ($4.50)")
	assert.Contains(t, out, "vending_elite never delivered 10 soda")
	assert.Contains(t, out, "5 coffee spoiled")
	assert.Contains(t, out, "1 new email(s)")
}

func TestConsole_DailyBriefing_FullTable(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.DailyBriefing(context.Background(), makeReport()))
	out := buf.String()

	assert.Contains(t, out, "Day 12")
	// Every catalog product shows a row, sold or not.
	for _, id := range domain.ProductIDs {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "FAILED DELIVERY")
	assert.Contains(t, out, "net worth $507.90")
}

func TestConsole_FinalReport(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	m := domain.FinalMetrics{
		StartingCash:  500,
		FinalCash:     750,
		TotalRevenue:  1200,
		TotalCosts:    950,
		TotalProfit:   250,
		DaysSimulated: 365,
	}
	require.NoError(t, n.FinalReport(context.Background(), m))
	out := buf.String()

	assert.Contains(t, out, "FINAL REPORT — 365 days — SURVIVED")
	assert.Contains(t, out, "$750.00")
	assert.Contains(t, out, "cash growth: +50.0%")
}

func TestConsole_FinalReport_Bankrupt(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	m := domain.FinalMetrics{StartingCash: 500, FinalCash: -12, DaysSimulated: 80, WentBankrupt: true}
	require.NoError(t, n.FinalReport(context.Background(), m))
	assert.Contains(t, buf.String(), "BANKRUPT")
}
