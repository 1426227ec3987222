package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"vendsim/internal/domain"
	"vendsim/internal/ports"

	"github.com/olekukonko/tablewriter"
)

// Console implements ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

var _ ports.Notifier = (*Console)(nil)

// NewConsole creates a notifier that writes to stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// DailyBriefing prints the morning report in the configured mode.
func (c *Console) DailyBriefing(_ context.Context, r domain.DailyReport) error {
	if c.table {
		c.printFull(r)
	} else {
		c.printCompact(r)
	}
	return nil
}

// printCompact squeezes the day into one line, events appended.
func (c *Console) printCompact(r domain.DailyReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[day %3d] %s %s %s | sold %d ($%.2f) | cash $%.2f | worth $%.2f",
		r.Day, r.Context.DayOfWeek, r.Context.Month, r.Context.Weather,
		r.TotalUnitsSold, r.TotalRevenue, r.Cash, r.NetWorth)

	if len(r.Deliveries) > 0 {
		fmt.Fprintf(&sb, " | +%d deliveries", len(r.Deliveries))
	}
	for _, f := range r.FailedDeliveries {
		fmt.Fprintf(&sb, "\n  !! %s never delivered %d %s — $%.2f lost",
			f.SupplierID, f.Quantity, f.Product, f.AmountLost)
	}
	for _, s := range r.Spoiled {
		fmt.Fprintf(&sb, "\n  >> %d %s spoiled ($%.2f)", s.Quantity, s.Product, s.Loss)
	}
	if r.NewEmails > 0 {
		fmt.Fprintf(&sb, " | %d new email(s)", r.NewEmails)
	}
	if r.BankruptStreak > 0 {
		fmt.Fprintf(&sb, " | IN THE RED x%d", r.BankruptStreak)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull prints the day header plus per-product tables.
func (c *Console) printFull(r domain.DailyReport) {
	fmt.Fprintf(c.out, "\n=== Day %d — %s, %s, %s ===\n",
		r.Day, r.Context.DayOfWeek, r.Context.Month, r.Context.Weather)

	table := tablewriter.NewWriter(c.out)
	table.Header("Product", "Price", "Sold", "Revenue", "Machine", "Storage")
	for _, id := range domain.ProductIDs {
		sold, revenue := 0, 0.0
		for _, line := range r.Sales {
			if line.Product == id {
				sold, revenue = line.Quantity, line.Revenue
			}
		}
		table.Append(
			id,
			fmt.Sprintf("$%.2f", r.Prices[id]),
			fmt.Sprintf("%d", sold),
			fmt.Sprintf("$%.2f", revenue),
			fmt.Sprintf("%d", r.MachineUnits[id]),
			fmt.Sprintf("%d", r.StorageUnits[id]),
		)
	}
	table.Render()

	for _, d := range r.Deliveries {
		from := d.SupplierID
		if from == "" {
			from = "direct order"
		}
		fmt.Fprintf(c.out, "  delivered: %d %s from %s (ordered day %d)\n",
			d.Quantity, d.Product, from, d.OrderedDay)
	}
	for _, f := range r.FailedDeliveries {
		fmt.Fprintf(c.out, "  !! FAILED DELIVERY: %s kept $%.2f, %d %s never arrived\n",
			f.SupplierID, f.AmountLost, f.Quantity, f.Product)
	}
	for _, s := range r.Spoiled {
		fmt.Fprintf(c.out, "  spoiled: %d %s, $%.2f written off\n", s.Quantity, s.Product, s.Loss)
	}
	if r.NewEmails > 0 {
		fmt.Fprintf(c.out, "  %d new email(s) in the inbox\n", r.NewEmails)
	}

	fmt.Fprintf(c.out, "  cash $%.2f | storage value $%.2f | net worth $%.2f",
		r.Cash, r.StorageValue, r.NetWorth)
	if r.BillingCharged > 0 {
		fmt.Fprintf(c.out, " | weekly billing $%.4f", r.BillingCharged)
	}
	if r.BankruptStreak > 0 {
		fmt.Fprintf(c.out, " | could not cover fees for %d day(s)", r.BankruptStreak)
	}
	fmt.Fprintln(c.out)
}

// FinalReport prints the end-of-run summary table.
func (c *Console) FinalReport(_ context.Context, m domain.FinalMetrics) error {
	verdict := "SURVIVED"
	if m.WentBankrupt {
		verdict = "BANKRUPT"
	}
	fmt.Fprintf(c.out, "\n=== FINAL REPORT — %d days — %s ===\n", m.DaysSimulated, verdict)

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Starting cash", fmt.Sprintf("$%.2f", m.StartingCash))
	table.Append("Starting net worth", fmt.Sprintf("$%.2f", m.StartingNetWorth))
	table.Append("Final cash", fmt.Sprintf("$%.2f", m.FinalCash))
	table.Append("Final net worth", fmt.Sprintf("$%.2f", m.FinalNetWorth))
	table.Append("Total revenue", fmt.Sprintf("$%.2f", m.TotalRevenue))
	table.Append("Total costs", fmt.Sprintf("$%.2f", m.TotalCosts))
	table.Append("Total profit", fmt.Sprintf("$%.2f", m.TotalProfit))
	table.Append("Days profitable", fmt.Sprintf("%d", m.DaysProfitable))
	table.Render()

	growth := 0.0
	if m.StartingCash > 0 {
		growth = (m.FinalCash/m.StartingCash - 1) * 100
	}
	fmt.Fprintf(c.out, "  cash growth: %+.1f%%\n\n", growth)
	return nil
}
