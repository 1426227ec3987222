package ports

import (
	"context"

	"vendsim/internal/domain"
)

// Notifier presents simulation output to the operator.
type Notifier interface {
	// DailyBriefing renders one day's morning report.
	// The console implementation prints formatted tables.
	DailyBriefing(ctx context.Context, report domain.DailyReport) error

	// FinalReport renders the end-of-run summary.
	FinalReport(ctx context.Context, metrics domain.FinalMetrics) error
}
