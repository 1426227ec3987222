package ports

import (
	"context"
	"time"

	"vendsim/internal/application/engine"
	"vendsim/internal/domain"
)

// RunSummary is the lightweight listing row for a persisted run.
type RunSummary struct {
	RunID     string
	Day       int
	Cash      float64
	Complete  bool
	UpdatedAt time.Time
}

// RunStorage persists simulation runs so they can be resumed later. A loaded
// snapshot restores the engine bit-for-bit, pending orders and RNG position
// included.
type RunStorage interface {
	// SaveRun upserts the full state of a run under its id.
	SaveRun(ctx context.Context, runID string, snap engine.Snapshot) error

	// LoadRun returns the last saved state of a run.
	LoadRun(ctx context.Context, runID string) (engine.Snapshot, error)

	// ListRuns returns summaries of every persisted run, most recent first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	// Transactions returns the persisted ledger of a run in insertion order.
	Transactions(ctx context.Context, runID string) ([]domain.Transaction, error)

	// DeleteRun removes a run and its ledger.
	DeleteRun(ctx context.Context, runID string) error

	// Close releases the underlying database.
	Close() error
}
