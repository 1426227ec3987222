package storage

// sqlite.go — run persistence.
//
// Strategy:
//   - `runs`: one row per run, UPSERT on every save. The full engine state
//     travels as a JSON blob; the summary columns exist so listings never
//     deserialize a blob.
//   - `run_transactions`: append-only ledger mirror, one row per transaction,
//     keyed (run_id, seq). Saves are idempotent — re-saving a run re-inserts
//     nothing thanks to INSERT OR IGNORE.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"vendsim/internal/application/engine"
	"vendsim/internal/domain"
	"vendsim/internal/ports"

	_ "modernc.org/sqlite"
)

const schema = `
-- One row per simulation run
CREATE TABLE IF NOT EXISTS runs (
    run_id     TEXT PRIMARY KEY,
    day        INTEGER  NOT NULL DEFAULT 0,
    cash       REAL     NOT NULL DEFAULT 0,
    complete   INTEGER  NOT NULL DEFAULT 0,
    state      TEXT     NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Ledger mirror, append-only, seq preserves insertion order
CREATE TABLE IF NOT EXISTS run_transactions (
    run_id        TEXT    NOT NULL,
    seq           INTEGER NOT NULL,
    day           INTEGER NOT NULL,
    kind          TEXT    NOT NULL,
    product       TEXT    NOT NULL DEFAULT '',
    quantity      INTEGER NOT NULL DEFAULT 0,
    amount        REAL    NOT NULL DEFAULT 0,
    balance_after REAL    NOT NULL DEFAULT 0,
    note          TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_updated ON runs(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_tx_run_day   ON run_transactions(run_id, day);
`

// SQLiteStorage implements ports.RunStorage using SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

var _ ports.RunStorage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveRun upserts the run row and appends any ledger entries not yet stored.
func (s *SQLiteStorage) SaveRun(ctx context.Context, runID string, snap engine.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	complete := 0
	if snap.Complete {
		complete = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, day, cash, complete, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			day        = excluded.day,
			cash       = excluded.cash,
			complete   = excluded.complete,
			state      = excluded.state,
			updated_at = excluded.updated_at
	`, runID, snap.Day, snap.Cash, complete, string(state), time.Now().UTC()); err != nil {
		return fmt.Errorf("storage.SaveRun: upsert run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO run_transactions
			(run_id, seq, day, kind, product, quantity, amount, balance_after, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare: %w", err)
	}
	defer stmt.Close()

	for seq, t := range snap.Transactions {
		if _, err := stmt.ExecContext(ctx,
			runID, seq, t.Day, string(t.Kind), t.Product, t.Quantity,
			t.Amount, t.BalanceAfter, t.Note,
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert tx %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// LoadRun returns the last saved state of a run.
func (s *SQLiteStorage) LoadRun(ctx context.Context, runID string) (engine.Snapshot, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM runs WHERE run_id = ?`, runID,
	).Scan(&state)
	if err == sql.ErrNoRows {
		return engine.Snapshot{}, fmt.Errorf("storage.LoadRun: no run %q", runID)
	}
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("storage.LoadRun: query %s: %w", runID, err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(state), &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("storage.LoadRun: unmarshal state: %w", err)
	}
	return snap, nil
}

// ListRuns returns run summaries, most recently saved first.
func (s *SQLiteStorage) ListRuns(ctx context.Context) ([]ports.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, day, cash, complete, updated_at
		FROM runs
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunSummary
	for rows.Next() {
		var r ports.RunSummary
		var complete int
		var updated string
		if err := rows.Scan(&r.RunID, &r.Day, &r.Cash, &complete, &updated); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan row: %w", err)
		}
		r.Complete = complete == 1
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Transactions returns the persisted ledger of a run in insertion order.
func (s *SQLiteStorage) Transactions(ctx context.Context, runID string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, kind, product, quantity, amount, balance_after, note
		FROM run_transactions
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.Transactions: query %s: %w", runID, err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var kind string
		if err := rows.Scan(&t.Day, &kind, &t.Product, &t.Quantity,
			&t.Amount, &t.BalanceAfter, &t.Note); err != nil {
			return nil, fmt.Errorf("storage.Transactions: scan row: %w", err)
		}
		t.Kind = domain.TransactionKind(kind)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// DeleteRun removes a run and its ledger rows.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.DeleteRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_transactions WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("storage.DeleteRun: delete ledger %s: %w", runID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("storage.DeleteRun: delete run %s: %w", runID, err)
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
