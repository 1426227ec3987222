package storage_test

import (
	"context"
	"testing"

	"vendsim/internal/adapters/storage"
	"vendsim/internal/application/engine"
	"vendsim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(t *testing.T, days int) engine.Snapshot {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = 5
	e := engine.New(cfg)
	require.NoError(t, e.StockMachine("chips", 5))
	for i := 0; i < days; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}
	return e.Snapshot()
}

func TestSQLiteStorage_SaveAndLoadRun(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	snap := makeSnapshot(t, 5)
	require.NoError(t, db.SaveRun(context.Background(), "run-1", snap))

	loaded, err := db.LoadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, snap.Day, loaded.Day)
	assert.Equal(t, snap.Cash, loaded.Cash)
	assert.Equal(t, snap.Storage, loaded.Storage)
	assert.Equal(t, snap.Transactions, loaded.Transactions)
	assert.Equal(t, snap.RNGDraws, loaded.RNGDraws)

	// The loaded snapshot restores a working engine.
	e, err := engine.Restore(loaded)
	require.NoError(t, err)
	assert.Equal(t, snap.Day, e.Day())
	require.NoError(t, e.VerifyLedger())
}

func TestSQLiteStorage_LoadMissingRun(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.LoadRun(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestSQLiteStorage_SaveIsIdempotent(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	snap := makeSnapshot(t, 3)
	require.NoError(t, db.SaveRun(context.Background(), "run-1", snap))
	require.NoError(t, db.SaveRun(context.Background(), "run-1", snap))

	txs, err := db.Transactions(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Len(t, txs, len(snap.Transactions), "double save must not duplicate ledger rows")
}

func TestSQLiteStorage_TransactionsPreserveOrder(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	snap := makeSnapshot(t, 5)
	require.NoError(t, db.SaveRun(context.Background(), "run-1", snap))

	txs, err := db.Transactions(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, txs, len(snap.Transactions))
	for i := range txs {
		assert.Equal(t, snap.Transactions[i].Kind, txs[i].Kind, "row %d", i)
		assert.InDelta(t, snap.Transactions[i].Amount, txs[i].Amount, 1e-9, "row %d", i)
		assert.InDelta(t, snap.Transactions[i].BalanceAfter, txs[i].BalanceAfter, 1e-9, "row %d", i)
	}

	// Daily fees show up once per simulated day.
	fees := 0
	for _, tx := range txs {
		if tx.Kind == domain.TxFee {
			fees++
		}
	}
	assert.Equal(t, 5, fees)
}

func TestSQLiteStorage_ListAndDelete(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SaveRun(context.Background(), "run-a", makeSnapshot(t, 2)))
	require.NoError(t, db.SaveRun(context.Background(), "run-b", makeSnapshot(t, 4)))

	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)

	require.NoError(t, db.DeleteRun(context.Background(), "run-a"))

	runs, err = db.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-b", runs[0].RunID)
	assert.Equal(t, 4, runs[0].Day)

	txs, err := db.Transactions(context.Background(), "run-a")
	require.NoError(t, err)
	assert.Empty(t, txs)
}
