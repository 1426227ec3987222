package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vendsim/config"
	"vendsim/internal/adapters/notify"
	"vendsim/internal/adapters/storage"
	"vendsim/internal/application/engine"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	runID := flag.String("run", "default", "run id to create or resume")
	days := flag.Int("days", 0, "days to simulate this invocation (0 = run to completion)")
	once := flag.Bool("once", false, "advance a single day and exit")
	watch := flag.Float64("watch", 0, "pace the run at N days per second (0 = as fast as possible)")
	reportOnly := flag.Bool("report", false, "print the final report of a stored run and exit")
	table := flag.Bool("table", false, "print full daily tables (default: compact 1-line)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("no config file, using defaults", "path", *configPath)
		cfg = config.Default()
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("vendsim starting",
		"run", *runID,
		"days", cfg.Simulation.Days,
		"starting_cash", cfg.Simulation.StartingCash,
		"daily_fee", cfg.Simulation.DailyFee,
		"seed", cfg.Simulation.Seed,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, err := openRun(ctx, store, *runID, cfg)
	if err != nil {
		slog.Error("failed to open run", "err", err, "run", *runID)
		os.Exit(1)
	}

	if *reportOnly {
		if err := notifier.FinalReport(ctx, eng.FinalMetrics()); err != nil {
			slog.Warn("notifier error", "err", err)
		}
		return
	}

	limit := *days
	if *once {
		limit = 1
	}

	pilot := newAutopilot(eng, store, notifier, *runID, *watch)
	if err := pilot.run(ctx, limit); err != nil {
		slog.Error("run exited with error", "err", err)
		os.Exit(1)
	}

	if eng.IsComplete() {
		if err := notifier.FinalReport(ctx, eng.FinalMetrics()); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
	slog.Info("vendsim stopped cleanly", "run", *runID, "day", eng.Day(), "cash", eng.Cash())
}

// openRun resumes the run from storage, or starts a fresh one if nothing is
// saved under the id.
func openRun(ctx context.Context, store *storage.SQLiteStorage, runID string, cfg *config.Config) (*engine.Engine, error) {
	snap, err := store.LoadRun(ctx, runID)
	if err == nil {
		slog.Info("resuming run", "run", runID, "day", snap.Day, "cash", snap.Cash)
		return engine.Restore(snap)
	}

	slog.Info("starting fresh run", "run", runID)
	return engine.New(engine.Config{
		Days:                  cfg.Simulation.Days,
		StartingCash:          cfg.Simulation.StartingCash,
		DailyFee:              cfg.Simulation.DailyFee,
		StarterInventoryUnits: cfg.Simulation.StarterInventoryUnits,
		BankruptcyThreshold:   cfg.Simulation.BankruptcyThreshold,
		DirectOrderLagDays:    cfg.Simulation.DirectOrderLagDays,
		BillingRate:           cfg.Billing.Rate,
		BillingScale:          cfg.Billing.Scale,
		Seed:                  cfg.Simulation.Seed,
	}), nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
