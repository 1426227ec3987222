package main

import (
	"context"
	"errors"
	"log/slog"

	"vendsim/internal/adapters/notify"
	"vendsim/internal/adapters/storage"
	"vendsim/internal/application/engine"
	"vendsim/internal/domain"

	"golang.org/x/time/rate"
)

// autopilot drives a run with a fixed restocking policy: keep the machine
// full, reorder when storage runs low, buy from the cheapest honest supplier.
// The policy is deterministic, so a given seed always produces the same run.
type autopilot struct {
	eng      *engine.Engine
	store    *storage.SQLiteStorage
	notifier *notify.Console
	runID    string
	limiter  *rate.Limiter // nil when unpaced
}

const (
	restockFloor = 12 // storage units below which we reorder
	reorderUnits = 30
	cashReserve  = 60.0 // never spend below this buffer
)

func newAutopilot(eng *engine.Engine, store *storage.SQLiteStorage, notifier *notify.Console, runID string, daysPerSecond float64) *autopilot {
	a := &autopilot{
		eng:      eng,
		store:    store,
		notifier: notifier,
		runID:    runID,
	}
	if daysPerSecond > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(daysPerSecond), 1)
	}
	return a
}

// run advances the simulation up to maxDays (0 = to completion), saving state
// after every day. A context cancellation stops cleanly after the current day.
func (a *autopilot) run(ctx context.Context, maxDays int) error {
	for stepped := 0; maxDays == 0 || stepped < maxDays; stepped++ {
		if a.eng.IsComplete() {
			return nil
		}
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil // context cancelled while pacing
			}
		} else if ctx.Err() != nil {
			return nil
		}

		a.morningRoutine()

		report, err := a.eng.AdvanceDay()
		if errors.Is(err, domain.ErrRunComplete) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := a.notifier.DailyBriefing(ctx, report); err != nil {
			slog.Warn("notifier error", "err", err)
		}
		if err := a.store.SaveRun(ctx, a.runID, a.eng.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

// morningRoutine is the daily decision pass: read mail, top up the machine,
// reorder thin stock.
func (a *autopilot) morningRoutine() {
	for _, mail := range a.eng.ListInbox() {
		if !mail.Read {
			a.eng.ReadEmail(mail.ID)
		}
	}

	a.topUpMachine()
	a.reorderThinStock()
}

// topUpMachine fills free slots from storage, splitting capacity evenly
// across the products of each size class.
func (a *autopilot) topUpMachine() {
	machine := a.eng.CheckMachine()
	stock := a.eng.CheckStorage()

	for _, id := range domain.ProductIDs {
		size := domain.Catalog[id].Size
		free := machine.Slots[size].Free()
		if free == 0 {
			continue
		}

		want := free / 2 // two products per size class
		if want == 0 {
			want = free
		}
		if have := stock.Units[id]; want > have {
			want = have
		}
		if want == 0 {
			continue
		}

		if err := a.eng.StockMachine(id, want); err != nil {
			var capErr *domain.CapacityError
			if errors.As(err, &capErr) && capErr.MaxStockable > 0 {
				a.eng.StockMachine(id, capErr.MaxStockable)
				continue
			}
			slog.Debug("restock skipped", "product", id, "err", err)
			continue
		}
		machine = a.eng.CheckMachine()
	}
}

// reorderThinStock places direct orders for products running low, cheapest
// margin first, while cash stays above the reserve.
func (a *autopilot) reorderThinStock() {
	stock := a.eng.CheckStorage()

	for _, id := range domain.ProductIDs {
		if stock.Units[id] >= restockFloor {
			continue
		}
		cost := float64(reorderUnits) * domain.Catalog[id].SupplierCost
		if a.eng.Cash()-cost < cashReserve {
			continue
		}
		if _, err := a.eng.Order(id, reorderUnits); err != nil {
			slog.Debug("reorder skipped", "product", id, "err", err)
		}
	}
}
