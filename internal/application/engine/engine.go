package engine

import (
	"log/slog"
	"math/rand"

	"vendsim/internal/domain"
)

const (
	defaultDays                = 365
	defaultStartingCash        = 500.0
	defaultDailyFee            = 2.0
	defaultBankruptcyThreshold = 10
	defaultDirectOrderLag      = 3
	defaultBillingScale        = 1_000_000
)

// Config holds the simulation parameters.
type Config struct {
	Days                  int
	StartingCash          float64
	DailyFee              float64
	StarterInventoryUnits int
	BankruptcyThreshold   int
	DirectOrderLagDays    int
	BillingRate           float64 // dollars charged per BillingScale billable units
	BillingScale          float64
	Seed                  int64
}

// DefaultConfig returns the reference configuration: one year, $500, $2/day.
func DefaultConfig() Config {
	return Config{
		Days:                  defaultDays,
		StartingCash:          defaultStartingCash,
		DailyFee:              defaultDailyFee,
		StarterInventoryUnits: 20,
		BankruptcyThreshold:   defaultBankruptcyThreshold,
		DirectOrderLagDays:    defaultDirectOrderLag,
		BillingScale:          defaultBillingScale,
	}
}

// Engine owns the whole simulation state and is its only mutation surface.
// It is single-writer by contract: callers serialize access themselves,
// there is no internal locking.
type Engine struct {
	cfg Config
	rng *rand.Rand

	day  int
	cash float64

	prices  map[string]float64
	storage map[string][]domain.InventoryLot
	machine map[string]int
	slots   map[domain.Size]*domain.SlotUsage

	pending []domain.PendingOrder
	scammed []domain.PendingOrder // paid but will never ship; surfaced on the due day

	threads     map[string]*domain.EmailThread
	dueReplies  []scheduledReply
	memberships map[string]bool // supplier id -> membership fee paid
	emailSeq    int

	transactions []domain.Transaction
	reports      []domain.DailyReport

	bankruptStreak   int
	billableUnits    float64
	startingNetWorth float64
	complete         bool
	rngDraws         int // count of reliability draws, replayed on restore
}

// drawReliability advances the seeded RNG by one draw and counts it so a
// restored engine can fast-forward to the same position.
func (e *Engine) drawReliability() float64 {
	e.rngDraws++
	return e.rng.Float64()
}

// New creates a simulation from the config, seeds starter inventory, and
// snapshots the starting net worth. The RNG drives supplier reliability
// draws only; demand noise and weather reseed per call from the calendar.
func New(cfg Config) *Engine {
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.BankruptcyThreshold <= 0 {
		cfg.BankruptcyThreshold = defaultBankruptcyThreshold
	}
	if cfg.DirectOrderLagDays <= 0 {
		cfg.DirectOrderLagDays = defaultDirectOrderLag
	}
	if cfg.BillingScale <= 0 {
		cfg.BillingScale = defaultBillingScale
	}

	e := &Engine{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		cash:        cfg.StartingCash,
		prices:      make(map[string]float64, len(domain.Catalog)),
		storage:     make(map[string][]domain.InventoryLot, len(domain.Catalog)),
		machine:     make(map[string]int, len(domain.Catalog)),
		threads:     make(map[string]*domain.EmailThread),
		memberships: make(map[string]bool),
		slots: map[domain.Size]*domain.SlotUsage{
			domain.SizeSmall: {Max: domain.SmallSlots},
			domain.SizeLarge: {Max: domain.LargeSlots},
		},
	}

	for _, id := range domain.ProductIDs {
		p := domain.Catalog[id]
		e.prices[id] = p.TypicalRetail
		e.storage[id] = nil
		e.machine[id] = 0
		if cfg.StarterInventoryUnits > 0 {
			e.storage[id] = append(e.storage[id], domain.InventoryLot{
				Product:     id,
				Quantity:    cfg.StarterInventoryUnits,
				AcquiredDay: 0,
				UnitCost:    p.SupplierCost,
				ExpiryDay:   p.SpoilageDays,
			})
		}
	}

	// Snapshotted once; never recomputed even if the config changes hands.
	e.startingNetWorth = e.cash + e.storageValue()
	return e
}

// Day returns the current simulation day.
func (e *Engine) Day() int { return e.day }

// IsComplete reports whether the run has terminated (day count exhausted or
// bankruptcy threshold reached). Terminal and non-resumable.
func (e *Engine) IsComplete() bool { return e.complete }

// AdvanceDay runs one full simulated day as a strict sequence: overnight
// sales, day increment, deliveries, operating fee, weekly billing, spoilage,
// supplier replies, report. Each step completes before the next begins.
func (e *Engine) AdvanceDay() (domain.DailyReport, error) {
	if e.complete {
		return domain.DailyReport{}, domain.ErrRunComplete
	}

	// 1. Overnight sales resolve against yesterday's prices and stock.
	sales, revenue, unitsSold := e.resolveOvernightSales()

	// 2. A new day begins.
	e.day++

	// 3. Deliveries due today land in storage; scams come to light.
	delivered, failed := e.resolveDueDeliveries()

	// 4. Operating fee is charged even into the red.
	e.chargeDailyFee()

	// 4b. Weekly billing for externally reported usage.
	billing := e.chargeWeeklyBilling()

	// 5. Spoiled lots are written off.
	spoiled := e.expireLots()

	// 6. Supplier replies due today arrive.
	newEmails := e.resolveDueReplies()

	// 7. Snapshot the morning briefing.
	report := e.buildReport(sales, revenue, unitsSold, delivered, failed, spoiled, billing, newEmails)

	if e.day >= e.cfg.Days || e.bankruptStreak >= e.cfg.BankruptcyThreshold {
		e.complete = true
		report.IsComplete = true
	}
	e.reports = append(e.reports, report)

	slog.Debug("day advanced",
		"day", e.day,
		"cash", e.cash,
		"units_sold", unitsSold,
		"revenue", revenue,
		"bankrupt_streak", e.bankruptStreak,
		"complete", e.complete,
	)
	return report, nil
}

// resolveOvernightSales runs the demand model for every product in the
// machine and books the revenue. Units sold never exceed machine stock.
func (e *Engine) resolveOvernightSales() ([]domain.SaleLine, float64, int) {
	distinct := e.distinctStocked()

	var sales []domain.SaleLine
	totalRevenue := 0.0
	totalUnits := 0

	for _, id := range domain.ProductIDs {
		available := e.machine[id]
		if available == 0 {
			continue
		}

		price := e.prices[id]
		demand := domain.Demand(id, price, e.day, distinct)
		sold := min(demand, available)
		if sold == 0 {
			continue
		}

		revenue := float64(sold) * price
		e.removeFromMachine(id, sold)
		e.credit(revenue, domain.TxSale, id, sold, "overnight sales")

		sales = append(sales, domain.SaleLine{Product: id, Quantity: sold, Price: price, Revenue: revenue})
		totalRevenue += revenue
		totalUnits += sold
	}
	return sales, totalRevenue, totalUnits
}

// chargeDailyFee deducts the operating fee unconditionally and tracks the
// consecutive days the balance could not cover it.
func (e *Engine) chargeDailyFee() {
	canPay := e.cash >= e.cfg.DailyFee
	e.deductUnchecked(e.cfg.DailyFee, domain.TxFee, "", 0, "daily operating fee")

	if canPay {
		e.bankruptStreak = 0
	} else {
		e.bankruptStreak++
		slog.Warn("could not cover operating fee",
			"day", e.day, "cash", e.cash, "streak", e.bankruptStreak)
	}
}

// chargeWeeklyBilling converts accumulated billable units to a charge on
// every 7th day, then resets the accumulator.
func (e *Engine) chargeWeeklyBilling() float64 {
	if e.day%7 != 0 || e.billableUnits == 0 || e.cfg.BillingRate == 0 {
		return 0
	}
	charge := e.cfg.BillingRate * e.billableUnits / e.cfg.BillingScale
	e.deductUnchecked(charge, domain.TxTokenCost, "", 0, "weekly usage billing")
	e.billableUnits = 0
	return charge
}

// expireLots removes every storage lot whose expiry day has passed, booking
// each as a spoilage loss at acquisition cost.
func (e *Engine) expireLots() []domain.SpoilageLine {
	var spoiled []domain.SpoilageLine
	for _, id := range domain.ProductIDs {
		kept := e.storage[id][:0]
		for _, lot := range e.storage[id] {
			if lot.Expired(e.day) {
				loss := lot.Value()
				e.record(domain.TxSpoilage, id, lot.Quantity, -loss, "spoiled in storage")
				spoiled = append(spoiled, domain.SpoilageLine{Product: id, Quantity: lot.Quantity, Loss: loss})
				continue
			}
			kept = append(kept, lot)
		}
		e.storage[id] = kept
	}
	return spoiled
}

func (e *Engine) buildReport(
	sales []domain.SaleLine, revenue float64, unitsSold int,
	delivered []domain.DeliveryLine, failed []domain.FailedDelivery,
	spoiled []domain.SpoilageLine, billing float64, newEmails int,
) domain.DailyReport {
	storageUnits := make(map[string]int, len(domain.Catalog))
	machineUnits := make(map[string]int, len(domain.Catalog))
	prices := make(map[string]float64, len(domain.Catalog))
	for _, id := range domain.ProductIDs {
		total := 0
		for _, lot := range e.storage[id] {
			total += lot.Quantity
		}
		storageUnits[id] = total
		machineUnits[id] = e.machine[id]
		prices[id] = e.prices[id]
	}

	storageValue := e.storageValue()
	return domain.DailyReport{
		Day:              e.day,
		Context:          domain.ContextForDay(e.day),
		Sales:            sales,
		TotalRevenue:     revenue,
		TotalUnitsSold:   unitsSold,
		Deliveries:       delivered,
		FailedDeliveries: failed,
		Spoiled:          spoiled,
		FeeCharged:       e.cfg.DailyFee,
		BillingCharged:   billing,
		NewEmails:        newEmails,
		Cash:             e.cash,
		StorageUnits:     storageUnits,
		StorageValue:     storageValue,
		MachineUnits:     machineUnits,
		Prices:           prices,
		NetWorth:         e.cash + storageValue,
		BankruptStreak:   e.bankruptStreak,
	}
}

// Reports returns the daily report history.
func (e *Engine) Reports() []domain.DailyReport {
	out := make([]domain.DailyReport, len(e.reports))
	copy(out, e.reports)
	return out
}

// FinalMetrics summarizes the run so far.
func (e *Engine) FinalMetrics() domain.FinalMetrics {
	m := domain.FinalMetrics{
		StartingCash:     e.cfg.StartingCash,
		StartingNetWorth: e.startingNetWorth,
		FinalCash:        e.cash,
		FinalNetWorth:    e.cash + e.storageValue(),
		DaysSimulated:    e.day,
		WentBankrupt:     e.bankruptStreak >= e.cfg.BankruptcyThreshold,
	}
	for _, t := range e.transactions {
		if t.Kind == domain.TxSale && t.Amount > 0 {
			m.TotalRevenue += t.Amount
		}
		if t.Amount < 0 {
			m.TotalCosts += -t.Amount
		}
	}
	m.TotalProfit = m.TotalRevenue - m.TotalCosts
	for _, r := range e.reports {
		if r.Cash > e.cfg.StartingCash {
			m.DaysProfitable++
		}
	}
	return m
}
