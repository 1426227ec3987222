package engine

import (
	"fmt"
	"math/rand"

	"vendsim/internal/domain"
)

// snapshot.go — full state capture for persistence.
//
// A Snapshot is a plain serializable image of everything the engine owns.
// The RNG is not serialized; instead the draw count is, and Restore replays
// that many draws from the seed so the next reliability check lands on the
// same value it would have in an uninterrupted run.

// Snapshot is the complete engine state at one point in time.
type Snapshot struct {
	Config Config `json:"config"`

	Day  int     `json:"day"`
	Cash float64 `json:"cash"`

	Prices  map[string]float64               `json:"prices"`
	Storage map[string][]domain.InventoryLot `json:"storage"`
	Machine map[string]int                   `json:"machine"`
	Slots   map[domain.Size]domain.SlotUsage `json:"slots"`

	Pending []domain.PendingOrder `json:"pending"`
	Scammed []domain.PendingOrder `json:"scammed"`

	Threads     map[string]domain.EmailThread `json:"threads"`
	DueReplies  []ScheduledReply              `json:"due_replies"`
	Memberships map[string]bool               `json:"memberships"`
	EmailSeq    int                           `json:"email_seq"`

	Transactions []domain.Transaction `json:"transactions"`
	Reports      []domain.DailyReport `json:"reports"`

	BankruptStreak   int     `json:"bankrupt_streak"`
	BillableUnits    float64 `json:"billable_units"`
	StartingNetWorth float64 `json:"starting_net_worth"`
	Complete         bool    `json:"complete"`
	RNGDraws         int     `json:"rng_draws"`
}

// ScheduledReply is the serialized form of a pending supplier response.
type ScheduledReply struct {
	SupplierID string `json:"supplier_id"`
	ReplyTo    string `json:"reply_to"`
	DueDay     int    `json:"due_day"`
	Rounds     int    `json:"rounds"`
}

// Snapshot captures the full engine state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Config:           e.cfg,
		Day:              e.day,
		Cash:             e.cash,
		Prices:           make(map[string]float64, len(e.prices)),
		Storage:          make(map[string][]domain.InventoryLot, len(e.storage)),
		Machine:          make(map[string]int, len(e.machine)),
		Slots:            make(map[domain.Size]domain.SlotUsage, len(e.slots)),
		Pending:          append([]domain.PendingOrder(nil), e.pending...),
		Scammed:          append([]domain.PendingOrder(nil), e.scammed...),
		Threads:          make(map[string]domain.EmailThread, len(e.threads)),
		Memberships:      make(map[string]bool, len(e.memberships)),
		EmailSeq:         e.emailSeq,
		Transactions:     append([]domain.Transaction(nil), e.transactions...),
		Reports:          append([]domain.DailyReport(nil), e.reports...),
		BankruptStreak:   e.bankruptStreak,
		BillableUnits:    e.billableUnits,
		StartingNetWorth: e.startingNetWorth,
		Complete:         e.complete,
		RNGDraws:         e.rngDraws,
	}
	for id, price := range e.prices {
		snap.Prices[id] = price
	}
	for id, lots := range e.storage {
		snap.Storage[id] = append([]domain.InventoryLot(nil), lots...)
	}
	for id, qty := range e.machine {
		snap.Machine[id] = qty
	}
	for size, usage := range e.slots {
		snap.Slots[size] = *usage
	}
	for id, thread := range e.threads {
		t := domain.EmailThread{
			SupplierID: thread.SupplierID,
			Status:     thread.Status,
			Rounds:     thread.Rounds,
			Emails:     append([]domain.Email(nil), thread.Emails...),
		}
		snap.Threads[id] = t
	}
	for _, due := range e.dueReplies {
		snap.DueReplies = append(snap.DueReplies, ScheduledReply(due))
	}
	for id, paid := range e.memberships {
		snap.Memberships[id] = paid
	}
	return snap
}

// Restore rebuilds an engine from a snapshot. The resulting engine continues
// exactly where the snapshotted one stopped, reliability draws included.
func Restore(snap Snapshot) (*Engine, error) {
	if snap.Config.Days <= 0 {
		return nil, fmt.Errorf("engine.Restore: snapshot has no run configuration")
	}

	e := &Engine{
		cfg:              snap.Config,
		rng:              rand.New(rand.NewSource(snap.Config.Seed)),
		day:              snap.Day,
		cash:             snap.Cash,
		prices:           make(map[string]float64, len(snap.Prices)),
		storage:          make(map[string][]domain.InventoryLot, len(snap.Storage)),
		machine:          make(map[string]int, len(snap.Machine)),
		threads:          make(map[string]*domain.EmailThread, len(snap.Threads)),
		memberships:      make(map[string]bool, len(snap.Memberships)),
		emailSeq:         snap.EmailSeq,
		pending:          append([]domain.PendingOrder(nil), snap.Pending...),
		scammed:          append([]domain.PendingOrder(nil), snap.Scammed...),
		transactions:     append([]domain.Transaction(nil), snap.Transactions...),
		reports:          append([]domain.DailyReport(nil), snap.Reports...),
		bankruptStreak:   snap.BankruptStreak,
		billableUnits:    snap.BillableUnits,
		startingNetWorth: snap.StartingNetWorth,
		complete:         snap.Complete,
		slots: map[domain.Size]*domain.SlotUsage{
			domain.SizeSmall: {Max: domain.SmallSlots},
			domain.SizeLarge: {Max: domain.LargeSlots},
		},
	}

	for id, price := range snap.Prices {
		e.prices[id] = price
	}
	for id, lots := range snap.Storage {
		e.storage[id] = append([]domain.InventoryLot(nil), lots...)
	}
	for id, qty := range snap.Machine {
		e.machine[id] = qty
	}
	for size, usage := range snap.Slots {
		u := usage
		e.slots[size] = &u
	}
	for id, thread := range snap.Threads {
		t := domain.EmailThread{
			SupplierID: thread.SupplierID,
			Status:     thread.Status,
			Rounds:     thread.Rounds,
			Emails:     append([]domain.Email(nil), thread.Emails...),
		}
		e.threads[id] = &t
	}
	for _, due := range snap.DueReplies {
		e.dueReplies = append(e.dueReplies, scheduledReply(due))
	}
	for id, paid := range snap.Memberships {
		e.memberships[id] = paid
	}

	// Fast-forward the RNG to where the snapshotted run left it.
	for i := 0; i < snap.RNGDraws; i++ {
		e.rng.Float64()
	}
	e.rngDraws = snap.RNGDraws

	return e, nil
}
