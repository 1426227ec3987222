package engine

import (
	"fmt"

	"vendsim/internal/domain"
)

// actions.go — the operator-facing query and restock surface. Queries copy
// state out; mutations validate fully before touching anything, so a failed
// call leaves the engine exactly as it was.

// BalanceView is the cash position plus what is committed in transit.
type BalanceView struct {
	Cash           float64
	PendingOrders  int
	CommittedFunds float64 // total paid for stock not yet delivered
}

// CheckBalance reports the current cash position.
func (e *Engine) CheckBalance() BalanceView {
	committed := 0.0
	for _, order := range e.pending {
		committed += order.TotalCost
	}
	return BalanceView{
		Cash:           e.cash,
		PendingOrders:  len(e.pending),
		CommittedFunds: committed,
	}
}

// StorageView is a per-product snapshot of the back-room stock.
type StorageView struct {
	Units      map[string]int
	Lots       map[string][]domain.InventoryLot
	TotalValue float64
}

// CheckStorage reports everything in storage, lot detail included.
func (e *Engine) CheckStorage() StorageView {
	view := StorageView{
		Units: make(map[string]int, len(domain.Catalog)),
		Lots:  make(map[string][]domain.InventoryLot, len(domain.Catalog)),
	}
	for _, id := range domain.ProductIDs {
		lots := make([]domain.InventoryLot, len(e.storage[id]))
		copy(lots, e.storage[id])
		view.Lots[id] = lots
		view.Units[id] = e.storageQuantity(id)
	}
	view.TotalValue = e.storageValue()
	return view
}

// MachineView is the front-of-house state: stock, prices, slot occupancy.
type MachineView struct {
	Units  map[string]int
	Prices map[string]float64
	Slots  map[domain.Size]domain.SlotUsage
}

// CheckMachine reports what the machine holds and charges.
func (e *Engine) CheckMachine() MachineView {
	view := MachineView{
		Units:  make(map[string]int, len(domain.Catalog)),
		Prices: make(map[string]float64, len(domain.Catalog)),
		Slots:  make(map[domain.Size]domain.SlotUsage, len(e.slots)),
	}
	for _, id := range domain.ProductIDs {
		view.Units[id] = e.machine[id]
		view.Prices[id] = e.prices[id]
	}
	for size, usage := range e.slots {
		view.Slots[size] = *usage
	}
	return view
}

// StockMachine moves qty units of product from storage into the machine,
// consuming storage lots FIFO. It fails without side effects when storage
// holds too few units or the size class lacks the slots.
func (e *Engine) StockMachine(product string, qty int) error {
	if e.complete {
		return domain.ErrRunComplete
	}
	if !domain.IsKnownProduct(product) {
		return fmt.Errorf("engine.StockMachine: %q: %w", product, domain.ErrUnknownProduct)
	}
	if qty <= 0 {
		return fmt.Errorf("engine.StockMachine: %w", domain.ErrInvalidQuantity)
	}
	if have := e.storageQuantity(product); have < qty {
		return fmt.Errorf("engine.StockMachine: storage has %d %s, want %d: %w",
			have, product, qty, domain.ErrInvalidQuantity)
	}

	// Capacity is checked before any lot is touched.
	if err := e.moveToMachine(product, qty); err != nil {
		return fmt.Errorf("engine.StockMachine: %w", err)
	}
	e.consumeFIFO(product, qty)
	return nil
}

// UnstockMachine moves qty units back from the machine into storage as a
// fresh lot at catalog cost, with the spoilage clock restarted from today.
func (e *Engine) UnstockMachine(product string, qty int) error {
	if e.complete {
		return domain.ErrRunComplete
	}
	p, ok := domain.Catalog[product]
	if !ok {
		return fmt.Errorf("engine.UnstockMachine: %q: %w", product, domain.ErrUnknownProduct)
	}
	if qty <= 0 {
		return fmt.Errorf("engine.UnstockMachine: %w", domain.ErrInvalidQuantity)
	}
	if e.machine[product] < qty {
		return fmt.Errorf("engine.UnstockMachine: machine has %d %s, want %d: %w",
			e.machine[product], product, qty, domain.ErrInvalidQuantity)
	}

	e.removeFromMachine(product, qty)
	e.addLot(product, qty, e.day, p.SupplierCost, e.day+p.SpoilageDays)
	return nil
}

// SetPrice updates the retail price of product, effective for the next
// overnight sales resolution.
func (e *Engine) SetPrice(product string, price float64) error {
	if e.complete {
		return domain.ErrRunComplete
	}
	if !domain.IsKnownProduct(product) {
		return fmt.Errorf("engine.SetPrice: %q: %w", product, domain.ErrUnknownProduct)
	}
	if price <= 0 {
		return fmt.Errorf("engine.SetPrice: %w", domain.ErrInvalidPrice)
	}
	e.prices[product] = price
	return nil
}

// Price returns the current retail price of product.
func (e *Engine) Price(product string) (float64, error) {
	if !domain.IsKnownProduct(product) {
		return 0, fmt.Errorf("engine.Price: %q: %w", product, domain.ErrUnknownProduct)
	}
	return e.prices[product], nil
}

// AddBillableUnits accumulates externally reported usage for the weekly
// billing cycle.
func (e *Engine) AddBillableUnits(units float64) {
	if units > 0 {
		e.billableUnits += units
	}
}

// Cash returns the current balance.
func (e *Engine) Cash() float64 { return e.cash }

// NetWorth is cash plus the acquisition value of storage.
func (e *Engine) NetWorth() float64 { return e.cash + e.storageValue() }
