package engine

import (
	"sort"

	"vendsim/internal/domain"
)

// inventory.go — storage lots and machine slots.
//
// Storage holds per-product FIFO lots with expiry; the machine holds plain
// unit counts bounded by per-size-class slot capacity. Units flow
// storage -> machine -> sold, never backwards except via UnstockMachine.

// addLot appends a new storage lot for product.
func (e *Engine) addLot(product string, qty int, day int, unitCost float64, expiryDay int) {
	e.storage[product] = append(e.storage[product], domain.InventoryLot{
		Product:     product,
		Quantity:    qty,
		AcquiredDay: day,
		UnitCost:    unitCost,
		ExpiryDay:   expiryDay,
	})
}

// consumeFIFO drains up to qty units from storage, oldest acquisition first,
// splitting a lot when it is larger than what remains to take. Returns the
// units actually consumed, which is less than qty when storage runs short.
func (e *Engine) consumeFIFO(product string, qty int) int {
	lots := e.storage[product]
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].AcquiredDay < lots[j].AcquiredDay
	})

	remaining := qty
	kept := lots[:0]
	for _, lot := range lots {
		if remaining == 0 {
			kept = append(kept, lot)
			continue
		}
		if lot.Quantity <= remaining {
			remaining -= lot.Quantity
			continue // lot fully drained, drop it
		}
		lot.Quantity -= remaining
		remaining = 0
		kept = append(kept, lot)
	}
	e.storage[product] = kept
	return qty - remaining
}

// moveToMachine places qty units of product into the machine, enforcing the
// size class capacity. On overflow nothing moves and the returned
// CapacityError carries the most that would fit.
func (e *Engine) moveToMachine(product string, qty int) error {
	size := domain.Catalog[product].Size
	usage := e.slots[size]
	if qty > usage.Free() {
		return &domain.CapacityError{
			Product:      product,
			Size:         size,
			Requested:    qty,
			MaxStockable: usage.Free(),
		}
	}
	usage.Used += qty
	e.machine[product] += qty
	return nil
}

// removeFromMachine takes qty units out of the machine and frees their
// slots. Callers never ask for more than is present.
func (e *Engine) removeFromMachine(product string, qty int) {
	size := domain.Catalog[product].Size
	usage := e.slots[size]

	usage.Used -= qty
	if usage.Used < 0 {
		usage.Used = 0
	}
	e.machine[product] -= qty
	if e.machine[product] < 0 {
		e.machine[product] = 0
	}
}

// storageQuantity totals the units of product across its lots.
func (e *Engine) storageQuantity(product string) int {
	total := 0
	for _, lot := range e.storage[product] {
		total += lot.Quantity
	}
	return total
}

// storageValue totals the acquisition value of everything in storage.
func (e *Engine) storageValue() float64 {
	total := 0.0
	for _, lots := range e.storage {
		for _, lot := range lots {
			total += lot.Value()
		}
	}
	return total
}

// distinctStocked counts products with at least one unit in the machine,
// which drives the assortment multiplier.
func (e *Engine) distinctStocked() int {
	n := 0
	for _, qty := range e.machine {
		if qty > 0 {
			n++
		}
	}
	return n
}
