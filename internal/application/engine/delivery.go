package engine

import (
	"fmt"
	"log/slog"

	"vendsim/internal/domain"

	"github.com/google/uuid"
)

// delivery.go — orders in transit.
//
// Direct catalog orders and supplier-negotiated orders share the pending
// list; both resolve into storage lots when their delivery day arrives.
// Scammed orders live on a separate list so the absence of a pending order
// is never the only signal that money was lost.

// OrderResult describes a placed direct order.
type OrderResult struct {
	OrderID     string
	Product     string
	Quantity    int
	UnitCost    float64
	TotalCost   float64
	DeliveryDay int
	NewBalance  float64
}

// Order places a direct catalog order at the product's supplier cost. Cash
// is charged immediately; the stock arrives after the configured lag.
func (e *Engine) Order(product string, qty int) (OrderResult, error) {
	if e.complete {
		return OrderResult{}, domain.ErrRunComplete
	}
	p, ok := domain.Catalog[product]
	if !ok {
		return OrderResult{}, fmt.Errorf("engine.Order: %q: %w", product, domain.ErrUnknownProduct)
	}
	if qty <= 0 {
		return OrderResult{}, fmt.Errorf("engine.Order: %w", domain.ErrInvalidQuantity)
	}

	total := float64(qty) * p.SupplierCost
	note := fmt.Sprintf("ordered %d %s, delivery day %d", qty, product, e.day+e.cfg.DirectOrderLagDays)
	if err := e.deduct(total, domain.TxPurchase, product, qty, note); err != nil {
		return OrderResult{}, fmt.Errorf("engine.Order: %w", err)
	}

	order := domain.PendingOrder{
		ID:          shortID(),
		Product:     product,
		Quantity:    qty,
		UnitCost:    p.SupplierCost,
		OrderDay:    e.day,
		DeliveryDay: e.day + e.cfg.DirectOrderLagDays,
		TotalCost:   total,
	}
	e.pending = append(e.pending, order)

	slog.Info("direct order placed",
		"order_id", order.ID, "product", product, "qty", qty,
		"cost", total, "delivery_day", order.DeliveryDay)

	return OrderResult{
		OrderID:     order.ID,
		Product:     product,
		Quantity:    qty,
		UnitCost:    p.SupplierCost,
		TotalCost:   total,
		DeliveryDay: order.DeliveryDay,
		NewBalance:  e.cash,
	}, nil
}

// resolveDueDeliveries lands every pending order due today as a fresh
// storage lot, and surfaces scammed orders whose due day has passed. Called
// exactly once per AdvanceDay, so it is idempotent per day by construction.
func (e *Engine) resolveDueDeliveries() ([]domain.DeliveryLine, []domain.FailedDelivery) {
	var delivered []domain.DeliveryLine
	retained := e.pending[:0]
	for _, order := range e.pending {
		if order.DeliveryDay > e.day {
			retained = append(retained, order)
			continue
		}
		expiry := e.day + domain.Catalog[order.Product].SpoilageDays
		e.addLot(order.Product, order.Quantity, e.day, order.UnitCost, expiry)
		delivered = append(delivered, domain.DeliveryLine{
			OrderID:    order.ID,
			SupplierID: order.SupplierID,
			Product:    order.Product,
			Quantity:   order.Quantity,
			OrderedDay: order.OrderDay,
		})
	}
	e.pending = retained

	var failed []domain.FailedDelivery
	heldBack := e.scammed[:0]
	for _, order := range e.scammed {
		if order.DeliveryDay > e.day {
			heldBack = append(heldBack, order)
			continue
		}
		failed = append(failed, domain.FailedDelivery{
			OrderID:    order.ID,
			SupplierID: order.SupplierID,
			Product:    order.Product,
			Quantity:   order.Quantity,
			AmountLost: order.TotalCost,
		})
		slog.Warn("expected delivery never arrived",
			"order_id", order.ID, "supplier", order.SupplierID,
			"product", order.Product, "amount_lost", order.TotalCost)
	}
	e.scammed = heldBack

	return delivered, failed
}

// PendingOrders returns a copy of the in-transit order list. Scammed orders
// are deliberately absent — the caller finds out on the due day.
func (e *Engine) PendingOrders() []domain.PendingOrder {
	out := make([]domain.PendingOrder, len(e.pending))
	copy(out, e.pending)
	return out
}

// shortID returns an 8-char order id, long enough to never collide in a run.
func shortID() string {
	return uuid.NewString()[:8]
}
