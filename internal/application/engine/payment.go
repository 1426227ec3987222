package engine

import (
	"fmt"
	"log/slog"

	"vendsim/internal/domain"
)

// PaymentResult confirms a supplier payment. It reports the expected
// delivery day even when the supplier has silently pocketed the money — the
// caller learns the truth only when the day passes.
type PaymentResult struct {
	OrderIDs            []string
	SupplierID          string
	AmountPaid          float64
	ExpectedDeliveryDay int
	MembershipPaid      bool
	NewBalance          float64
}

// PaySupplier sends money to a supplier. With products it places an order:
// the amount is deducted, then a reliability draw decides whether pending
// orders are actually created or the payment is recorded as scammed. With no
// products it pays a membership fee, which fee-gated suppliers require
// before any order.
func (e *Engine) PaySupplier(supplierID string, amount float64, products map[string]int) (PaymentResult, error) {
	if e.complete {
		return PaymentResult{}, domain.ErrRunComplete
	}
	s, ok := domain.Suppliers[supplierID]
	if !ok {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %q: %w", supplierID, domain.ErrUnknownSupplier)
	}
	if amount <= 0 {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: amount must be positive")
	}

	if len(products) == 0 {
		return e.payMembership(s, amount)
	}

	totalUnits := 0
	for product, qty := range products {
		if !domain.IsKnownProduct(product) {
			return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %q: %w", product, domain.ErrUnknownProduct)
		}
		if qty <= 0 {
			return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s: %w", product, domain.ErrInvalidQuantity)
		}
		totalUnits += qty
	}
	if totalUnits < s.MinOrderQty {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s requires at least %d units per order: %w",
			s.Name, s.MinOrderQty, domain.ErrInvalidQuantity)
	}
	if s.HasMembershipFee() && !e.memberships[s.ID] {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s: %w", s.Name, domain.ErrMembershipRequired)
	}

	note := fmt.Sprintf("payment to %s for %d units", s.Name, totalUnits)
	if err := e.deduct(amount, domain.TxSupplierPayment, "", totalUnits, note); err != nil {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %w", err)
	}

	// The money is gone either way. Whether stock ships is the supplier's
	// call, and the caller cannot observe the outcome until the due day.
	honored := e.drawReliability() < s.Reliability
	deliveryDay := e.day + s.DeliveryDays

	quoteTotal := domain.Quote(s, products)
	var orderIDs []string
	for _, product := range domain.ProductIDs {
		qty, ok := products[product]
		if !ok {
			continue
		}
		// Allocate the paid amount across products by quote weight so lot
		// costs reflect what was actually spent.
		share := amount / float64(len(products))
		if quoteTotal > 0 {
			share = amount * (s.BasePrices[product] * float64(qty)) / quoteTotal
		}
		order := domain.PendingOrder{
			ID:          shortID(),
			SupplierID:  s.ID,
			Product:     product,
			Quantity:    qty,
			UnitCost:    share / float64(qty),
			OrderDay:    e.day,
			DeliveryDay: deliveryDay,
			TotalCost:   share,
		}
		orderIDs = append(orderIDs, order.ID)
		if honored {
			e.pending = append(e.pending, order)
		} else {
			e.scammed = append(e.scammed, order)
		}
	}

	if thread, ok := e.threads[s.ID]; ok {
		thread.Status = domain.NegotiationAccepted
	}

	slog.Info("supplier payment sent",
		"supplier", s.ID, "amount", amount, "units", totalUnits,
		"expected_delivery", deliveryDay)

	return PaymentResult{
		OrderIDs:            orderIDs,
		SupplierID:          s.ID,
		AmountPaid:          amount,
		ExpectedDeliveryDay: deliveryDay,
		NewBalance:          e.cash,
	}, nil
}

// payMembership handles a productless payment as a membership fee. The fee
// is non-negotiable and never creates a pending order.
func (e *Engine) payMembership(s domain.Supplier, amount float64) (PaymentResult, error) {
	if !s.HasMembershipFee() {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s takes no membership fee and no products were given", s.Name)
	}
	if e.memberships[s.ID] {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s membership already paid", s.Name)
	}
	if amount < s.MembershipFee {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %s membership fee is $%.2f, got $%.2f",
			s.Name, s.MembershipFee, amount)
	}

	note := fmt.Sprintf("membership fee for %s", s.Name)
	if err := e.deduct(amount, domain.TxSupplierPayment, "", 0, note); err != nil {
		return PaymentResult{}, fmt.Errorf("engine.PaySupplier: %w", err)
	}
	e.memberships[s.ID] = true

	slog.Info("membership fee paid", "supplier", s.ID, "amount", amount)
	return PaymentResult{
		SupplierID:     s.ID,
		AmountPaid:     amount,
		MembershipPaid: true,
		NewBalance:     e.cash,
	}, nil
}
