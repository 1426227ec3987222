package engine

import (
	"fmt"
	"math"

	"vendsim/internal/domain"
)

// ledger.go — the single cash mutation surface. Every change to the balance
// goes through credit, deduct, or deductUnchecked, and each appends a
// transaction carrying the post-mutation balance. Cash and its audit trail
// cannot diverge.

// credit adds revenue to the balance.
func (e *Engine) credit(amount float64, kind domain.TransactionKind, product string, qty int, note string) {
	e.cash += amount
	e.append(kind, product, qty, amount, note)
}

// deduct removes amount from the balance, rejecting the mutation entirely if
// funds are insufficient.
func (e *Engine) deduct(amount float64, kind domain.TransactionKind, product string, qty int, note string) error {
	if amount > e.cash {
		return fmt.Errorf("engine.deduct: need $%.2f, have $%.2f: %w", amount, e.cash, domain.ErrInsufficientFunds)
	}
	e.deductUnchecked(amount, kind, product, qty, note)
	return nil
}

// deductUnchecked removes amount even if the balance goes negative. Only the
// daily fee and weekly billing use it.
func (e *Engine) deductUnchecked(amount float64, kind domain.TransactionKind, product string, qty int, note string) {
	e.cash -= amount
	e.append(kind, product, qty, -amount, note)
}

// record books a signed amount against the balance. Spoilage passes a
// negative amount without touching cash — the money left when the lot was
// bought; the write-off is informational.
func (e *Engine) record(kind domain.TransactionKind, product string, qty int, amount float64, note string) {
	e.append(kind, product, qty, amount, note)
}

func (e *Engine) append(kind domain.TransactionKind, product string, qty int, amount float64, note string) {
	e.transactions = append(e.transactions, domain.Transaction{
		Day:          e.day,
		Kind:         kind,
		Product:      product,
		Quantity:     qty,
		Amount:       amount,
		BalanceAfter: e.cash,
		Note:         note,
	})
}

// Transactions returns a copy of the full ledger.
func (e *Engine) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(e.transactions))
	copy(out, e.transactions)
	return out
}

// VerifyLedger checks the conservation invariant: starting cash plus the sum
// of cash-moving transaction deltas equals the current balance. Spoilage
// entries are informational and excluded.
func (e *Engine) VerifyLedger() error {
	sum := e.cfg.StartingCash
	for _, t := range e.transactions {
		if t.Kind == domain.TxSpoilage {
			continue
		}
		sum += t.Amount
	}
	if math.Abs(sum-e.cash) > 1e-6 {
		return fmt.Errorf("engine.VerifyLedger: ledger sum $%.4f != cash $%.4f", sum, e.cash)
	}
	return nil
}
