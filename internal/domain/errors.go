package domain

import (
	"errors"
	"fmt"
)

// All of these are local, recoverable conditions: the action is rejected and
// simulation state is left untouched. Nothing here is ever fatal — a run
// only ends through the completion flag.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrUnknownSupplier    = errors.New("unknown supplier")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrMembershipRequired = errors.New("membership fee required before ordering")
	ErrRunComplete        = errors.New("simulation is complete")
)

// CapacityError rejects a stock request that does not fit the machine, and
// tells the caller the most it could stock instead.
type CapacityError struct {
	Product      string
	Size         Size
	Requested    int
	MaxStockable int
}

func (e *CapacityError) Error() string {
	if e.MaxStockable == 0 {
		return fmt.Sprintf("no %s slots available for %s (requested %d)", e.Size, e.Product, e.Requested)
	}
	return fmt.Sprintf("only %d %s slots available for %s (requested %d)", e.MaxStockable, e.Size, e.Product, e.Requested)
}
