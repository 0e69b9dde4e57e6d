package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrRestaurantNotFound covers both missing and inactive restaurants.
	ErrRestaurantNotFound = errors.New("restaurant not found or inactive")
	ErrOrderNotFound      = errors.New("order not found")
	// ErrConflict is returned when a commit-time check detects concurrent
	// mutation. The caller should retry the whole request.
	ErrConflict = errors.New("state changed concurrently, retry the request")
)

// InvalidError is a malformed-input rejection. It never implies any mutation.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return e.Reason }

func Invalid(format string, args ...any) error {
	return &InvalidError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownItemError marks a line whose item id does not resolve under the
// order's restaurant. The whole batch is rejected.
type UnknownItemError struct {
	ItemID int64
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item (id=%d)", e.ItemID)
}

// Deficiency is one line whose requested quantity exceeds available stock.
type Deficiency struct {
	InventoryItemID int64           `json:"inventoryItemId"`
	Requested       decimal.Decimal `json:"requested"`
	Available       decimal.Decimal `json:"available"`
}

// InsufficientStockError carries every short line of the batch, not just the
// first one found.
type InsufficientStockError struct {
	Deficiencies []Deficiency
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Deficiencies))
}

// InvalidTransitionError rejects a lifecycle move the status graph forbids.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}
