package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultUnit = "unit"

// Item is a stock row owned by exactly one restaurant. Quantity never goes
// below zero; the order ledger's conditional decrement enforces that.
type Item struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurantId"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
}

// BelowReorder reports whether stock has fallen to or under the reorder
// threshold.
func (i Item) BelowReorder() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// NewItem is the creation input. Normalize trims the name, applies the unit
// default and rejects negative amounts.
type NewItem struct {
	RestaurantID int64
	Name         string
	SKU          string
	Unit         string
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
}

func (n *NewItem) Normalize() error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return Invalid("name is required")
	}
	if n.Unit == "" {
		n.Unit = DefaultUnit
	}
	if n.Quantity.IsNegative() {
		return Invalid("quantity cannot be negative")
	}
	if n.ReorderLevel.IsNegative() {
		return Invalid("reorderLevel cannot be negative")
	}
	return nil
}

// Patch carries partial updates; nil fields keep the stored value.
type Patch struct {
	Name         *string
	SKU          *string
	Unit         *string
	Quantity     *decimal.Decimal
	ReorderLevel *decimal.Decimal
}

func (p *Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name cannot be empty")
	}
	if p.Quantity != nil && p.Quantity.IsNegative() {
		return Invalid("quantity cannot be negative")
	}
	if p.ReorderLevel != nil && p.ReorderLevel.IsNegative() {
		return Invalid("reorderLevel cannot be negative")
	}
	return nil
}

var (
	ErrItemNotFound = errors.New("inventory item not found")
	ErrForbidden    = errors.New("item belongs to another restaurant")
)

type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return e.Reason }

func Invalid(format string, args ...any) error {
	return &InvalidError{Reason: fmt.Sprintf(format, args...)}
}
