package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusReady, StatusServed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// ValidTransition reports whether an order may move from one status to
// another: new, preparing, ready, served in that order, plus cancellation from any
// non-terminal status.
func ValidTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	if to == StatusCancelled {
		return !from.Terminal()
	}
	switch from {
	case StatusNew:
		return to == StatusPreparing
	case StatusPreparing:
		return to == StatusReady
	case StatusReady:
		return to == StatusServed
	}
	return false
}

type Method string

const (
	MethodDineIn Method = "dine-in"
	MethodPickup Method = "pickup"
)

func (m Method) Valid() bool {
	return m == MethodDineIn || m == MethodPickup
}

type PaymentStatus string

const (
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentUnpaid     PaymentStatus = "unpaid"
)

type Order struct {
	ID            int64         `json:"id"`
	RestaurantID  int64         `json:"restaurantId"`
	UserID        int64         `json:"userId"`
	Status        Status        `json:"status"`
	Method        Method        `json:"method"`
	TableNumber   string        `json:"tableNumber,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// MenuLine is a menu-priced order line. Price is the catalog price snapshot
// taken at placement time.
type MenuLine struct {
	MenuItemID int64           `json:"menuItemId"`
	Qty        int             `json:"qty"`
	Price      decimal.Decimal `json:"price"`
}

// InventoryLine is a stock-backed order line. Qty is recorded as a snapshot:
// later inventory changes never alter it.
type InventoryLine struct {
	InventoryItemID int64           `json:"inventoryItemId"`
	Qty             decimal.Decimal `json:"qty"`
}

// Detail is an order together with its lines, as returned to its owner.
type Detail struct {
	Order
	MenuLines      []MenuLineDetail      `json:"items"`
	InventoryLines []InventoryLineDetail `json:"inventoryItems"`
}

type MenuLineDetail struct {
	MenuItemID int64           `json:"menuItemId"`
	Name       string          `json:"name"`
	Qty        int             `json:"qty"`
	Price      decimal.Decimal `json:"price"`
}

type InventoryLineDetail struct {
	InventoryItemID int64           `json:"inventoryItemId"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Qty             decimal.Decimal `json:"qty"`
}

// StaffOrder is the restaurant-side listing row: order plus customer identity
// and the menu-line total.
type StaffOrder struct {
	Order
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Total    decimal.Decimal `json:"total"`
}
