package application

import (
	"context"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/domain"
)

type Repository interface {
	Menu(ctx context.Context) ([]domain.MenuItem, error)

	// PlaceMenuOrder persists the order header and menu-priced lines in one
	// transaction, snapshotting catalog prices.
	PlaceMenuOrder(ctx context.Context, o domain.Order, lines []domain.MenuLine) (int64, error)

	// PlaceInventoryOrder runs the stock ledger operation: lock, verify,
	// decrement and persist, all-or-nothing.
	PlaceInventoryOrder(ctx context.Context, o domain.Order, lines []domain.InventoryLine) (int64, error)

	OrdersByUser(ctx context.Context, userID int64) ([]domain.Detail, error)
	OrdersByRestaurant(ctx context.Context, restaurantID int64, status domain.Status) ([]domain.StaffOrder, error)

	OrderStatus(ctx context.Context, restaurantID, orderID int64) (domain.Status, error)
	// SetOrderStatus applies the transition conditionally on the current
	// status still being `from`, and records the change event.
	SetOrderStatus(ctx context.Context, restaurantID, orderID int64, from, to domain.Status) error
}
