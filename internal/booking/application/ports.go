package application

import (
	"context"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/domain"
)

type Repository interface {
	// RestaurantCapacity returns the slot capacity of an active restaurant,
	// or domain.ErrRestaurantNotFound.
	RestaurantCapacity(ctx context.Context, restaurantID int64) (int, error)
	// SeatsUsed sums party sizes of active reservations in one slot.
	SeatsUsed(ctx context.Context, restaurantID int64, date, timeOfDay string) (int, error)
	Create(ctx context.Context, userID int64, n domain.NewBooking) (domain.Booking, error)
	Get(ctx context.Context, id int64) (domain.Booking, error)
	ByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ByRestaurant(ctx context.Context, restaurantID int64, date string) ([]domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status domain.Status) error
	Delete(ctx context.Context, id int64) error
}
