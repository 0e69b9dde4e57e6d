package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/domain"
)

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// Availability reports the seats left in one slot.
func (s *Service) Availability(ctx context.Context, restaurantID int64, date, timeOfDay string) (int, error) {
	if restaurantID <= 0 {
		return 0, domain.Invalid("restaurantId is required")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return 0, domain.Invalid("date must be formatted %s", domain.DateLayout)
	}
	if _, err := time.Parse(domain.TimeLayout, timeOfDay); err != nil {
		return 0, domain.Invalid("time must be formatted %s", domain.TimeLayout)
	}

	capacity, err := s.repo.RestaurantCapacity(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	used, err := s.repo.SeatsUsed(ctx, restaurantID, date, timeOfDay)
	if err != nil {
		return 0, err
	}
	left := capacity - used
	if left < 0 {
		left = 0
	}
	return left, nil
}

// Create checks capacity and inserts. The check is a plain read before the
// write, so two simultaneous bookings can both pass it; the slot capacity is
// advisory rather than a hard ledger.
func (s *Service) Create(ctx context.Context, userID int64, n domain.NewBooking) (domain.Booking, error) {
	if err := n.Validate(); err != nil {
		return domain.Booking{}, err
	}

	left, err := s.Availability(ctx, n.RestaurantID, n.Date, n.Time)
	if err != nil {
		return domain.Booking{}, err
	}
	if n.PartySize > left {
		return domain.Booking{}, &domain.NoCapacityError{Requested: n.PartySize, Left: left}
	}

	booking, err := s.repo.Create(ctx, userID, n)
	if err != nil {
		return domain.Booking{}, err
	}
	s.log.Info("booking created", "booking_id", booking.ID,
		"restaurant_id", booking.RestaurantID, "party_size", booking.PartySize)
	return booking, nil
}

func (s *Service) Mine(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.repo.ByUser(ctx, userID)
}

// ListForRestaurant lists a restaurant's bookings, optionally for one date.
func (s *Service) ListForRestaurant(ctx context.Context, restaurantID int64, date string) ([]domain.Booking, error) {
	if date != "" {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			return nil, domain.Invalid("date must be formatted %s", domain.DateLayout)
		}
	}
	return s.repo.ByRestaurant(ctx, restaurantID, date)
}

// UpdateStatus moves a booking to any of the known statuses. Staff may only
// touch bookings of their own restaurant.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, bookingID int64, raw string) error {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return err
	}
	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.RestaurantID != restaurantID {
		return domain.ErrForbidden
	}
	if err := s.repo.SetStatus(ctx, bookingID, status); err != nil {
		return err
	}
	s.log.Info("booking status changed", "booking_id", bookingID, "status", status)
	return nil
}

func (s *Service) Delete(ctx context.Context, restaurantID, bookingID int64) error {
	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.RestaurantID != restaurantID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, bookingID)
}
