package domain

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", Invalid("unknown booking status %q", s)
}

// Active statuses hold seats against the slot capacity.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated:
		return true
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is one reservation of a (restaurant, date, time) slot. Bookings are
// the only records the system ever deletes.
type Booking struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurantId"`
	UserID       int64     `json:"userId"`
	PartySize    int       `json:"partySize"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Notes        string    `json:"notes,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewBooking is the creation input.
type NewBooking struct {
	RestaurantID int64
	PartySize    int
	Date         string
	Time         string
	Notes        string
}

func (n NewBooking) Validate() error {
	if n.RestaurantID <= 0 {
		return Invalid("restaurantId is required")
	}
	if n.PartySize <= 0 {
		return Invalid("partySize must be positive")
	}
	if _, err := time.Parse(DateLayout, n.Date); err != nil {
		return Invalid("date must be formatted %s", DateLayout)
	}
	if _, err := time.Parse(TimeLayout, n.Time); err != nil {
		return Invalid("time must be formatted %s", TimeLayout)
	}
	return nil
}

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrForbidden          = errors.New("booking belongs to another restaurant")
)

// NoCapacityError reports a slot that cannot seat the requested party.
type NoCapacityError struct {
	Requested int
	Left      int
}

func (e *NoCapacityError) Error() string {
	return fmt.Sprintf("no capacity for party of %d, %d seats left", e.Requested, e.Left)
}

type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return e.Reason }

func Invalid(format string, args ...any) error {
	return &InvalidError{Reason: fmt.Sprintf(format, args...)}
}
