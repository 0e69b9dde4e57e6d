package domain

import "errors"

// Restaurant is the tenant boundary: inventory, orders and bookings all hang
// off one restaurant. CIF is the Spanish company tax id, unique per row.
type Restaurant struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CIF          string `json:"cif"`
	SlotMinutes  int    `json:"slotMinutes"`
	SlotCapacity int    `json:"slotCapacity"`
	Active       bool   `json:"active"`
}

var ErrRestaurantNotFound = errors.New("restaurant not found")
