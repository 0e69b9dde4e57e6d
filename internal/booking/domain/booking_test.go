package domain

import (
	"errors"
	"testing"
)

func TestNewBookingValidate(t *testing.T) {
	valid := NewBooking{RestaurantID: 1, PartySize: 4, Date: "2026-03-14", Time: "20:30"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*NewBooking)
	}{
		{"missing restaurant", func(n *NewBooking) { n.RestaurantID = 0 }},
		{"zero party", func(n *NewBooking) { n.PartySize = 0 }},
		{"negative party", func(n *NewBooking) { n.PartySize = -2 }},
		{"bad date", func(n *NewBooking) { n.Date = "14/03/2026" }},
		{"bad time", func(n *NewBooking) { n.Time = "8pm" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			var inv *InvalidError
			if !errors.As(n.Validate(), &inv) {
				t.Errorf("got %v, want InvalidError", n.Validate())
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("confirmed"); err != nil {
		t.Errorf("confirmed should parse: %v", err)
	}
	if _, err := ParseStatus("eaten"); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestStatusActive(t *testing.T) {
	active := []Status{StatusPending, StatusConfirmed, StatusSeated}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s should hold capacity", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if s.Active() {
			t.Errorf("%s should release capacity", s)
		}
	}
}
