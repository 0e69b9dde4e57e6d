package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestNewItemNormalize(t *testing.T) {
	n := NewItem{RestaurantID: 1, Name: "  Flour  ", Quantity: dec("10")}
	if err := n.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if n.Name != "Flour" {
		t.Errorf("name = %q", n.Name)
	}
	if n.Unit != DefaultUnit {
		t.Errorf("unit = %q, want default", n.Unit)
	}
}

func TestNewItemNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		item NewItem
	}{
		{"empty name", NewItem{Name: "   "}},
		{"negative quantity", NewItem{Name: "Flour", Quantity: dec("-1")}},
		{"negative reorder level", NewItem{Name: "Flour", ReorderLevel: dec("-0.5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Normalize()
			var inv *InvalidError
			if !errors.As(err, &inv) {
				t.Errorf("got %v, want InvalidError", err)
			}
		})
	}
}

func TestPatchValidate(t *testing.T) {
	neg := dec("-2")
	empty := " "
	if err := (&Patch{Quantity: &neg}).Validate(); err == nil {
		t.Error("negative quantity should be rejected")
	}
	if err := (&Patch{Name: &empty}).Validate(); err == nil {
		t.Error("blank name should be rejected")
	}
	if err := (&Patch{}).Validate(); err != nil {
		t.Errorf("empty patch should pass: %v", err)
	}
}

func TestBelowReorder(t *testing.T) {
	tests := []struct {
		qty, level string
		want       bool
	}{
		{"10", "3", false},
		{"3", "3", true},
		{"2.999", "3", true},
		{"0", "0", true},
	}
	for _, tt := range tests {
		it := Item{Quantity: dec(tt.qty), ReorderLevel: dec(tt.level)}
		if got := it.BelowReorder(); got != tt.want {
			t.Errorf("BelowReorder(qty=%s level=%s) = %v, want %v", tt.qty, tt.level, got, tt.want)
		}
	}
}
