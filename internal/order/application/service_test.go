package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/domain"
)

type fakeRepo struct {
	placedOrder     *domain.Order
	placedMenuLines []domain.MenuLine
	placedInvLines  []domain.InventoryLine
	placeErr        error

	status       domain.Status
	statusErr    error
	setFrom      domain.Status
	setTo        domain.Status
	setCalled    bool
	setStatusErr error
}

func (f *fakeRepo) Menu(context.Context) ([]domain.MenuItem, error) { return nil, nil }

func (f *fakeRepo) PlaceMenuOrder(_ context.Context, o domain.Order, lines []domain.MenuLine) (int64, error) {
	if f.placeErr != nil {
		return 0, f.placeErr
	}
	f.placedOrder = &o
	f.placedMenuLines = lines
	return 101, nil
}

func (f *fakeRepo) PlaceInventoryOrder(_ context.Context, o domain.Order, lines []domain.InventoryLine) (int64, error) {
	if f.placeErr != nil {
		return 0, f.placeErr
	}
	f.placedOrder = &o
	f.placedInvLines = lines
	return 102, nil
}

func (f *fakeRepo) OrdersByUser(context.Context, int64) ([]domain.Detail, error) { return nil, nil }

func (f *fakeRepo) OrdersByRestaurant(context.Context, int64, domain.Status) ([]domain.StaffOrder, error) {
	return nil, nil
}

func (f *fakeRepo) OrderStatus(context.Context, int64, int64) (domain.Status, error) {
	return f.status, f.statusErr
}

func (f *fakeRepo) SetOrderStatus(_ context.Context, _, _ int64, from, to domain.Status) error {
	f.setCalled = true
	f.setFrom, f.setTo = from, to
	return f.setStatusErr
}

func newService(repo *fakeRepo) *Service {
	return NewService(slog.Default(), repo)
}

func qty(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPlaceInventoryOrderValidation(t *testing.T) {
	valid := PlacementInput{RestaurantID: 1, Method: "pickup"}
	tests := []struct {
		name  string
		in    PlacementInput
		lines []InventoryLineInput
	}{
		{"missing restaurant", PlacementInput{}, []InventoryLineInput{{InventoryItemID: 1, Qty: qty("1")}}},
		{"bad method", PlacementInput{RestaurantID: 1, Method: "drone"}, []InventoryLineInput{{InventoryItemID: 1, Qty: qty("1")}}},
		{"empty lines", valid, nil},
		{"zero qty", valid, []InventoryLineInput{{InventoryItemID: 1, Qty: qty("0")}}},
		{"negative qty", valid, []InventoryLineInput{{InventoryItemID: 1, Qty: qty("-2")}}},
		{"bad item id", valid, []InventoryLineInput{{InventoryItemID: 0, Qty: qty("1")}}},
		{"duplicate item", valid, []InventoryLineInput{
			{InventoryItemID: 1, Qty: qty("1")},
			{InventoryItemID: 1, Qty: qty("2")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			_, err := newService(repo).PlaceInventoryOrder(context.Background(), 5, tt.in, tt.lines)
			var inv *domain.InvalidError
			if !errors.As(err, &inv) {
				t.Fatalf("got %v, want InvalidError", err)
			}
			if repo.placedOrder != nil {
				t.Error("repository must not be called on invalid input")
			}
		})
	}
}

func TestPlaceInventoryOrderNormalizesHeader(t *testing.T) {
	repo := &fakeRepo{}
	id, err := newService(repo).PlaceInventoryOrder(context.Background(), 5,
		PlacementInput{RestaurantID: 3, TableNumber: "12", Notes: "no onion"},
		[]InventoryLineInput{{InventoryItemID: 9, Qty: qty("2.5")}},
	)
	if err != nil {
		t.Fatalf("PlaceInventoryOrder: %v", err)
	}
	if id != 102 {
		t.Errorf("id = %d", id)
	}
	o := repo.placedOrder
	if o.Method != domain.MethodDineIn {
		t.Errorf("empty method should default to dine-in, got %q", o.Method)
	}
	if o.Status != domain.StatusNew || o.UserID != 5 || o.RestaurantID != 3 {
		t.Errorf("header not normalized: %+v", o)
	}
	if len(repo.placedInvLines) != 1 || !repo.placedInvLines[0].Qty.Equal(qty("2.5")) {
		t.Errorf("lines not passed through: %+v", repo.placedInvLines)
	}
}

func TestPlaceMenuOrderValidation(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	_, err := svc.PlaceMenuOrder(context.Background(), 5, PlacementInput{RestaurantID: 1}, []MenuLineInput{{MenuItemID: 2, Qty: 0}})
	var inv *domain.InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want InvalidError", err)
	}

	id, err := svc.PlaceMenuOrder(context.Background(), 5, PlacementInput{RestaurantID: 1}, []MenuLineInput{{MenuItemID: 2, Qty: 3}})
	if err != nil {
		t.Fatalf("valid order: %v", err)
	}
	if id != 101 {
		t.Errorf("id = %d", id)
	}
}

func TestPlaceOrderPropagatesRepoErrors(t *testing.T) {
	want := &domain.InsufficientStockError{Deficiencies: []domain.Deficiency{
		{InventoryItemID: 1, Requested: qty("5"), Available: qty("3")},
	}}
	repo := &fakeRepo{placeErr: want}
	_, err := newService(repo).PlaceInventoryOrder(context.Background(), 5,
		PlacementInput{RestaurantID: 1}, []InventoryLineInput{{InventoryItemID: 1, Qty: qty("5")}})
	var got *domain.InsufficientStockError
	if !errors.As(err, &got) {
		t.Fatalf("got %v, want InsufficientStockError", err)
	}
	if len(got.Deficiencies) != 1 || got.Deficiencies[0].InventoryItemID != 1 {
		t.Errorf("deficiencies = %+v", got.Deficiencies)
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		repo := &fakeRepo{status: domain.StatusNew}
		if err := newService(repo).UpdateStatus(context.Background(), 1, 10, "preparing"); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if !repo.setCalled || repo.setFrom != domain.StatusNew || repo.setTo != domain.StatusPreparing {
			t.Errorf("conditional write not issued correctly: from=%q to=%q", repo.setFrom, repo.setTo)
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		repo := &fakeRepo{status: domain.StatusServed}
		err := newService(repo).UpdateStatus(context.Background(), 1, 10, "cancelled")
		var tr *domain.InvalidTransitionError
		if !errors.As(err, &tr) {
			t.Fatalf("got %v, want InvalidTransitionError", err)
		}
		if repo.setCalled {
			t.Error("no write may happen on invalid transition")
		}
	})

	t.Run("unknown status value", func(t *testing.T) {
		repo := &fakeRepo{status: domain.StatusNew}
		err := newService(repo).UpdateStatus(context.Background(), 1, 10, "burnt")
		var inv *domain.InvalidError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InvalidError", err)
		}
	})

	t.Run("order not found", func(t *testing.T) {
		repo := &fakeRepo{statusErr: domain.ErrOrderNotFound}
		err := newService(repo).UpdateStatus(context.Background(), 1, 10, "preparing")
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("got %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("lost race surfaces conflict", func(t *testing.T) {
		repo := &fakeRepo{status: domain.StatusNew, setStatusErr: domain.ErrConflict}
		err := newService(repo).UpdateStatus(context.Background(), 1, 10, "preparing")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("got %v, want ErrConflict", err)
		}
	})
}

func TestListForRestaurantRejectsBadFilter(t *testing.T) {
	repo := &fakeRepo{}
	_, err := newService(repo).ListForRestaurant(context.Background(), 1, "bogus")
	var inv *domain.InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want InvalidError", err)
	}
}
