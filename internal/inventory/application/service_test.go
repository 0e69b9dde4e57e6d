package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/domain"
)

type fakeRepo struct {
	items      map[int64]domain.Item
	listedRID  *int64
	listCalled bool
	created    *domain.NewItem
	deleted    []int64
}

func (f *fakeRepo) List(_ context.Context, rid *int64) ([]domain.Item, error) {
	f.listCalled = true
	f.listedRID = rid
	return nil, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (domain.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

func (f *fakeRepo) Create(_ context.Context, n domain.NewItem) (domain.Item, error) {
	f.created = &n
	return domain.Item{ID: 99, RestaurantID: n.RestaurantID, Name: n.Name, Unit: n.Unit}, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, _ domain.Patch) (domain.Item, error) {
	return f.items[id], nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func rid(v int64) *int64 { return &v }

func TestListScoping(t *testing.T) {
	t.Run("employee sees own restaurant only", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(slog.Default(), repo)
		_, err := svc.List(context.Background(), Actor{Role: "employee", RestaurantID: rid(4)}, rid(9))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if repo.listedRID == nil || *repo.listedRID != 4 {
			t.Errorf("employee filter = %v, want own restaurant 4", repo.listedRID)
		}
	})

	t.Run("employee without restaurant", func(t *testing.T) {
		svc := NewService(slog.Default(), &fakeRepo{})
		_, err := svc.List(context.Background(), Actor{Role: "employee"}, nil)
		var inv *domain.InvalidError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InvalidError", err)
		}
	})

	t.Run("admin may see everything", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(slog.Default(), repo)
		if _, err := svc.List(context.Background(), Actor{Role: "admin"}, nil); err != nil {
			t.Fatalf("List: %v", err)
		}
		if repo.listedRID != nil {
			t.Errorf("admin unfiltered list should pass nil, got %v", repo.listedRID)
		}
	})
}

func TestCreate(t *testing.T) {
	t.Run("employee forced to own restaurant", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(slog.Default(), repo)
		item, err := svc.Create(context.Background(), Actor{Role: "employee", RestaurantID: rid(4)},
			domain.NewItem{RestaurantID: 9, Name: "Flour", Quantity: decimal.NewFromInt(5)})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if item.RestaurantID != 4 {
			t.Errorf("restaurant = %d, want employee's own 4", item.RestaurantID)
		}
	})

	t.Run("admin must supply restaurant", func(t *testing.T) {
		svc := NewService(slog.Default(), &fakeRepo{})
		_, err := svc.Create(context.Background(), Actor{Role: "admin"}, domain.NewItem{Name: "Flour"})
		var inv *domain.InvalidError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InvalidError", err)
		}
	})

	t.Run("invalid item rejected", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(slog.Default(), repo)
		_, err := svc.Create(context.Background(), Actor{Role: "employee", RestaurantID: rid(4)},
			domain.NewItem{Name: "  "})
		var inv *domain.InvalidError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InvalidError", err)
		}
		if repo.created != nil {
			t.Error("repository must not be called for invalid input")
		}
	})
}

func TestOwnership(t *testing.T) {
	repo := &fakeRepo{items: map[int64]domain.Item{
		10: {ID: 10, RestaurantID: 4, Name: "Flour"},
	}}
	svc := NewService(slog.Default(), repo)

	t.Run("cross-restaurant employee forbidden", func(t *testing.T) {
		err := svc.Delete(context.Background(), Actor{Role: "employee", RestaurantID: rid(5)}, 10)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got %v, want ErrForbidden", err)
		}
		if len(repo.deleted) != 0 {
			t.Error("nothing may be deleted when forbidden")
		}
	})

	t.Run("owner may delete", func(t *testing.T) {
		if err := svc.Delete(context.Background(), Actor{Role: "employee", RestaurantID: rid(4)}, 10); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	})

	t.Run("admin may update any", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), Actor{Role: "admin"}, 10, domain.Patch{}); err != nil {
			t.Fatalf("Update: %v", err)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		err := svc.Delete(context.Background(), Actor{Role: "admin"}, 404)
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("got %v, want ErrItemNotFound", err)
		}
	})
}
