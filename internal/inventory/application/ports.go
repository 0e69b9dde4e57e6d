package application

import (
	"context"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/domain"
)

type Repository interface {
	// List returns all items, or those of one restaurant when restaurantID
	// is non-nil.
	List(ctx context.Context, restaurantID *int64) ([]domain.Item, error)
	Get(ctx context.Context, id int64) (domain.Item, error)
	Create(ctx context.Context, n domain.NewItem) (domain.Item, error)
	Update(ctx context.Context, id int64, p domain.Patch) (domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
