package application

import (
	"context"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/domain"
)

type Repository interface {
	// Search matches active restaurants by name or CIF, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]domain.Restaurant, error)
	Get(ctx context.Context, id int64) (domain.Restaurant, error)
}
