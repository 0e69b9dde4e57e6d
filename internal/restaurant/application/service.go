package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/domain"
)

const searchLimit = 20

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// Search returns an empty list for a blank query without touching storage.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Restaurant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Restaurant{}, nil
	}
	return s.repo.Search(ctx, query, searchLimit)
}

// Mine returns the restaurant a staff member is affiliated with.
func (s *Service) Mine(ctx context.Context, restaurantID int64) (domain.Restaurant, error) {
	return s.repo.Get(ctx, restaurantID)
}
