package application

import (
	"context"
	"log/slog"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/domain"
)

// Actor is the decoded caller identity relevant to inventory authorization.
type Actor struct {
	UserID       int64
	Role         string
	RestaurantID *int64
}

func (a Actor) admin() bool { return a.Role == "admin" }

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// List scopes employees to their own restaurant; admins may filter by
// restaurant or see everything.
func (s *Service) List(ctx context.Context, actor Actor, restaurantID *int64) ([]domain.Item, error) {
	if actor.admin() {
		return s.repo.List(ctx, restaurantID)
	}
	if actor.RestaurantID == nil {
		return nil, domain.Invalid("employee has no restaurant")
	}
	return s.repo.List(ctx, actor.RestaurantID)
}

// ListByRestaurant is the customer-facing listing used to build inventory
// orders.
func (s *Service) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Item, error) {
	if restaurantID <= 0 {
		return nil, domain.Invalid("restaurantId is required")
	}
	return s.repo.List(ctx, &restaurantID)
}

func (s *Service) Create(ctx context.Context, actor Actor, n domain.NewItem) (domain.Item, error) {
	if actor.admin() {
		if n.RestaurantID <= 0 {
			return domain.Item{}, domain.Invalid("restaurantId is required")
		}
	} else {
		if actor.RestaurantID == nil {
			return domain.Item{}, domain.Invalid("employee has no restaurant")
		}
		n.RestaurantID = *actor.RestaurantID
	}
	if err := n.Normalize(); err != nil {
		return domain.Item{}, err
	}

	item, err := s.repo.Create(ctx, n)
	if err != nil {
		return domain.Item{}, err
	}
	s.log.Info("inventory item created", "item_id", item.ID, "restaurant_id", item.RestaurantID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id int64, p domain.Patch) (domain.Item, error) {
	if err := p.Validate(); err != nil {
		return domain.Item{}, err
	}
	if err := s.authorize(ctx, actor, id); err != nil {
		return domain.Item{}, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("inventory item deleted", "item_id", id, "user_id", actor.UserID)
	return nil
}

func (s *Service) authorize(ctx context.Context, actor Actor, id int64) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.admin() {
		return nil
	}
	if actor.RestaurantID == nil || *actor.RestaurantID != item.RestaurantID {
		return domain.ErrForbidden
	}
	return nil
}
