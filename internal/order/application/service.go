package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/domain"
)

type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

type MenuLineInput struct {
	MenuItemID int64 `json:"menuItemId"`
	Qty        int   `json:"qty"`
}

type InventoryLineInput struct {
	InventoryItemID int64           `json:"inventoryItemId"`
	Qty             decimal.Decimal `json:"qty"`
}

type PlacementInput struct {
	RestaurantID int64  `json:"restaurantId"`
	Method       string `json:"method"`
	TableNumber  string `json:"tableNumber"`
	Notes        string `json:"notes"`
}

func (s *Service) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.Menu(ctx)
}

// PlaceMenuOrder places a menu-priced order. Menu stock is unlimited, so the
// flow validates, snapshots catalog prices and persists without any locking.
func (s *Service) PlaceMenuOrder(ctx context.Context, userID int64, in PlacementInput, items []MenuLineInput) (int64, error) {
	o, err := s.header(userID, in)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, domain.Invalid("items is required")
	}
	seen := make(map[int64]bool, len(items))
	lines := make([]domain.MenuLine, 0, len(items))
	for _, it := range items {
		if it.MenuItemID <= 0 {
			return 0, domain.Invalid("invalid menu item id")
		}
		if it.Qty <= 0 {
			return 0, domain.Invalid("invalid quantity for id=%d", it.MenuItemID)
		}
		if seen[it.MenuItemID] {
			return 0, domain.Invalid("duplicate menu item id=%d", it.MenuItemID)
		}
		seen[it.MenuItemID] = true
		lines = append(lines, domain.MenuLine{MenuItemID: it.MenuItemID, Qty: it.Qty})
	}

	id, err := s.repo.PlaceMenuOrder(ctx, o, lines)
	if err != nil {
		return 0, err
	}
	s.log.Info("menu order placed", "order_id", id, "restaurant_id", o.RestaurantID, "user_id", userID)
	return id, nil
}

// PlaceInventoryOrder places a stock-backed order through the ledger
// operation. Each quantity must be a positive decimal and each item id may
// appear at most once so the batch is a true set.
func (s *Service) PlaceInventoryOrder(ctx context.Context, userID int64, in PlacementInput, lineInputs []InventoryLineInput) (int64, error) {
	o, err := s.header(userID, in)
	if err != nil {
		return 0, err
	}
	if len(lineInputs) == 0 {
		return 0, domain.Invalid("lines is required")
	}
	seen := make(map[int64]bool, len(lineInputs))
	lines := make([]domain.InventoryLine, 0, len(lineInputs))
	for _, l := range lineInputs {
		if l.InventoryItemID <= 0 {
			return 0, domain.Invalid("invalid inventory item id")
		}
		if !l.Qty.IsPositive() {
			return 0, domain.Invalid("invalid quantity for id=%d", l.InventoryItemID)
		}
		if seen[l.InventoryItemID] {
			return 0, domain.Invalid("duplicate inventory item id=%d", l.InventoryItemID)
		}
		seen[l.InventoryItemID] = true
		lines = append(lines, domain.InventoryLine{InventoryItemID: l.InventoryItemID, Qty: l.Qty})
	}

	id, err := s.repo.PlaceInventoryOrder(ctx, o, lines)
	if err != nil {
		return 0, err
	}
	s.log.Info("inventory order placed", "order_id", id, "restaurant_id", o.RestaurantID, "user_id", userID)
	return id, nil
}

func (s *Service) header(userID int64, in PlacementInput) (domain.Order, error) {
	if in.RestaurantID <= 0 {
		return domain.Order{}, domain.Invalid("restaurantId is required")
	}
	method := domain.Method(in.Method)
	if in.Method == "" {
		method = domain.MethodDineIn
	}
	if !method.Valid() {
		return domain.Order{}, domain.Invalid("invalid method")
	}
	return domain.Order{
		RestaurantID: in.RestaurantID,
		UserID:       userID,
		Status:       domain.StatusNew,
		Method:       method,
		TableNumber:  in.TableNumber,
		Notes:        in.Notes,
	}, nil
}

func (s *Service) Mine(ctx context.Context, userID int64) ([]domain.Detail, error) {
	return s.repo.OrdersByUser(ctx, userID)
}

func (s *Service) ListForRestaurant(ctx context.Context, restaurantID int64, status string) ([]domain.StaffOrder, error) {
	st := domain.Status(status)
	if status != "" && !st.Valid() {
		return nil, domain.Invalid("invalid status")
	}
	return s.repo.OrdersByRestaurant(ctx, restaurantID, st)
}

// UpdateStatus moves an order through its lifecycle. The write is conditional
// on the status the transition was validated against, so two concurrent staff
// updates cannot both win.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, orderID int64, status string) error {
	to := domain.Status(status)
	if !to.Valid() {
		return domain.Invalid("invalid status")
	}
	from, err := s.repo.OrderStatus(ctx, restaurantID, orderID)
	if err != nil {
		return err
	}
	if !domain.ValidTransition(from, to) {
		return &domain.InvalidTransitionError{From: from, To: to}
	}
	if err := s.repo.SetOrderStatus(ctx, restaurantID, orderID, from, to); err != nil {
		return err
	}
	s.log.Info("order status changed", "order_id", orderID, "from", from, "to", to)
	return nil
}
