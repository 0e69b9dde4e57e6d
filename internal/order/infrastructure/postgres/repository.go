package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price::text
		FROM menu_items
		WHERE active
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var it domain.MenuItem
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &price); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse menu price: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// lineSource is the pluggable half of order placement: menu-priced lines and
// inventory-backed lines share the header flow but differ in how lines are
// validated and written.
type lineSource interface {
	// prepare runs inside the placement transaction before the order header
	// is inserted. For inventory lines this is the lock-and-verify step of
	// the ledger operation.
	prepare(ctx context.Context, tx pgx.Tx) error
	payment() domain.PaymentStatus
	writeLines(ctx context.Context, tx pgx.Tx, orderID int64) error
}

func (r *Repository) PlaceMenuOrder(ctx context.Context, o domain.Order, lines []domain.MenuLine) (int64, error) {
	return r.place(ctx, o, &menuLines{lines: lines})
}

func (r *Repository) PlaceInventoryOrder(ctx context.Context, o domain.Order, lines []domain.InventoryLine) (int64, error) {
	return r.place(ctx, o, &inventoryLines{restaurantID: o.RestaurantID, lines: lines})
}

// place runs the whole placement as one transaction. Any error on any step
// rolls everything back: no order header without its lines, no decrement
// without its order.
func (r *Repository) place(ctx context.Context, o domain.Order, src lineSource) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var restaurantID int64
	err = tx.QueryRow(ctx, `SELECT id FROM restaurants WHERE id = $1 AND active`, o.RestaurantID).
		Scan(&restaurantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return 0, err
	}

	if err := src.prepare(ctx, tx); err != nil {
		return 0, err
	}

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (restaurant_id, user_id, status, method, table_number, notes, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		o.RestaurantID, o.UserID, domain.StatusNew, o.Method,
		nullable(o.TableNumber), nullable(o.Notes), src.payment(),
	).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	if err := src.writeLines(ctx, tx, orderID); err != nil {
		return 0, err
	}

	payload, err := json.Marshal(domain.OrderPlaced{
		OrderID:       orderID,
		RestaurantID:  o.RestaurantID,
		UserID:        o.UserID,
		Method:        o.Method,
		PaymentStatus: src.payment(),
	})
	if err != nil {
		return 0, err
	}
	if err := insertOutbox(ctx, tx, orderID, domain.EventOrderPlaced, payload); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

// menuLines prices each line from the current catalog. No locking: menu stock
// is unlimited, so concurrent menu orders never contend.
type menuLines struct {
	lines  []domain.MenuLine
	prices map[int64]decimal.Decimal
}

func (m *menuLines) prepare(ctx context.Context, tx pgx.Tx) error {
	ids := make([]int64, 0, len(m.lines))
	for _, l := range m.lines {
		ids = append(ids, l.MenuItemID)
	}

	rows, err := tx.Query(ctx, `SELECT id, price::text FROM menu_items WHERE active AND id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.prices = make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var price string
		if err := rows.Scan(&id, &price); err != nil {
			return err
		}
		if m.prices[id], err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse menu price: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range m.lines {
		if _, ok := m.prices[l.MenuItemID]; !ok {
			return &domain.UnknownItemError{ItemID: l.MenuItemID}
		}
	}
	return nil
}

func (m *menuLines) payment() domain.PaymentStatus { return domain.PaymentAuthorized }

func (m *menuLines) writeLines(ctx context.Context, tx pgx.Tx, orderID int64) error {
	batch := &pgx.Batch{}
	for _, l := range m.lines {
		batch.Queue(`
			INSERT INTO order_items (order_id, menu_item_id, qty, price)
			VALUES ($1, $2, $3, $4::numeric)`,
			orderID, l.MenuItemID, l.Qty, m.prices[l.MenuItemID].String())
	}
	return tx.SendBatch(ctx, batch).Close()
}

// inventoryLines is the stock ledger operation of the placement flow.
type inventoryLines struct {
	restaurantID int64
	lines        []domain.InventoryLine
}

// prepare acquires exclusive locks on every referenced inventory row before
// evaluating any line, then verifies ownership and sufficiency against the
// locked snapshot. Shortages are collected across the whole batch so the
// caller sees every deficient line, not just the first.
func (s *inventoryLines) prepare(ctx context.Context, tx pgx.Tx) error {
	ids := make([]int64, 0, len(s.lines))
	for _, l := range s.lines {
		ids = append(ids, l.InventoryItemID)
	}

	// Locking in id order keeps overlapping batches from deadlocking each
	// other; the second always queues behind the first.
	rows, err := tx.Query(ctx, `
		SELECT id, quantity::text
		FROM inventory_items
		WHERE restaurant_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`,
		s.restaurantID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	stock := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var qty string
		if err := rows.Scan(&id, &qty); err != nil {
			return err
		}
		if stock[id], err = decimal.NewFromString(qty); err != nil {
			return fmt.Errorf("parse stock quantity: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var deficiencies []domain.Deficiency
	for _, l := range s.lines {
		available, ok := stock[l.InventoryItemID]
		if !ok {
			// Missing or belonging to another restaurant: hard rejection
			// of the whole batch.
			return &domain.UnknownItemError{ItemID: l.InventoryItemID}
		}
		if l.Qty.GreaterThan(available) {
			deficiencies = append(deficiencies, domain.Deficiency{
				InventoryItemID: l.InventoryItemID,
				Requested:       l.Qty,
				Available:       available,
			})
		}
	}
	if len(deficiencies) > 0 {
		return &domain.InsufficientStockError{Deficiencies: deficiencies}
	}
	return nil
}

func (s *inventoryLines) payment() domain.PaymentStatus { return domain.PaymentUnpaid }

// writeLines records each snapshot line and applies the conditional
// decrement. The quantity >= qty guard in the UPDATE re-checks the invariant
// at write time, so negative stock is impossible even if a concurrent writer
// slipped past the row locks; an unexpected affected-row count aborts the
// whole transaction as a conflict.
func (s *inventoryLines) writeLines(ctx context.Context, tx pgx.Tx, orderID int64) error {
	for _, l := range s.lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_inventory_items (order_id, inventory_item_id, qty)
			VALUES ($1, $2, $3::numeric)`,
			orderID, l.InventoryItemID, l.Qty.String())
		if err != nil {
			return err
		}

		ct, err := tx.Exec(ctx, `
			UPDATE inventory_items
			SET quantity = quantity - $1::numeric
			WHERE id = $2
			  AND restaurant_id = $3
			  AND quantity >= $1::numeric`,
			l.Qty.String(), l.InventoryItemID, s.restaurantID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() != 1 {
			return domain.ErrConflict
		}
	}
	return nil
}

func (r *Repository) OrdersByUser(ctx context.Context, userID int64) ([]domain.Detail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, restaurant_id, user_id, status, method,
		       COALESCE(table_number, ''), COALESCE(notes, ''), payment_status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.Detail
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.RestaurantID, &o.UserID, &o.Status, &o.Method,
			&o.TableNumber, &o.Notes, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(details)
		ids = append(ids, o.ID)
		details = append(details, domain.Detail{
			Order:          o,
			MenuLines:      []domain.MenuLineDetail{},
			InventoryLines: []domain.InventoryLineDetail{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return details, nil
	}

	menuRows, err := r.pool.Query(ctx, `
		SELECT oi.order_id, oi.menu_item_id, mi.name, oi.qty, oi.price::text
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id`, ids)
	if err != nil {
		return nil, err
	}
	defer menuRows.Close()
	for menuRows.Next() {
		var orderID int64
		var l domain.MenuLineDetail
		var price string
		if err := menuRows.Scan(&orderID, &l.MenuItemID, &l.Name, &l.Qty, &price); err != nil {
			return nil, err
		}
		if l.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse line price: %w", err)
		}
		i := index[orderID]
		details[i].MenuLines = append(details[i].MenuLines, l)
	}
	if err := menuRows.Err(); err != nil {
		return nil, err
	}

	invRows, err := r.pool.Query(ctx, `
		SELECT oii.order_id, oii.inventory_item_id, ii.name, ii.unit, oii.qty::text
		FROM order_inventory_items oii
		JOIN inventory_items ii ON ii.id = oii.inventory_item_id
		WHERE oii.order_id = ANY($1)
		ORDER BY oii.order_id`, ids)
	if err != nil {
		return nil, err
	}
	defer invRows.Close()
	for invRows.Next() {
		var orderID int64
		var l domain.InventoryLineDetail
		var qty string
		if err := invRows.Scan(&orderID, &l.InventoryItemID, &l.Name, &l.Unit, &qty); err != nil {
			return nil, err
		}
		if l.Qty, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("parse line quantity: %w", err)
		}
		i := index[orderID]
		details[i].InventoryLines = append(details[i].InventoryLines, l)
	}
	return details, invRows.Err()
}

func (r *Repository) OrdersByRestaurant(ctx context.Context, restaurantID int64, status domain.Status) ([]domain.StaffOrder, error) {
	query := `
		SELECT o.id, o.restaurant_id, o.user_id, o.status, o.method,
		       COALESCE(o.table_number, ''), COALESCE(o.notes, ''), o.payment_status, o.created_at,
		       COALESCE(u.username, ''), COALESCE(u.email, ''),
		       COALESCE(SUM(oi.qty * oi.price), 0)::text
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.restaurant_id = $1`
	args := []any{restaurantID}
	if status != "" {
		query += ` AND o.status = $2`
		args = append(args, status)
	}
	query += `
		GROUP BY o.id, u.username, u.email
		ORDER BY o.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.StaffOrder
	for rows.Next() {
		var o domain.StaffOrder
		var total string
		if err := rows.Scan(&o.ID, &o.RestaurantID, &o.UserID, &o.Status, &o.Method,
			&o.TableNumber, &o.Notes, &o.PaymentStatus, &o.CreatedAt,
			&o.Username, &o.Email, &total); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse order total: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repository) OrderStatus(ctx context.Context, restaurantID, orderID int64) (domain.Status, error) {
	var status domain.Status
	err := r.pool.QueryRow(ctx, `
		SELECT status FROM orders WHERE id = $1 AND restaurant_id = $2`,
		orderID, restaurantID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrOrderNotFound
	}
	return status, err
}

func (r *Repository) SetOrderStatus(ctx context.Context, restaurantID, orderID int64, from, to domain.Status) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2 AND restaurant_id = $3 AND status = $4`,
		to, orderID, restaurantID, from)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return domain.ErrConflict
	}

	payload, err := json.Marshal(domain.OrderStatusChanged{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		From:         from,
		To:           to,
	})
	if err != nil {
		return err
	}
	if err := insertOutbox(ctx, tx, orderID, domain.EventOrderStatusChanged, payload); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertOutbox(ctx context.Context, tx pgx.Tx, orderID int64, eventType string, payload []byte) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, status)
		VALUES ('order', $1::text, $2, $3, 'pending')`,
		fmt.Sprint(orderID), eventType, payload)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
