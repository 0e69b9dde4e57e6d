package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const itemColumns = `id, restaurant_id, name, COALESCE(sku, ''), unit, quantity::text, reorder_level::text`

func (r *Repository) List(ctx context.Context, restaurantID *int64) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	var args []any
	if restaurantID != nil {
		query += ` WHERE restaurant_id = $1`
		args = append(args, *restaurantID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, err
}

func (r *Repository) Create(ctx context.Context, n domain.NewItem) (domain.Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (restaurant_id, name, sku, unit, quantity, reorder_level)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric)
		RETURNING `+itemColumns,
		n.RestaurantID, n.Name, nullable(n.SKU), n.Unit,
		n.Quantity.String(), n.ReorderLevel.String())
	return scanItem(row)
}

func (r *Repository) Update(ctx context.Context, id int64, p domain.Patch) (domain.Item, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE inventory_items SET
			name = COALESCE($2, name),
			sku = COALESCE($3, sku),
			unit = COALESCE($4, unit),
			quantity = COALESCE($5::numeric, quantity),
			reorder_level = COALESCE($6::numeric, reorder_level)
		WHERE id = $1
		RETURNING `+itemColumns,
		id, p.Name, p.SKU, p.Unit, decArg(p.Quantity), decArg(p.ReorderLevel))
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item
	var qty, reorder string
	if err := row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.SKU,
		&item.Unit, &qty, &reorder); err != nil {
		return domain.Item{}, err
	}
	var err error
	if item.Quantity, err = decimal.NewFromString(qty); err != nil {
		return domain.Item{}, fmt.Errorf("parse quantity: %w", err)
	}
	if item.ReorderLevel, err = decimal.NewFromString(reorder); err != nil {
		return domain.Item{}, fmt.Errorf("parse reorder level: %w", err)
	}
	return item, nil
}

func decArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
