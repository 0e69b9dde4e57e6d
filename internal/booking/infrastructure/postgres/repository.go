package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Dates and times travel as strings; to_char keeps the wire formats stable
// regardless of server locale.
const bookingColumns = `id, restaurant_id, user_id, party_size,
	to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), COALESCE(notes, ''), status, created_at`

func (r *Repository) RestaurantCapacity(ctx context.Context, restaurantID int64) (int, error) {
	var capacity int
	err := r.pool.QueryRow(ctx,
		`SELECT slot_capacity FROM restaurants WHERE id = $1 AND active`, restaurantID).
		Scan(&capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrRestaurantNotFound
	}
	return capacity, err
}

func (r *Repository) SeatsUsed(ctx context.Context, restaurantID int64, date, timeOfDay string) (int, error) {
	var used int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(party_size), 0)
		FROM reservations
		WHERE restaurant_id = $1 AND date = $2::date AND time = $3::time
		  AND status IN ('pending', 'confirmed', 'seated')`,
		restaurantID, date, timeOfDay).Scan(&used)
	return used, err
}

func (r *Repository) Create(ctx context.Context, userID int64, n domain.NewBooking) (domain.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reservations (restaurant_id, user_id, party_size, date, time, notes)
		VALUES ($1, $2, $3, $4::date, $5::time, $6)
		RETURNING `+bookingColumns,
		n.RestaurantID, userID, n.PartySize, n.Date, n.Time, nullable(n.Notes))
	return scanBooking(row)
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Booking, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM reservations WHERE id = $1`, id)
	booking, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return booking, err
}

func (r *Repository) ByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM reservations
		WHERE user_id = $1
		ORDER BY date DESC, time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) ByRestaurant(ctx context.Context, restaurantID int64, date string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM reservations WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if date != "" {
		query += ` AND date = $2::date`
		args = append(args, date)
	}
	query += ` ORDER BY date ASC, time ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE reservations SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(&b.ID, &b.RestaurantID, &b.UserID, &b.PartySize,
		&b.Date, &b.Time, &b.Notes, &status, &b.CreatedAt)
	b.Status = domain.Status(status)
	return b, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
