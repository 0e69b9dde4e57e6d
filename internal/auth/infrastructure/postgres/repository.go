package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/domain"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) UpsertRestaurantByCIF(ctx context.Context, cif, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, cif)
		VALUES ($1, $2)
		ON CONFLICT (cif) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		name, cif).Scan(&id)
	return id, err
}

func (r *Repository) CreateUser(ctx context.Context, u domain.NewUser) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, restaurant_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, role, restaurant_id`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.RestaurantID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.RestaurantID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return domain.User{}, domain.ErrEmailTaken
			}
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

func (r *Repository) FindByLogin(ctx context.Context, login string) (domain.User, string, error) {
	var user domain.User
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, role, restaurant_id, password_hash
		FROM users
		WHERE username = $1 OR email = lower($1)
		LIMIT 1`,
		login,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.RestaurantID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	return user, hash, nil
}
