package application

import (
	"context"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/domain"
)

type UserRepository interface {
	// UpsertRestaurantByCIF creates the restaurant or refreshes its name,
	// returning its id. Used by employee registration.
	UpsertRestaurantByCIF(ctx context.Context, cif, name string) (int64, error)

	// CreateUser returns ErrUsernameTaken or ErrEmailTaken on unique
	// constraint violations.
	CreateUser(ctx context.Context, u domain.NewUser) (domain.User, error)

	// FindByLogin matches login against username or email and returns the
	// user plus its password hash, or ErrInvalidCredentials.
	FindByLogin(ctx context.Context, login string) (domain.User, string, error)
}

// Throttle limits failed login attempts per account.
type Throttle interface {
	Blocked(ctx context.Context, login string) (bool, error)
	RecordFailure(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}
