package application

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/domain"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/authtoken"
)

const minPasswordLen = 6

type Service struct {
	log      *slog.Logger
	users    UserRepository
	throttle Throttle
	tokens   *authtoken.Manager
}

func NewService(log *slog.Logger, users UserRepository, throttle Throttle, tokens *authtoken.Manager) *Service {
	return &Service{log: log, users: users, throttle: throttle, tokens: tokens}
}

type RegisterInput struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	CIF            string `json:"cif"`
	RestaurantName string `json:"restaurantName"`
}

// Register creates a user and issues its first credential. Employees must
// name their restaurant by CIF; it is created on first sight and its name
// refreshed otherwise.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return domain.User{}, "", domain.Invalid("username, email and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, "", domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	role := domain.SanitizeRole(in.Role)

	var restaurantID *int64
	if role == domain.RoleEmployee {
		cif := strings.ToUpper(strings.TrimSpace(in.CIF))
		name := strings.TrimSpace(in.RestaurantName)
		if cif == "" || name == "" {
			return domain.User{}, "", domain.Invalid("cif and restaurantName are required for employees")
		}
		id, err := s.users.UpsertRestaurantByCIF(ctx, cif, name)
		if err != nil {
			return domain.User{}, "", err
		}
		restaurantID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.users.CreateUser(ctx, domain.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return domain.User{}, "", err
	}
	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login accepts a username or email. Failed attempts count toward a per
// account cooldown; a success clears it.
func (s *Service) Login(ctx context.Context, login, password string) (domain.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.User{}, "", domain.Invalid("user and password are required")
	}

	blocked, err := s.throttle.Blocked(ctx, login)
	if err != nil {
		return domain.User{}, "", err
	}
	if blocked {
		return domain.User{}, "", domain.ErrTooManyAttempts
	}

	user, hash, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		if err := s.throttle.RecordFailure(ctx, login); err != nil {
			s.log.Error("record login failure", "err", err)
		}
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err := s.throttle.Reset(ctx, login); err != nil {
		s.log.Error("reset login throttle", "err", err)
	}

	token, err := s.issue(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) issue(u domain.User) (string, error) {
	return s.tokens.Issue(authtoken.Claims{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		RestaurantID: u.RestaurantID,
	})
}
