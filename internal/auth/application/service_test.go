package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/domain"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/authtoken"
)

type fakeUsers struct {
	restaurants map[string]int64
	nextRID     int64
	created     *domain.NewUser
	createErr   error

	loginUser domain.User
	loginHash string
	loginErr  error
}

func (f *fakeUsers) UpsertRestaurantByCIF(_ context.Context, cif, _ string) (int64, error) {
	if f.restaurants == nil {
		f.restaurants = map[string]int64{}
	}
	if id, ok := f.restaurants[cif]; ok {
		return id, nil
	}
	f.nextRID++
	f.restaurants[cif] = f.nextRID
	return f.nextRID, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u domain.NewUser) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.created = &u
	return domain.User{ID: 1, Username: u.Username, Email: u.Email, Role: u.Role, RestaurantID: u.RestaurantID}, nil
}

func (f *fakeUsers) FindByLogin(context.Context, string) (domain.User, string, error) {
	return f.loginUser, f.loginHash, f.loginErr
}

type fakeThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (f *fakeThrottle) Blocked(context.Context, string) (bool, error) { return f.blocked, nil }
func (f *fakeThrottle) RecordFailure(context.Context, string) error {
	f.failures++
	return nil
}
func (f *fakeThrottle) Reset(context.Context, string) error {
	f.resets++
	return nil
}

func newAuthService(users *fakeUsers, throttle *fakeThrottle) (*Service, *authtoken.Manager) {
	tokens := authtoken.NewManager("test-secret", time.Hour)
	return NewService(slog.Default(), users, throttle, tokens), tokens
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@b.c", Password: "secret1"}},
		{"missing email", RegisterInput{Username: "ana", Password: "secret1"}},
		{"short password", RegisterInput{Username: "ana", Email: "a@b.c", Password: "12345"}},
		{"employee without cif", RegisterInput{Username: "ana", Email: "a@b.c", Password: "secret1", Role: "employee", RestaurantName: "Casa Ana"}},
		{"employee without restaurant name", RegisterInput{Username: "ana", Email: "a@b.c", Password: "secret1", Role: "employee", CIF: "B123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService(&fakeUsers{}, &fakeThrottle{})
			_, _, err := svc.Register(context.Background(), tt.in)
			var inv *domain.InvalidError
			if !errors.As(err, &inv) {
				t.Fatalf("got %v, want InvalidError", err)
			}
		})
	}
}

func TestRegisterSanitizesRole(t *testing.T) {
	users := &fakeUsers{}
	svc, _ := newAuthService(users, &fakeThrottle{})
	user, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", Email: "Ana@B.c", Password: "secret1", Role: "superuser",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Errorf("role = %q, want customer", user.Role)
	}
	if users.created.Email != "ana@b.c" {
		t.Errorf("email should be lowercased, got %q", users.created.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.created.PasswordHash), []byte("secret1")); err != nil {
		t.Error("stored hash must match the password")
	}
}

func TestRegisterEmployeeLinksRestaurant(t *testing.T) {
	users := &fakeUsers{}
	svc, tokens := newAuthService(users, &fakeThrottle{})
	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana", Email: "a@b.c", Password: "secret1",
		Role: "employee", CIF: "b123", RestaurantName: "Casa Ana",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.RestaurantID == nil || *user.RestaurantID != 1 {
		t.Fatalf("restaurant not linked: %v", user.RestaurantID)
	}
	if _, ok := users.restaurants["B123"]; !ok {
		t.Error("cif should be upper-cased before upsert")
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if claims.Role != domain.RoleEmployee || claims.RestaurantID == nil || *claims.RestaurantID != 1 {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	user := domain.User{ID: 7, Username: "ana", Email: "a@b.c", Role: domain.RoleCustomer}

	t.Run("success resets throttle", func(t *testing.T) {
		throttle := &fakeThrottle{}
		svc, tokens := newAuthService(&fakeUsers{loginUser: user, loginHash: string(hash)}, throttle)
		got, token, err := svc.Login(context.Background(), "ana", "secret1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.ID != 7 {
			t.Errorf("user = %+v", got)
		}
		if throttle.resets != 1 {
			t.Errorf("resets = %d, want 1", throttle.resets)
		}
		if _, err := tokens.Verify(token); err != nil {
			t.Errorf("token must verify: %v", err)
		}
	})

	t.Run("wrong password records failure", func(t *testing.T) {
		throttle := &fakeThrottle{}
		svc, _ := newAuthService(&fakeUsers{loginUser: user, loginHash: string(hash)}, throttle)
		_, _, err := svc.Login(context.Background(), "ana", "nope")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
		if throttle.failures != 1 {
			t.Errorf("failures = %d, want 1", throttle.failures)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newAuthService(&fakeUsers{loginErr: domain.ErrInvalidCredentials}, &fakeThrottle{})
		_, _, err := svc.Login(context.Background(), "ghost", "secret1")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("blocked account", func(t *testing.T) {
		svc, _ := newAuthService(&fakeUsers{loginUser: user, loginHash: string(hash)}, &fakeThrottle{blocked: true})
		_, _, err := svc.Login(context.Background(), "ana", "secret1")
		if !errors.Is(err, domain.ErrTooManyAttempts) {
			t.Fatalf("got %v, want ErrTooManyAttempts", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		svc, _ := newAuthService(&fakeUsers{}, &fakeThrottle{})
		_, _, err := svc.Login(context.Background(), "", "")
		var inv *domain.InvalidError
		if !errors.As(err, &inv) {
			t.Fatalf("got %v, want InvalidError", err)
		}
	})
}
