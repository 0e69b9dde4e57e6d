package domain

import (
	"errors"
	"fmt"
)

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// SanitizeRole maps anything outside the known role set to customer.
func SanitizeRole(role string) string {
	switch role {
	case RoleCustomer, RoleEmployee, RoleAdmin:
		return role
	}
	return RoleCustomer
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID *int64 `json:"restaurantId"`
}

// NewUser is the persistence input for registration.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	RestaurantID *int64
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("that username already exists")
	ErrEmailTaken         = errors.New("that email is already registered")
	// ErrTooManyAttempts means the account is in a login cooldown window.
	ErrTooManyAttempts = errors.New("too many failed attempts, try again later")
)

type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return e.Reason }

func Invalid(format string, args ...any) error {
	return &InvalidError{Reason: fmt.Sprintf(format, args...)}
}
