// Package model defines domain entities exchanged with the AcademiaFlow API.
package model

import (
	"errors"
	"net/mail"
	"strings"
)

// Validation errors for account requests.
var (
	ErrEmailRequired     = errors.New("email is required")
	ErrEmailInvalid      = errors.New("email is invalid")
	ErrUsernameInvalid   = errors.New("username must be between 3 and 50 characters")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrPasswordRequired  = errors.New("password is required")
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// User is the public profile of an account. Credentials never appear here.
type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Program   string `json:"program"` // PhD, MS, etc.
	Year      int    `json:"year"`
	Advisor   string `json:"advisor"`
}

// FullName joins the name parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Program   string `json:"program"`
	Year      int    `json:"year"`
	Advisor   string `json:"advisor"`
}

// Validate checks the required registration fields.
func (r *RegisterRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if n := len(r.Username); n < minUsernameLen || n > maxUsernameLen {
		return ErrUsernameInvalid
	}
	if len(r.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if strings.TrimSpace(r.LastName) == "" {
		return ErrLastNameRequired
	}
	return nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// UpdateProfileRequest is a partial User for PUT /users/profile.
// Nil fields are left out of the request body.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Program   *string `json:"program,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Advisor   *string `json:"advisor,omitempty"`
}

// Apply copies the set fields onto u.
func (r *UpdateProfileRequest) Apply(u *User) {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Program != nil {
		u.Program = *r.Program
	}
	if r.Year != nil {
		u.Year = *r.Year
	}
	if r.Advisor != nil {
		u.Advisor = *r.Advisor
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse is returned by GET /users/profile.
type ProfileResponse struct {
	User User `json:"user"`
}

// ProfileUpdateResponse is returned by PUT /users/profile.
type ProfileUpdateResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body written by the backend.
type ErrorResponse struct {
	Error string `json:"error"`
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrEmailInvalid
	}
	return nil
}

// String returns a pointer to s, for building partial updates.
func String(s string) *string { return &s }

// Int returns a pointer to n, for building partial updates.
func Int(n int) *int { return &n }

// Uint returns a pointer to n, for building partial updates.
func Uint(n uint) *uint { return &n }
