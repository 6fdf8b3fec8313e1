// Package api maps the AcademiaFlow REST resources onto typed methods.
// It holds no state; every method performs exactly one request.
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

// Doer sends one JSON request. *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

// Service is the domain API facade.
type Service struct {
	doer Doer
}

// New creates a Service on top of doer.
func New(doer Doer) *Service {
	return &Service{doer: doer}
}

// Register creates an account and returns its first token.
// POST /auth/register
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
// POST /auth/login
func (s *Service) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	body := model.LoginRequest{Email: email, Password: password}
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the signed-in user.
// GET /users/profile
func (s *Service) GetProfile(ctx context.Context) (*model.ProfileResponse, error) {
	var out model.ProfileResponse
	if err := s.doer.Do(ctx, http.MethodGet, "/users/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends the set fields of req.
// PUT /users/profile
func (s *Service) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.ProfileUpdateResponse, error) {
	var out model.ProfileUpdateResponse
	if err := s.doer.Do(ctx, http.MethodPut, "/users/profile", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
