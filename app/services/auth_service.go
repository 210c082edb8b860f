package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/session"
	"github.com/shashiranjanraj/partsdesk/pkg/validate"
)

// ValidationError carries field-level messages from client-side
// validation. Requests failing validation never reach the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AuthService owns the login, register, and logout flows. It talks to
// the backend through the public (credential-free) client and is the
// only writer of the session store.
type AuthService struct {
	api   *rest.Client
	store *session.Store
}

// NewAuthService builds an AuthService. api must be a public client —
// login and registration never carry a bearer header.
func NewAuthService(api *rest.Client, store *session.Store) *AuthService {
	return &AuthService{api: api, store: store}
}

// Login validates creds, exchanges them for a token, and persists it.
// The session store is untouched on any failure.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) error {
	if errs := validate.Struct(creds); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}

	resp, err := s.api.Post("/auth/login").Body(creds).WithContext(ctx).Send()
	if err != nil {
		return err
	}
	if err := resp.Err("Login failed"); err != nil {
		return err
	}

	var auth models.AuthResponse
	if err := resp.JSON(&auth); err != nil {
		return err
	}
	if auth.Token == "" {
		return fmt.Errorf("login succeeded but response carried no token")
	}
	return s.store.SetToken(auth.Token)
}

// Register validates reg and creates the account. The success body is
// discarded; the caller sends the user through the login flow next.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) error {
	if errs := validate.Struct(reg); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}

	payload := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{reg.Name, reg.Email, reg.Password}

	resp, err := s.api.Post("/auth/register").Body(payload).WithContext(ctx).Send()
	if err != nil {
		return err
	}
	return resp.Err("Registration failed")
}

// Logout clears the persisted token.
func (s *AuthService) Logout() error {
	return s.store.Clear()
}
