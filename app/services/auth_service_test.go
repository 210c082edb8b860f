package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/app/services"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/session"
	"github.com/shashiranjanraj/partsdesk/pkg/testkit"
)

func newAuth(t *testing.T) (*services.AuthService, *session.Store, *testkit.FakeBackend) {
	t.Helper()
	backend := testkit.NewFakeBackend()
	t.Cleanup(backend.Close)
	backend.AddUser("jane@example.com", "secret123")

	store := session.NewStore(filepath.Join(t.TempDir(), "token"))
	return services.NewAuthService(rest.NewPublic(backend.URL()), store), store, backend
}

func TestLoginStoresToken(t *testing.T) {
	auth, store, _ := newAuth(t)

	err := auth.Login(context.Background(), models.Credentials{
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token, ok := store.Token(); !ok || token == "" {
		t.Error("expected a persisted token after login")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	auth, store, _ := newAuth(t)

	err := auth.Login(context.Background(), models.Credentials{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !rest.IsUnauthorized(err) {
		t.Errorf("expected 401, got %v", err)
	}
	if got := rest.ErrorMessage(err, "Login failed"); got != "Invalid credentials" {
		t.Errorf("expected backend message, got %q", got)
	}
	if store.IsAuthenticated() {
		t.Error("failed login must not touch the session")
	}
}

func TestLoginValidationBlocksRequest(t *testing.T) {
	auth, store, _ := newAuth(t)

	err := auth.Login(context.Background(), models.Credentials{Email: "not-an-email", Password: "123"})
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Fields["email"] == "" || verr.Fields["password"] == "" {
		t.Errorf("expected email and password errors, got %v", verr.Fields)
	}
	if store.IsAuthenticated() {
		t.Error("session must stay empty")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	auth, store, _ := newAuth(t)

	reg := models.Registration{
		Name:                 "New User",
		Email:                "new@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
	if err := auth.Register(context.Background(), reg); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// Registration never logs in; the explicit login does.
	if store.IsAuthenticated() {
		t.Error("register must not create a session")
	}

	err := auth.Login(context.Background(), models.Credentials{Email: reg.Email, Password: reg.Password})
	if err != nil {
		t.Fatalf("login after register failed: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _ := newAuth(t)

	reg := models.Registration{
		Name:                 "Jane",
		Email:                "jane@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
	err := auth.Register(context.Background(), reg)
	if err == nil {
		t.Fatal("expected duplicate-email failure")
	}
	if got := rest.ErrorMessage(err, "Registration failed"); got != "Email already registered" {
		t.Errorf("expected backend error field, got %q", got)
	}
}

func TestRegisterConfirmationMismatch(t *testing.T) {
	auth, _, _ := newAuth(t)

	err := auth.Register(context.Background(), models.Registration{
		Name:                 "Jane",
		Email:                "jane2@example.com",
		Password:             "secret123",
		PasswordConfirmation: "different",
	})
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Fields["password_confirmation"] == "" {
		t.Errorf("expected confirmation error, got %v", verr.Fields)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	auth, store, _ := newAuth(t)
	if err := auth.Login(context.Background(), models.Credentials{
		Email:    "jane@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	notified := 0
	defer store.Subscribe(func() { notified++ })()

	if err := auth.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("expected cleared session")
	}
	if notified != 1 {
		t.Errorf("expected exactly one auth-change notification, got %d", notified)
	}
}
