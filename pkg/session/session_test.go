package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/partsdesk/pkg/session"
)

func tempStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "partsdesk", "token"))
}

func TestSetThenGet(t *testing.T) {
	store := tempStore(t)

	if err := store.SetToken("abc123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, ok := store.Token()
	if !ok || token != "abc123" {
		t.Errorf("expected (abc123, true), got (%q, %v)", token, ok)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated after set")
	}
}

func TestSetOverwrites(t *testing.T) {
	store := tempStore(t)

	store.SetToken("first")  //nolint:errcheck
	store.SetToken("second") //nolint:errcheck

	if token, _ := store.Token(); token != "second" {
		t.Errorf("expected second, got %q", token)
	}
}

func TestClear(t *testing.T) {
	store := tempStore(t)
	store.SetToken("abc123") //nolint:errcheck

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := store.Token(); ok {
		t.Error("expected token absent after clear")
	}
	if store.IsAuthenticated() {
		t.Error("expected unauthenticated after clear")
	}

	// Clearing an already-empty store is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestTokenSurvivesNewStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	if err := session.NewStore(path).SetToken("persisted"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh store over the same path sees the token, like a page reload.
	token, ok := session.NewStore(path).Token()
	if !ok || token != "persisted" {
		t.Errorf("expected (persisted, true), got (%q, %v)", token, ok)
	}
}

func TestNotifyExactlyOncePerChange(t *testing.T) {
	store := tempStore(t)

	var calls int
	cancel := store.Subscribe(func() { calls++ })
	defer cancel()

	store.SetToken("abc") //nolint:errcheck
	if calls != 1 {
		t.Errorf("expected 1 notification after set, got %d", calls)
	}
	store.Clear() //nolint:errcheck
	if calls != 2 {
		t.Errorf("expected 2 notifications after clear, got %d", calls)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	store := tempStore(t)

	var calls int
	cancel := store.Subscribe(func() { calls++ })
	cancel()

	store.SetToken("abc") //nolint:errcheck
	if calls != 0 {
		t.Errorf("expected no notifications after cancel, got %d", calls)
	}
}

func TestNoStorage(t *testing.T) {
	store := session.NewStore("")

	if _, ok := store.Token(); ok {
		t.Error("expected token absent without storage")
	}
	if err := store.SetToken("abc"); err != session.ErrNoStorage {
		t.Errorf("expected ErrNoStorage, got %v", err)
	}
	if err := store.Clear(); err != session.ErrNoStorage {
		t.Errorf("expected ErrNoStorage, got %v", err)
	}
}

func TestTokenFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := session.NewStore(path)
	store.SetToken("abc") //nolint:errcheck

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 token file, got %o", perm)
	}
}
