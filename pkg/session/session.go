// Package session owns the persisted bearer token.
//
// The Store is a durable single-value cell plus a change-notification
// side channel: every SetToken/Clear is broadcast synchronously to all
// subscribers so auth-dependent surfaces can re-render immediately.
//
// Usage:
//
//	store := session.NewStore(config.TokenPath())
//	cancel := store.Subscribe(func() { nav.Refresh() })
//	defer cancel()
//	store.SetToken(resp.Token)
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoStorage is returned by SetToken/Clear when the store was built
// without a usable storage path (e.g. no user config directory).
var ErrNoStorage = errors.New("session: no persistent storage available")

// Store persists the bearer token at a fixed file path and notifies
// subscribers on every change. The token is treated as opaque: nothing
// here inspects or validates its contents.
type Store struct {
	path string

	mu     sync.RWMutex
	subs   map[int]func()
	nextID int
}

// NewStore creates a Store persisting at path. An empty path means the
// current environment has no persistent storage; Token reports absent
// and mutations fail with ErrNoStorage.
func NewStore(path string) *Store {
	return &Store{path: path, subs: make(map[int]func())}
}

// Token returns the stored token, or ("", false) when none is stored or
// storage is unavailable.
func (s *Store) Token() (string, bool) {
	if s.path == "" {
		return "", false
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false
	}
	return token, true
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken persists value as the current token, overwriting any prior
// one, then notifies subscribers exactly once.
func (s *Store) SetToken(value string) error {
	if s.path == "" {
		return ErrNoStorage
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(value), 0o600); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear removes the persisted token, then notifies subscribers exactly
// once. Clearing an already-empty store is not an error.
func (s *Store) Clear() error {
	if s.path == "" {
		return ErrNoStorage
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.notify()
	return nil
}

// Subscribe registers fn to be called synchronously after every token
// change. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify calls every subscriber. The list is copied first so a
// subscriber may unsubscribe from within its own callback.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
