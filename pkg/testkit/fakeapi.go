// Package testkit provides test doubles for the parts backend.
//
// FakeBackend is an in-process HTTP server implementing the backend
// REST contract — /auth/login, /auth/register, /parts — with real HS256
// bearer tokens, so client code under test is exercised against the
// same status codes, bodies, and auth behavior the production backend
// produces.
//
//	backend := testkit.NewFakeBackend()
//	defer backend.Close()
//	backend.AddUser("jane@example.com", "secret123")
//	backend.Seed(models.Part{ID: 1, Name: "Brake Pad", ...})
//	api := rest.New(backend.URL(), store)
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/partsdesk/app/models"
)

// FakeBackend is a fake parts API. All state is in memory and guarded
// by a mutex so tests may hit it from parallel goroutines.
type FakeBackend struct {
	server *httptest.Server
	secret []byte

	mu     sync.Mutex
	users  map[string]string // email → password
	parts  []models.Part
	nextID int
}

// NewFakeBackend starts an empty fake backend on a random local port.
func NewFakeBackend() *FakeBackend {
	fb := &FakeBackend{
		secret: []byte("testkit-signing-secret"),
		users:  make(map[string]string),
		nextID: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", fb.handleLogin)
	mux.HandleFunc("POST /auth/register", fb.handleRegister)
	mux.HandleFunc("GET /parts", fb.handleList)
	mux.HandleFunc("GET /parts/{id}", fb.handleGet)
	mux.HandleFunc("POST /parts", fb.requireAuth(fb.handleCreate))
	mux.HandleFunc("PUT /parts/{id}", fb.requireAuth(fb.handleUpdate))
	mux.HandleFunc("DELETE /parts/{id}", fb.requireAuth(fb.handleDelete))

	fb.server = httptest.NewServer(mux)
	return fb
}

// URL returns the backend's base address.
func (fb *FakeBackend) URL() string { return fb.server.URL }

// Close shuts the server down.
func (fb *FakeBackend) Close() { fb.server.Close() }

// AddUser registers a login-capable account.
func (fb *FakeBackend) AddUser(email, password string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.users[email] = password
}

// Seed replaces the stored parts and advances the id sequence past the
// highest seeded id.
func (fb *FakeBackend) Seed(parts ...models.Part) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.parts = append([]models.Part(nil), parts...)
	fb.nextID = 1
	for _, p := range parts {
		if p.ID >= fb.nextID {
			fb.nextID = p.ID + 1
		}
	}
}

// Parts returns a snapshot of the stored collection.
func (fb *FakeBackend) Parts() []models.Part {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]models.Part(nil), fb.parts...)
}

// Token mints a valid bearer token for email, for tests that want to
// skip the login round trip.
func (fb *FakeBackend) Token(email string) string {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(fb.secret)
	if err != nil {
		panic(fmt.Sprintf("testkit: sign token: %v", err))
	}
	return signed
}

// ─── Handlers ────────────────────────────────────────────────────────────────

func (fb *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}

	fb.mu.Lock()
	password, ok := fb.users[creds.Email]
	fb.mu.Unlock()
	if !ok || password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": fb.Token(creds.Email)})
}

func (fb *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed request"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, exists := fb.users[reg.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
		return
	}
	fb.users[reg.Email] = reg.Password
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (fb *FakeBackend) handleList(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	parts := append([]models.Part(nil), fb.parts...)
	fb.mu.Unlock()
	if parts == nil {
		parts = []models.Part{}
	}
	writeJSON(w, http.StatusOK, parts)
}

func (fb *FakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, p := range fb.parts {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Part not found"})
}

func (fb *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	part := models.Part{
		ID:        fb.nextID,
		Name:      strings.TrimSpace(draft.Name),
		Brand:     strings.TrimSpace(draft.Brand),
		Price:     draft.Price,
		Stock:     draft.Stock,
		Category:  strings.TrimSpace(draft.Category),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	fb.nextID++
	fb.parts = append(fb.parts, part)
	writeJSON(w, http.StatusCreated, part)
}

func (fb *FakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, p := range fb.parts {
		if p.ID != id {
			continue
		}
		fb.parts[i] = models.Part{
			ID:        p.ID,
			Name:      strings.TrimSpace(draft.Name),
			Brand:     strings.TrimSpace(draft.Brand),
			Price:     draft.Price,
			Stock:     draft.Stock,
			Category:  strings.TrimSpace(draft.Category),
			CreatedAt: p.CreatedAt,
		}
		writeJSON(w, http.StatusOK, fb.parts[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Part not found"})
}

func (fb *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, p := range fb.parts {
		if p.ID == id {
			fb.parts = append(fb.parts[:i], fb.parts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Part not found"})
}

// requireAuth rejects requests without a valid bearer token, the way
// the production backend guards mutations.
func (fb *FakeBackend) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return fb.secret, nil
		})
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (models.PartDraft, bool) {
	var draft models.PartDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return draft, false
	}
	return draft, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
