// Package web serves the HTML frontend: the public catalog, part detail
// pages, login/register, and the authenticated dashboard. It holds no
// data of its own — every page is rendered from the parts backend via
// the shared session store and REST clients.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/partsdesk/config"
	"github.com/shashiranjanraj/partsdesk/pkg/logger"
	"github.com/shashiranjanraj/partsdesk/pkg/metrics"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home.html", "detail.html", "notfound.html",
	"login.html", "register.html", "dashboard.html",
}

// Server wires the session store and REST clients into HTTP handlers.
type Server struct {
	store  *session.Store
	api    *rest.Client // bearer-authenticated
	public *rest.Client // login/register only

	// authed caches the store's state so the navigation bar does not
	// hit the filesystem per render; refreshed via store.Subscribe.
	authed      atomic.Bool
	unsubscribe func()

	templates map[string]*template.Template
}

// New builds a Server against base using store for credentials.
func New(store *session.Store, base string) *Server {
	s := &Server{
		store:     store,
		api:       rest.New(base, store),
		public:    rest.NewPublic(base),
		templates: make(map[string]*template.Template),
	}
	s.api.Observe = metrics.ObserveUpstream
	s.public.Observe = metrics.ObserveUpstream

	s.authed.Store(store.IsAuthenticated())
	s.unsubscribe = store.Subscribe(func() {
		s.authed.Store(store.IsAuthenticated())
	})

	for _, page := range pages {
		s.templates[page] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+page))
	}
	return s
}

// Close releases the auth-change subscription.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Routes returns the frontend handler with the full middleware chain.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(RequestID)
	r.Use(Recovery)
	r.Use(RequestLogger)

	r.Get("/", s.handleHome)
	r.Get("/parts/{id}", s.handleDetail)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)
	r.Get("/dashboard", s.handleDashboard)
	r.Post("/dashboard/parts", s.handleCreatePart)
	r.Post("/dashboard/parts/{id}", s.handleUpdatePart)
	r.Post("/dashboard/parts/{id}/delete", s.handleDeletePart)

	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
	return r
}

// Start runs the frontend on the configured port. Blocks until the
// listener fails.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	store := session.NewStore(config.TokenPath())
	s := New(store, config.APIBaseURL())
	defer s.Close()

	addr := ":" + config.AppPort()
	logger.Info("partsdesk frontend running", "addr", addr, "api", config.APIBaseURL())
	return http.ListenAndServe(addr, s.Routes())
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data interface{}) {
	tmpl, ok := s.templates[page]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("render failed", "page", page, "error", err)
	}
}
