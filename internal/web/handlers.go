package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/app/services"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
)

type pageData struct {
	Title  string
	Authed bool
}

type catalogData struct {
	pageData
	Parts      []models.Part
	Categories []string
	Filter     services.Filter
	Error      string
}

type detailData struct {
	pageData
	Part  models.Part
	Error string
}

type authFormData struct {
	pageData
	Values         map[string]string
	Errors         map[string]string
	ServerError    string
	JustRegistered bool
}

type partFormData struct {
	Editing     bool
	ID          int
	Values      models.PartDraft
	Errors      map[string]string
	ServerError string
}

type dashboardData struct {
	pageData
	Parts           []models.Part
	Categories      []string
	Filter          services.Filter
	TotalParts      int
	CategoriesCount int
	Error           string
	Form            *partFormData
}

func (s *Server) page(title string) pageData {
	return pageData{Title: title, Authed: s.authed.Load()}
}

// ─── Public catalog ──────────────────────────────────────────────────────────

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	svc := services.NewPartsService(s.public)
	_ = svc.Load(r.Context()) // failure is carried in LastError

	filter := filterFromQuery(r)
	parts := svc.Parts()

	s.render(w, http.StatusOK, "home.html", catalogData{
		pageData:   s.page("Auto Parts Catalog"),
		Parts:      filter.Apply(parts),
		Categories: services.Categories(parts),
		Filter:     filter,
		Error:      svc.LastError(),
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.render(w, http.StatusNotFound, "notfound.html", s.page("Part not found"))
		return
	}

	svc := services.NewPartsService(s.public)
	part, err := svc.Get(r.Context(), id)
	if rest.IsNotFound(err) {
		s.render(w, http.StatusNotFound, "notfound.html", s.page("Part not found"))
		return
	}
	data := detailData{pageData: s.page("Part details"), Part: part}
	if err != nil {
		data.Error = rest.ErrorMessage(err, "Failed to load part")
		s.render(w, http.StatusBadGateway, "detail.html", data)
		return
	}
	data.Title = part.Name
	s.render(w, http.StatusOK, "detail.html", data)
}

// ─── Auth ────────────────────────────────────────────────────────────────────

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if s.store.IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "login.html", authFormData{
		pageData:       s.page("Login"),
		Values:         map[string]string{},
		JustRegistered: r.URL.Query().Get("registered") == "1",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	auth := services.NewAuthService(s.public, s.store)
	err := auth.Login(r.Context(), creds)
	if err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := authFormData{
		pageData: s.page("Login"),
		Values:   map[string]string{"email": creds.Email},
		Errors:   map[string]string{},
	}
	if verr, ok := asValidationError(err); ok {
		data.Errors = verr.Fields
	} else {
		data.ServerError = rest.ErrorMessage(err, "Login failed")
	}
	s.render(w, http.StatusUnprocessableEntity, "login.html", data)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", authFormData{
		pageData: s.page("Register"),
		Values:   map[string]string{},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	reg := models.Registration{
		Name:                 strings.TrimSpace(r.FormValue("name")),
		Email:                strings.TrimSpace(r.FormValue("email")),
		Password:             r.FormValue("password"),
		PasswordConfirmation: r.FormValue("password_confirmation"),
	}

	auth := services.NewAuthService(s.public, s.store)
	err := auth.Register(r.Context(), reg)
	if err == nil {
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	data := authFormData{
		pageData: s.page("Register"),
		Values:   map[string]string{"name": reg.Name, "email": reg.Email},
		Errors:   map[string]string{},
	}
	if verr, ok := asValidationError(err); ok {
		data.Errors = verr.Fields
	} else {
		data.ServerError = rest.ErrorMessage(err, "Registration failed")
	}
	s.render(w, http.StatusUnprocessableEntity, "register.html", data)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth := services.NewAuthService(s.public, s.store)
	_ = auth.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.store.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	svc := services.NewPartsService(s.api)
	_ = svc.Load(r.Context())

	var form *partFormData
	if r.URL.Query().Get("new") == "1" {
		form = &partFormData{}
	} else if rawID := r.URL.Query().Get("edit"); rawID != "" {
		if id, err := strconv.Atoi(rawID); err == nil {
			for _, p := range svc.Parts() {
				if p.ID == id {
					form = &partFormData{
						Editing: true,
						ID:      id,
						Values: models.PartDraft{
							Name: p.Name, Brand: p.Brand, Price: p.Price,
							Stock: p.Stock, Category: p.Category,
						},
					}
					break
				}
			}
		}
	}

	s.renderDashboard(w, http.StatusOK, svc, filterFromQuery(r), svc.LastError(), form)
}

func (s *Server) handleCreatePart(w http.ResponseWriter, r *http.Request) {
	if !s.store.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	draft, fieldErrs := parseDraftForm(r)
	svc := services.NewPartsService(s.api)

	if len(fieldErrs) == 0 {
		_, err := svc.Create(r.Context(), draft)
		if err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		fieldErrs = formErrors(err)
		if len(fieldErrs) == 0 {
			s.renderPartFormFailure(w, r, svc, &partFormData{
				Values: draft, ServerError: rest.ErrorMessage(err, "Failed to create part"),
			})
			return
		}
	}
	s.renderPartFormFailure(w, r, svc, &partFormData{Values: draft, Errors: fieldErrs})
}

func (s *Server) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	if !s.store.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	draft, fieldErrs := parseDraftForm(r)
	svc := services.NewPartsService(s.api)

	if len(fieldErrs) == 0 {
		_, err := svc.Update(r.Context(), id, draft)
		if err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		fieldErrs = formErrors(err)
		if len(fieldErrs) == 0 {
			s.renderPartFormFailure(w, r, svc, &partFormData{
				Editing: true, ID: id, Values: draft,
				ServerError: rest.ErrorMessage(err, "Failed to update part"),
			})
			return
		}
	}
	s.renderPartFormFailure(w, r, svc, &partFormData{
		Editing: true, ID: id, Values: draft, Errors: fieldErrs,
	})
}

func (s *Server) handleDeletePart(w http.ResponseWriter, r *http.Request) {
	if !s.store.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	svc := services.NewPartsService(s.api)
	if err := svc.Delete(r.Context(), id); err != nil {
		_ = svc.Load(r.Context())
		s.renderDashboard(w, http.StatusBadGateway, svc, services.Filter{},
			rest.ErrorMessage(err, "Failed to delete part"), nil)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Server) renderDashboard(w http.ResponseWriter, status int, svc *services.PartsService, filter services.Filter, errMsg string, form *partFormData) {
	parts := svc.Parts()
	s.render(w, status, "dashboard.html", dashboardData{
		pageData:        s.page("Dashboard"),
		Parts:           filter.Apply(parts),
		Categories:      services.Categories(parts),
		Filter:          filter,
		TotalParts:      len(parts),
		CategoriesCount: len(services.Categories(parts)),
		Error:           errMsg,
		Form:            form,
	})
}

// renderPartFormFailure re-renders the dashboard with the part form
// still open so the user can correct input and retry.
func (s *Server) renderPartFormFailure(w http.ResponseWriter, r *http.Request, svc *services.PartsService, form *partFormData) {
	_ = svc.Load(r.Context())
	s.renderDashboard(w, http.StatusUnprocessableEntity, svc, services.Filter{}, "", form)
}

func filterFromQuery(r *http.Request) services.Filter {
	return services.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
}

// parseDraftForm maps form fields to a draft. Unparseable numbers are
// reported in the same field-error shape validation uses.
func parseDraftForm(r *http.Request) (models.PartDraft, map[string]string) {
	errs := map[string]string{}
	draft := models.PartDraft{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Brand:    strings.TrimSpace(r.FormValue("brand")),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		errs["price"] = "The price field must be a number."
	}
	draft.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(r.FormValue("stock")))
	if err != nil {
		errs["stock"] = "The stock field must be an integer."
	}
	draft.Stock = stock

	return draft, errs
}

func asValidationError(err error) (*services.ValidationError, bool) {
	var verr *services.ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

func formErrors(err error) map[string]string {
	if verr, ok := asValidationError(err); ok {
		return verr.Fields
	}
	return nil
}
