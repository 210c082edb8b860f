package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/pkg/collection"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/validate"
)

// PartsService owns one view's collection of parts and keeps it
// consistent across create/update/delete without re-fetching: every
// mutation folds the server's response — never the local draft — into
// the collection, so server-side normalization is reflected for free.
//
// Load failures are absorbed into LastError for display; mutation
// failures propagate to the caller and leave the collection untouched.
// Mutations are expected to be issued sequentially by the caller; when
// overlapping calls race, the last response to land wins.
type PartsService struct {
	api *rest.Client

	mu        sync.Mutex
	parts     []models.Part
	loading   bool
	lastError string
}

// NewPartsService builds a controller around api. Use an authenticated
// client for the dashboard and a public one for the public catalog.
func NewPartsService(api *rest.Client) *PartsService {
	return &PartsService{api: api}
}

// Load fetches the full collection and replaces the local one. On
// failure the previous collection is kept, the message is retained for
// display, and the error is returned.
func (s *PartsService) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Get("/parts").WithContext(ctx).Send()
	if err == nil {
		err = resp.Err("Failed to load parts")
	}
	if err != nil {
		s.recordError(err)
		return err
	}

	var parts []models.Part
	if err := resp.JSON(&parts); err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.parts = parts
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// Create validates and submits a new part. On success the
// server-returned Part (with its assigned id) is prepended.
func (s *PartsService) Create(ctx context.Context, draft models.PartDraft) (models.Part, error) {
	if errs := validate.Struct(draft); validate.HasErrors(errs) {
		return models.Part{}, &ValidationError{Fields: errs}
	}

	resp, err := s.api.Post("/parts").Body(draft).WithContext(ctx).Send()
	if err != nil {
		return models.Part{}, err
	}
	if err := resp.Err("Failed to create part"); err != nil {
		return models.Part{}, err
	}

	var created models.Part
	if err := resp.JSON(&created); err != nil {
		return models.Part{}, err
	}

	s.mu.Lock()
	s.parts = append([]models.Part{created}, s.parts...)
	s.mu.Unlock()
	return created, nil
}

// Update validates and submits an edit for id. On success the matching
// entry is replaced in place, preserving its position; entries the
// collection does not hold are left alone.
func (s *PartsService) Update(ctx context.Context, id int, draft models.PartDraft) (models.Part, error) {
	if errs := validate.Struct(draft); validate.HasErrors(errs) {
		return models.Part{}, &ValidationError{Fields: errs}
	}

	resp, err := s.api.Put(fmt.Sprintf("/parts/%d", id)).Body(draft).WithContext(ctx).Send()
	if err != nil {
		return models.Part{}, err
	}
	if err := resp.Err("Failed to update part"); err != nil {
		return models.Part{}, err
	}

	var updated models.Part
	if err := resp.JSON(&updated); err != nil {
		return models.Part{}, err
	}

	s.mu.Lock()
	if idx := collection.IndexOf(s.parts, func(p models.Part) bool { return p.ID == id }); idx >= 0 {
		s.parts[idx] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete requests deletion of id and removes the matching entry on
// success. Deletion has no undo: callers must obtain explicit user
// confirmation before invoking this.
func (s *PartsService) Delete(ctx context.Context, id int) error {
	resp, err := s.api.Delete(fmt.Sprintf("/parts/%d", id)).WithContext(ctx).Send()
	if err != nil {
		return err
	}
	if err := resp.Err("Failed to delete part"); err != nil {
		return err
	}

	s.mu.Lock()
	s.parts = collection.Filter(s.parts, func(p models.Part) bool { return p.ID != id })
	s.mu.Unlock()
	return nil
}

// Get fetches a single part by id. It does not touch the collection;
// a missing id surfaces as an error satisfying rest.IsNotFound.
func (s *PartsService) Get(ctx context.Context, id int) (models.Part, error) {
	resp, err := s.api.Get(fmt.Sprintf("/parts/%d", id)).WithContext(ctx).Send()
	if err != nil {
		return models.Part{}, err
	}
	if err := resp.Err("Part not found"); err != nil {
		return models.Part{}, err
	}

	var part models.Part
	if err := resp.JSON(&part); err != nil {
		return models.Part{}, err
	}
	return part, nil
}

// Parts returns a snapshot copy of the collection in display order.
func (s *PartsService) Parts() []models.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// LastError returns the retained load-failure message, empty after a
// successful load.
func (s *PartsService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Loading reports whether a Load is in flight.
func (s *PartsService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *PartsService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *PartsService) recordError(err error) {
	msg := rest.ErrorMessage(err, "Failed to load parts")
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}
