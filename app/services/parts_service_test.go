package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/app/services"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/testkit"
)

type bearer string

func (b bearer) Token() (string, bool) { return string(b), b != "" }

func newBackend(t *testing.T, parts ...models.Part) *testkit.FakeBackend {
	t.Helper()
	backend := testkit.NewFakeBackend()
	t.Cleanup(backend.Close)
	backend.AddUser("jane@example.com", "secret123")
	backend.Seed(parts...)
	return backend
}

func authedService(backend *testkit.FakeBackend) *services.PartsService {
	api := rest.New(backend.URL(), bearer(backend.Token("jane@example.com")))
	return services.NewPartsService(api)
}

func draft(name string) models.PartDraft {
	return models.PartDraft{Name: name, Brand: "Bosch", Price: 19.5, Stock: 4, Category: "Brakes"}
}

func TestLoadReplacesCollection(t *testing.T) {
	backend := newBackend(t,
		models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"},
		models.Part{ID: 2, Name: "Oil Filter", Brand: "Mann", Category: "Filters"},
	)
	svc := authedService(backend)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := ids(svc.Parts()); !equalInts(got, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}
	if svc.LastError() != "" {
		t.Errorf("expected no error after load, got %q", svc.LastError())
	}
}

func TestLoadFailureKeepsCollection(t *testing.T) {
	backend := newBackend(t, models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"})
	svc := authedService(backend)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("seed load failed: %v", err)
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Backend down"}`, http.StatusInternalServerError)
	}))
	defer broken.Close()
	svc2 := services.NewPartsService(rest.NewPublic(broken.URL))
	if err := svc2.Load(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}
	if svc2.LastError() != "Backend down" {
		t.Errorf("expected retained message, got %q", svc2.LastError())
	}

	// Original service keeps its data and clears the message on the next
	// successful load.
	if got := ids(svc.Parts()); !equalInts(got, []int{1}) {
		t.Errorf("collection changed: %v", got)
	}
}

func TestCreatePrepends(t *testing.T) {
	backend := newBackend(t, models.Part{ID: 1, Name: "Oil Filter", Brand: "Mann", Category: "Filters"})
	svc := authedService(backend)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	created, err := svc.Create(context.Background(), draft("  Brake Pad  "))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 2 {
		t.Errorf("expected server-assigned id 2, got %d", created.ID)
	}
	// The server's normalized copy lands in the collection, not the draft.
	if created.Name != "Brake Pad" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}

	got := svc.Parts()
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("expected new part first, got %v", ids(got))
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	backend := newBackend(t,
		models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"},
		models.Part{ID: 2, Name: "Oil Filter", Brand: "Mann", Category: "Filters"},
		models.Part{ID: 3, Name: "Air Filter", Brand: "Bosch", Category: "Filters"},
	)
	svc := authedService(backend)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), 2, draft("Oil Filter Pro"))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != 2 || updated.Name != "Oil Filter Pro" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	got := svc.Parts()
	if !equalInts(ids(got), []int{1, 2, 3}) {
		t.Errorf("order changed: %v", ids(got))
	}
	if got[1].Name != "Oil Filter Pro" {
		t.Errorf("entry not replaced, got %q", got[1].Name)
	}
}

func TestDeleteRemovesOnlyMatch(t *testing.T) {
	backend := newBackend(t,
		models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"},
		models.Part{ID: 2, Name: "Oil Filter", Brand: "Mann", Category: "Filters"},
	)
	svc := authedService(backend)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := ids(svc.Parts()); !equalInts(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}
	if got := ids(backend.Parts()); !equalInts(got, []int{2}) {
		t.Errorf("backend still holds %v", got)
	}
}

func TestMutationFailureLeavesCollection(t *testing.T) {
	backend := newBackend(t, models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"})
	// Load is public, mutations need a token this client does not have.
	svc := services.NewPartsService(rest.NewPublic(backend.URL()))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err := svc.Create(context.Background(), draft("Brake Disc"))
	if !rest.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if err := svc.Delete(context.Background(), 1); !rest.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if got := ids(svc.Parts()); !equalInts(got, []int{1}) {
		t.Errorf("collection changed after failed mutations: %v", got)
	}
}

func TestValidationBlocksRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()
	svc := services.NewPartsService(rest.NewPublic(srv.URL))

	bad := models.PartDraft{Name: "x"} // too short, everything else missing
	if _, err := svc.Create(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	} else {
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if len(verr.Fields) == 0 {
			t.Error("expected field errors")
		}
	}
	if _, err := svc.Update(context.Background(), 1, bad); err == nil {
		t.Fatal("expected validation error")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("invalid drafts reached the network %d times", n)
	}
}

func TestGetDoesNotTouchCollection(t *testing.T) {
	backend := newBackend(t, models.Part{ID: 1, Name: "Brake Pad", Brand: "Bosch", Category: "Brakes"})
	svc := authedService(backend)

	part, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if part.ID != 1 {
		t.Errorf("expected part 1, got %+v", part)
	}
	if len(svc.Parts()) != 0 {
		t.Error("Get must not populate the collection")
	}

	if _, err := svc.Get(context.Background(), 99); !rest.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
