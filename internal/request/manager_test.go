package request_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/k1networth/civicdesk/internal/notify"
	"github.com/k1networth/civicdesk/internal/request"
)

type fakeStore struct {
	listFn   func(ctx context.Context, q string) ([]request.ServiceRequest, error)
	createFn func(ctx context.Context, d request.ServiceRequest) (request.ServiceRequest, error)
	updateFn func(ctx context.Context, id string, d request.ServiceRequest) (request.ServiceRequest, error)
	deleteFn func(ctx context.Context, id string) error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (s *fakeStore) List(ctx context.Context, q string) ([]request.ServiceRequest, error) {
	s.listCalls++
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, q)
}

func (s *fakeStore) Create(ctx context.Context, d request.ServiceRequest) (request.ServiceRequest, error) {
	s.createCalls++
	if s.createFn == nil {
		d.ID = "id-1"
		return d, nil
	}
	return s.createFn(ctx, d)
}

func (s *fakeStore) Update(ctx context.Context, id string, d request.ServiceRequest) (request.ServiceRequest, error) {
	s.updateCalls++
	if s.updateFn == nil {
		d.ID = id
		return d, nil
	}
	return s.updateFn(ctx, id, d)
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.deleteCalls++
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type fakeAuth struct{ signedIn bool }

func (a fakeAuth) Authenticated() bool { return a.signedIn }

func testLogger() *slog.Logger {
	h := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}

func newManager(store *fakeStore) (*request.Manager, *notify.Toaster) {
	// Long TTL so tests can read the toast before it expires.
	toast := notify.NewToaster(time.Minute)
	return request.NewManager(testLogger(), store, toast, nil), toast
}

func wantToast(t *testing.T, toast *notify.Toaster, kind notify.Kind, msg string) {
	t.Helper()
	cur, ok := toast.Current()
	if !ok {
		t.Fatalf("expected a toast %q, got none", msg)
	}
	if cur.Kind != kind || cur.Message != msg {
		t.Fatalf("expected %s toast %q, got %s %q", kind, msg, cur.Kind, cur.Message)
	}
}

func TestSubmitCreateSuccess(t *testing.T) {
	created := request.ServiceRequest{
		ID: "id-1", Name: "A Kumar", Email: "a@x.com", Phone: "9876543210",
		ServiceType: "Birth Certificate", Status: request.StatusPending,
	}
	store := &fakeStore{
		createFn: func(ctx context.Context, d request.ServiceRequest) (request.ServiceRequest, error) {
			if d.ID != "" {
				t.Fatalf("expected draft without id, got %q", d.ID)
			}
			return created, nil
		},
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			if q != "" {
				t.Fatalf("expected empty search term, got %q", q)
			}
			return []request.ServiceRequest{created}, nil
		},
	}
	m, toast := newManager(store)

	m.BeginCreate()
	d := m.Draft()
	d.Name = "A Kumar"
	d.Email = "a@x.com"
	d.Phone = "9876543210"
	d.ServiceType = "Birth Certificate"
	m.SetDraft(d)

	if err := m.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	wantToast(t, toast, notify.KindGood, "Created")

	if got := m.Draft(); got != request.EmptyDraft() {
		t.Fatalf("expected draft reset, got %+v", got)
	}
	if m.EditTargetID() != "" {
		t.Fatalf("expected edit target cleared")
	}
	if m.Busy() {
		t.Fatalf("expected busy cleared")
	}

	list := m.List()
	if len(list) != 1 || list[0].ID != "id-1" {
		t.Fatalf("expected reloaded list with the new record, got %+v", list)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected one reload, got %d", store.listCalls)
	}
}

func TestSubmitValidationFailureDoesNoIO(t *testing.T) {
	store := &fakeStore{}
	m, toast := newManager(store)

	m.SetDraft(request.ServiceRequest{Name: "", Email: "bad", ServiceType: ""})

	err := m.Submit(context.Background())
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var ve request.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	wantToast(t, toast, notify.KindBad, "Name is required")

	if store.createCalls+store.updateCalls+store.listCalls+store.deleteCalls != 0 {
		t.Fatalf("expected no store calls, got %+v", store)
	}
}

func TestSubmitUpdateUsesEditTarget(t *testing.T) {
	existing := request.ServiceRequest{
		ID: "id-7", Name: "B Singh", Email: "b@x.com",
		ServiceType: "Water Connection", Status: request.StatusPending,
	}
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			return []request.ServiceRequest{existing}, nil
		},
		updateFn: func(ctx context.Context, id string, d request.ServiceRequest) (request.ServiceRequest, error) {
			if id != "id-7" {
				t.Fatalf("expected update of id-7, got %q", id)
			}
			d.ID = id
			return d, nil
		},
	}
	m, toast := newManager(store)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	m.BeginEdit("id-7")
	if m.EditTargetID() != "id-7" {
		t.Fatalf("expected edit target id-7, got %q", m.EditTargetID())
	}

	d := m.Draft()
	if d.Name != "B Singh" {
		t.Fatalf("expected draft loaded from list, got %+v", d)
	}
	d.Status = request.StatusResolved
	m.SetDraft(d)

	if err := m.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	wantToast(t, toast, notify.KindGood, "Updated")
	if store.updateCalls != 1 || store.createCalls != 0 {
		t.Fatalf("expected one update and no create, got %+v", store)
	}
	if m.EditTargetID() != "" {
		t.Fatalf("expected edit target cleared after update")
	}
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	store := &fakeStore{
		createFn: func(ctx context.Context, d request.ServiceRequest) (request.ServiceRequest, error) {
			return request.ServiceRequest{}, errors.New("boom")
		},
	}
	m, toast := newManager(store)

	draft := validDraft()
	m.SetDraft(draft)

	if err := m.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit to fail")
	}

	wantToast(t, toast, notify.KindBad, "Save failed")

	if got := m.Draft(); got != draft {
		t.Fatalf("expected draft preserved for retry, got %+v", got)
	}
	if m.Busy() {
		t.Fatalf("expected busy cleared after failure")
	}
	if store.listCalls != 0 {
		t.Fatalf("expected no reload after failure, got %d", store.listCalls)
	}
}

func TestSubmitRequiresSignIn(t *testing.T) {
	store := &fakeStore{}
	toast := notify.NewToaster(time.Minute)
	m := request.NewManager(testLogger(), store, toast, fakeAuth{signedIn: false})

	m.SetDraft(validDraft())

	if err := m.Submit(context.Background()); !errors.Is(err, request.ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}

	wantToast(t, toast, notify.KindBad, "Sign in required")
	if store.createCalls != 0 {
		t.Fatalf("expected no create call, got %d", store.createCalls)
	}
}

func TestBeginEditUnknownIDIsNoOp(t *testing.T) {
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			return []request.ServiceRequest{{ID: "id-1", Name: "X"}}, nil
		},
	}
	m, _ := newManager(store)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	m.SetDraft(validDraft())
	before := m.Draft()

	m.BeginEdit("missing")

	if m.EditTargetID() != "" {
		t.Fatalf("expected no edit target, got %q", m.EditTargetID())
	}
	if got := m.Draft(); got != before {
		t.Fatalf("expected draft untouched, got %+v", got)
	}
}

func TestCancelEditClearsSlot(t *testing.T) {
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			return []request.ServiceRequest{{ID: "id-1", Name: "X", Email: "x@y.z", ServiceType: "S", Status: request.StatusPending}}, nil
		},
	}
	m, _ := newManager(store)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	m.BeginEdit("id-1")

	m.CancelEdit()

	if m.EditTargetID() != "" {
		t.Fatalf("expected edit target cleared")
	}
	if got := m.Draft(); got != request.EmptyDraft() {
		t.Fatalf("expected empty draft, got %+v", got)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected cancel to do no I/O, got %d list calls", store.listCalls)
	}
}

func TestRemoveSuccessReloads(t *testing.T) {
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			return nil, nil
		},
	}
	m, toast := newManager(store)

	if err := m.Remove(context.Background(), "id-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	wantToast(t, toast, notify.KindGood, "Deleted")
	if store.deleteCalls != 1 || store.listCalls != 1 {
		t.Fatalf("expected delete then reload, got %+v", store)
	}
}

func TestRemoveFailureLeavesListUntouched(t *testing.T) {
	existing := []request.ServiceRequest{{ID: "id-1", Name: "X"}}
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			return existing, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			return errors.New("boom")
		},
	}
	m, toast := newManager(store)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := m.Remove(context.Background(), "id-1"); err == nil {
		t.Fatalf("expected remove to fail")
	}

	wantToast(t, toast, notify.KindBad, "Delete failed")

	list := m.List()
	if len(list) != 1 || list[0].ID != "id-1" {
		t.Fatalf("expected stale entry to remain, got %+v", list)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected no reload after failed delete, got %d", store.listCalls)
	}
}

func TestSearchListMatchesServerOrder(t *testing.T) {
	served := []request.ServiceRequest{
		{ID: "b", Name: "Second"},
		{ID: "a", Name: "First"},
		{ID: "c", Name: "Third"},
	}
	store := &fakeStore{
		listFn: func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
			if q != "resolved" {
				t.Fatalf("expected search term forwarded, got %q", q)
			}
			return served, nil
		},
	}
	m, _ := newManager(store)

	if err := m.SetSearchTerm(context.Background(), "resolved"); err != nil {
		t.Fatalf("set search term: %v", err)
	}
	if m.SearchTerm() != "resolved" {
		t.Fatalf("expected search term stored, got %q", m.SearchTerm())
	}

	list := m.List()
	if len(list) != len(served) {
		t.Fatalf("expected %d records, got %d", len(served), len(list))
	}
	for i := range served {
		if list[i].ID != served[i].ID {
			t.Fatalf("expected server order preserved at %d: %q != %q", i, list[i].ID, served[i].ID)
		}
	}
}

func TestStaleReloadIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	store := &fakeStore{}
	store.listFn = func(ctx context.Context, q string) ([]request.ServiceRequest, error) {
		if q == "old" {
			close(firstStarted)
			<-releaseFirst
			return []request.ServiceRequest{{ID: "stale"}}, nil
		}
		return []request.ServiceRequest{{ID: "fresh"}}, nil
	}
	m, _ := newManager(store)

	done := make(chan error, 1)
	go func() { done <- m.SetSearchTerm(context.Background(), "old") }()
	<-firstStarted

	if err := m.SetSearchTerm(context.Background(), "new"); err != nil {
		t.Fatalf("second search: %v", err)
	}

	close(releaseFirst)
	if err := <-done; err != nil {
		t.Fatalf("first search: %v", err)
	}

	list := m.List()
	if len(list) != 1 || list[0].ID != "fresh" {
		t.Fatalf("expected the superseded response to be discarded, got %+v", list)
	}
}
