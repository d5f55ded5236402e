package request

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Store is the remote persistence contract. Every call is a single
// request/response round trip; no operation retries internally.
type Store interface {
	List(ctx context.Context, q string) ([]ServiceRequest, error)
	Create(ctx context.Context, draft ServiceRequest) (ServiceRequest, error)
	Update(ctx context.Context, id string, draft ServiceRequest) (ServiceRequest, error)
	Delete(ctx context.Context, id string) error
}

// Notifier receives the outcome of each user-facing operation.
type Notifier interface {
	Good(msg string)
	Bad(msg string)
}

// Authorizer gates mutating operations on a signed-in session.
type Authorizer interface {
	Authenticated() bool
}

var (
	ErrBusy      = errors.New("operation already in flight")
	ErrSignedOut = errors.New("sign in required")
)

// Manager owns the authoritative record list and the single edit slot, and
// orchestrates validate -> persist -> reload for every mutation. All state is
// mutated only through its methods.
type Manager struct {
	log   *slog.Logger
	store Store
	toast Notifier
	auth  Authorizer

	mu           sync.Mutex
	list         []ServiceRequest
	draft        ServiceRequest
	editTargetID string
	searchTerm   string
	busy         bool
	reloadSeq    uint64
}

func NewManager(log *slog.Logger, store Store, toast Notifier, auth Authorizer) *Manager {
	return &Manager{
		log:   log,
		store: store,
		toast: toast,
		auth:  auth,
		draft: EmptyDraft(),
	}
}

// List returns a copy of the authoritative list as last returned by the store.
func (m *Manager) List() []ServiceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ServiceRequest, len(m.list))
	copy(out, m.list)
	return out
}

func (m *Manager) Draft() ServiceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft replaces the edit slot's field values. The edit target is not
// touched: callers mutate the draft freely before Submit.
func (m *Manager) SetDraft(d ServiceRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = d
}

func (m *Manager) EditTargetID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editTargetID
}

func (m *Manager) SearchTerm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchTerm
}

func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// SetSearchTerm updates the active search term and reloads the list. A reload
// issued while an earlier one is still pending supersedes it: each reload
// carries a sequence number and only the latest response is applied.
func (m *Manager) SetSearchTerm(ctx context.Context, term string) error {
	m.mu.Lock()
	m.searchTerm = term
	m.mu.Unlock()
	return m.reload(ctx)
}

// Refresh reloads the list for the current search term.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.reload(ctx)
}

func (m *Manager) reload(ctx context.Context) error {
	m.mu.Lock()
	m.reloadSeq++
	seq := m.reloadSeq
	term := m.searchTerm
	m.mu.Unlock()

	items, err := m.store.List(ctx, term)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.reloadSeq {
		m.log.Info("list_reload_stale", slog.Uint64("seq", seq), slog.Uint64("latest", m.reloadSeq))
		return nil
	}
	if err != nil {
		m.log.Error("list_reload_failed", slog.String("err", err.Error()))
		return err
	}
	m.list = items
	return nil
}

// BeginEdit copies the matching list entry into the edit slot. Unknown ids
// are a silent no-op.
func (m *Manager) BeginEdit(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.list {
		if it.ID == id {
			m.draft = it
			m.editTargetID = id
			return
		}
	}
	m.log.Info("edit_target_missing", slog.String("id", id))
}

// BeginCreate resets the edit slot to the empty template.
func (m *Manager) BeginCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = EmptyDraft()
	m.editTargetID = ""
}

// CancelEdit clears the edit slot without touching the store.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = EmptyDraft()
	m.editTargetID = ""
}

// Submit validates the draft and persists it: update when an edit target is
// set, create otherwise. On success the draft resets and the list is
// reloaded; on any failure the draft and edit target are left untouched so
// the caller can retry without re-entering data.
func (m *Manager) Submit(ctx context.Context) error {
	m.mu.Lock()
	draft := m.draft
	targetID := m.editTargetID
	m.mu.Unlock()

	if err := draft.Validate(); err != nil {
		m.toast.Bad(err.Error())
		return err
	}
	if m.auth != nil && !m.auth.Authenticated() {
		m.toast.Bad("Sign in required")
		return ErrSignedOut
	}

	if !m.claimBusy() {
		return ErrBusy
	}
	defer m.setBusy(false)

	var (
		saved ServiceRequest
		err   error
	)
	if targetID != "" {
		saved, err = m.store.Update(ctx, targetID, draft)
	} else {
		saved, err = m.store.Create(ctx, draft)
	}
	if err != nil {
		m.log.Error("save_failed", slog.String("id", targetID), slog.String("err", err.Error()))
		m.toast.Bad("Save failed")
		return err
	}

	m.mu.Lock()
	m.draft = EmptyDraft()
	m.editTargetID = ""
	m.mu.Unlock()

	if targetID != "" {
		m.log.Info("request_updated", slog.String("id", saved.ID))
		m.toast.Good("Updated")
	} else {
		m.log.Info("request_created", slog.String("id", saved.ID))
		m.toast.Good("Created")
	}

	return m.reload(ctx)
}

// Remove deletes a record and reloads the list. Confirmation is the caller's
// concern; the manager assumes it has already happened.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if m.auth != nil && !m.auth.Authenticated() {
		m.toast.Bad("Sign in required")
		return ErrSignedOut
	}

	if !m.claimBusy() {
		return ErrBusy
	}
	defer m.setBusy(false)

	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Error("delete_failed", slog.String("id", id), slog.String("err", err.Error()))
		m.toast.Bad("Delete failed")
		return err
	}

	m.log.Info("request_deleted", slog.String("id", id))
	m.toast.Good("Deleted")
	return m.reload(ctx)
}

func (m *Manager) claimBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return false
	}
	m.busy = true
	return true
}

func (m *Manager) setBusy(v bool) {
	m.mu.Lock()
	m.busy = v
	m.mu.Unlock()
}
