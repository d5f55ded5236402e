package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"github.com/k1networth/civicdesk/internal/request"
)

var ErrNotFound = errors.New("request not found")

type Store interface {
	List(ctx context.Context, q string) ([]request.ServiceRequest, error)
	Create(ctx context.Context, r request.ServiceRequest) (request.ServiceRequest, error)
	Update(ctx context.Context, id string, r request.ServiceRequest) (request.ServiceRequest, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryStore keeps records in insertion order, which is also the order
// List returns them in.
type InMemoryStore struct {
	mu    sync.RWMutex
	items []request.ServiceRequest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) List(ctx context.Context, q string) ([]request.ServiceRequest, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]request.ServiceRequest, 0, len(s.items))
	for _, it := range s.items {
		if matches(it, q) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Create(ctx context.Context, r request.ServiceRequest) (request.ServiceRequest, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = newID()
	}
	s.items = append(s.items, r)
	return r, nil
}

func (s *InMemoryStore) Update(ctx context.Context, id string, r request.ServiceRequest) (request.ServiceRequest, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			r.ID = id
			s.items[i] = r
			return r, nil
		}
	}
	return request.ServiceRequest{}, ErrNotFound
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// matches implements the server-side search: case-insensitive substring match
// over name, email, service type and status.
func matches(r request.ServiceRequest, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range []string{r.Name, r.Email, r.ServiceType, string(r.Status)} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func newID() string {
	var b [16]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
