// Package notify is the single-slot notification channel: one toast visible
// at a time, auto-dismissed after a fixed interval. No history is kept.
package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	KindGood Kind = "good"
	KindBad  Kind = "bad"
)

const DefaultTTL = 1800 * time.Millisecond

type Toast struct {
	Kind    Kind
	Message string
}

type Toaster struct {
	ttl time.Duration

	mu    sync.Mutex
	cur   *Toast
	timer *time.Timer
	gen   uint64
}

func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Toaster{ttl: ttl}
}

func (t *Toaster) Good(msg string) { t.Publish(KindGood, msg) }
func (t *Toaster) Bad(msg string)  { t.Publish(KindBad, msg) }

// Publish replaces the current toast and restarts the dismiss timer. The
// previous timer is stopped first so it can never clear the newer message.
func (t *Toaster) Publish(kind Kind, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}

	t.gen++
	gen := t.gen
	t.cur = &Toast{Kind: kind, Message: msg}
	t.timer = time.AfterFunc(t.ttl, func() { t.expire(gen) })
}

func (t *Toaster) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// A timer that lost the Stop race clears nothing.
	if gen != t.gen {
		return
	}
	t.cur = nil
	t.timer = nil
}

// Current returns the visible toast, if any.
func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		return Toast{}, false
	}
	return *t.cur, true
}
