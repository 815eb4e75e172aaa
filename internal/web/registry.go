package web

import (
	"errors"
	"sync"
	"time"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
)

var (
	// errSessionNotFound is returned for unknown or evicted session IDs.
	errSessionNotFound = errors.New("session not found")

	errAnswerNotFound = errors.New("answer not found")
)

type entry struct {
	engine   *session.Session
	lastSeen time.Time
}

// Registry holds the server-side sessions of the browser shell. A session
// engine is single-threaded, so every access goes through the registry lock.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idle     time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry that evicts sessions untouched for idle.
// Zero disables eviction.
func NewRegistry(idle time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*entry),
		idle:     idle,
		now:      now,
	}
}

// Add stores s under its ID and evicts idle sessions.
func (r *Registry) Add(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)
	r.sessions[s.ID()] = &entry{engine: s, lastSeen: now}
}

// With runs fn on the session with the given ID while holding the lock.
func (r *Registry) With(id string, fn func(*session.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return errSessionNotFound
	}
	e.lastSeen = r.now()
	return fn(e.engine)
}

// Remove discards a session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) evictLocked(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.sessions, id)
		}
	}
}
