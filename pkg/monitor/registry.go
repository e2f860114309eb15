package monitor

import (
	"slices"
	"sync"
	"time"

	"liyu1981.xyz/insole-monitor-service/pkg/config"
)

// Registry hands out one Session per device, created on first use with the
// deployment thresholds.
type Registry struct {
	mu       sync.Mutex
	defaults config.Thresholds
	loc      *time.Location
	sessions map[string]*Session
}

func NewRegistry(defaults config.Thresholds, loc *time.Location) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	return &Registry{
		defaults: defaults,
		loc:      loc,
		sessions: map[string]*Session{},
	}
}

func (r *Registry) Get(deviceID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[deviceID]
	if !ok {
		s = NewSession(deviceID, r.defaults, r.loc)
		r.sessions[deviceID] = s
	}
	return s
}

// Lookup does not create a session.
func (r *Registry) Lookup(deviceID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[deviceID]
	return s, ok
}

func (r *Registry) Devices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) Defaults() config.Thresholds {
	return r.defaults
}

func (r *Registry) Location() *time.Location {
	return r.loc
}
