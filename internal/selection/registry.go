package selection

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	state   State
	touched time.Time
}

// Registry keeps one State per shopper session in memory. Sessions idle longer
// than ttl are evicted, either lazily on access or by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry builds an empty registry. A non-positive ttl disables eviction.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: map[string]*entry{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// State returns the current state of sessionID.
func (r *Registry) State(sessionID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.live(sessionID); e != nil {
		e.touched = r.now()
		return e.state
	}
	return State{}
}

// Find returns the selection of productID in sessionID.
func (r *Registry) Find(sessionID, productID string) (Record, bool) {
	return r.State(sessionID).Find(productID)
}

// Dispatch reduces the session state with a and stores the result.
func (r *Registry) Dispatch(sessionID string, a Action) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current State
	if e := r.live(sessionID); e != nil {
		current = e.state
	}
	next := Reduce(current, a)
	if next.Len() == 0 {
		delete(r.sessions, sessionID)
		return next
	}
	r.sessions[sessionID] = &entry{state: next, touched: r.now()}
	return next
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len reports the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// live must be called with mu held.
func (r *Registry) live(sessionID string) *entry {
	e, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	if r.ttl > 0 && r.now().Sub(e.touched) > r.ttl {
		delete(r.sessions, sessionID)
		return nil
	}
	return e
}
