package listdetail

import (
	"context"
	"sync"
	"time"
)

// Closer is implemented by state that holds in-flight work to cancel when
// its session goes away.
type Closer interface {
	Close()
}

type entry[S any] struct {
	state    S
	lastSeen time.Time
}

// Registry keeps one S per session id and forgets it after an idle period.
type Registry[S any] struct {
	mu       sync.Mutex
	entries  map[string]*entry[S]
	newState func() S
	now      func() time.Time
}

func NewRegistry[S any](newState func() S) *Registry[S] {
	return &Registry[S]{
		entries:  make(map[string]*entry[S]),
		newState: newState,
		now:      time.Now,
	}
}

// Get returns the state for id, creating it on first use.
func (r *Registry[S]) Get(id string) S {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry[S]{state: r.newState()}
		r.entries[id] = e
	}
	e.lastSeen = r.now()
	return e.state
}

func (r *Registry[S]) Drop(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		closeState(e.state)
	}
}

// Sweep drops every entry not used within idle and returns how many went.
func (r *Registry[S]) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []S
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.state)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		closeState(s)
	}
	return len(stale)
}

func (r *Registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run sweeps every interval until ctx is done.
func (r *Registry[S]) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

func closeState(s interface{}) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}
