package listdetail

import (
	"context"
	"sync"
)

// Ticket identifies one selection. Its context is cancelled when a newer
// selection begins, when the selection is cleared, or when Done is called.
type Ticket[K comparable] struct {
	Key        K
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
}

func (t Ticket[K]) Context() context.Context { return t.ctx }

func (t Ticket[K]) Done() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Selection tracks which key a detail view currently shows.
type Selection[K comparable] struct {
	mu         sync.Mutex
	key        K
	selected   bool
	generation uint64
	cancel     context.CancelFunc
}

// Begin selects key and returns a ticket for the fetches it triggers. Any
// in-flight ticket is cancelled and stops being current.
func (s *Selection[K]) Begin(parent context.Context, key K) Ticket[K] {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.key = key
	s.selected = true
	s.cancel = cancel

	return Ticket[K]{Key: key, ctx: ctx, cancel: cancel, generation: s.generation}
}

// Current reports whether responses for t may still be applied.
func (s *Selection[K]) Current(t Ticket[K]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected && s.generation == t.generation
}

func (s *Selection[K]) Selected() (K, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.selected
}

// Clear drops the selection and cancels its in-flight ticket.
func (s *Selection[K]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	var zero K
	s.key = zero
	s.selected = false
	s.generation++
}
