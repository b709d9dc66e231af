package session

import (
	"context"
	"sync/atomic"

	"github.com/frahmantamala/jinzai/internal"
)

// Holder is a process-wide session for the CLI. Replacing the session is a
// single atomic swap, so readers see either the old or the new value.
type Holder struct {
	current atomic.Pointer[Session]
}

func NewHolder(s Session) *Holder {
	h := &Holder{}
	h.Set(s)
	return h
}

func (h *Holder) Set(s Session) {
	h.current.Store(&s)
}

func (h *Holder) Get() (Session, bool) {
	s := h.current.Load()
	if s == nil || !s.Authenticated() {
		return Session{}, false
	}
	return *s, true
}

func (h *Holder) Clear() {
	h.current.Store(nil)
}

func (h *Holder) Token(ctx context.Context) (string, error) {
	s, ok := h.Get()
	if !ok {
		return "", internal.ErrAuthenticationMissing
	}
	return s.Token, nil
}
