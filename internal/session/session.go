// Package session keeps the backend bearer token and the derived admin flag
// for a browser (or CLI) between requests.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/frahmantamala/jinzai/internal"
)

// ErrNoSession is returned by Load when the request carries no usable session.
// It is not a failure: the guard turns it into a redirect to /login.
var ErrNoSession = errors.New("no session")

type Session struct {
	// ID identifies the session to the screen-state registry. Stores assign it on Save.
	ID      string
	Token   string
	IsAdmin bool
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

type Store interface {
	Load(r *http.Request) (Session, error)
	Save(w http.ResponseWriter, r *http.Request, s Session) (Session, error)
	Clear(w http.ResponseWriter, r *http.Request) error
}

type CookieOptions struct {
	Name   string
	Path   string
	MaxAge time.Duration
	Secure bool
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = "jinzai_session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 12 * time.Hour
	}
	return o
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     o.Path,
		MaxAge:   int(o.MaxAge.Seconds()),
		Expires:  time.Now().Add(o.MaxAge),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) expired() *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     o.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.Authenticated()
}

// TokenFromContext has the shape of an api token source: it yields the
// bearer token of the session attached to ctx.
func TokenFromContext(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", internal.ErrAuthenticationMissing
	}
	return s.Token, nil
}
