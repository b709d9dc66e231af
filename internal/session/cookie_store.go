package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/frahmantamala/jinzai/pkg/logger"
)

type cookieClaims struct {
	Token   string `json:"tok"`
	IsAdmin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in one HS256-signed cookie.
type CookieStore struct {
	secret []byte
	opts   CookieOptions
	logger *slog.Logger
}

func NewCookieStore(secret string, opts CookieOptions, lg *slog.Logger) *CookieStore {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &CookieStore{secret: []byte(secret), opts: opts.withDefaults(), logger: lg}
}

func (s *CookieStore) Load(r *http.Request) (Session, error) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return Session{}, ErrNoSession
	}

	claims := &cookieClaims{}
	_, err = jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("rejected session cookie", "error", err)
		}
		return Session{}, ErrNoSession
	}
	if claims.Token == "" {
		return Session{}, ErrNoSession
	}

	return Session{ID: claims.ID, Token: claims.Token, IsAdmin: claims.IsAdmin}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	now := time.Now()
	claims := cookieClaims{
		Token:   sess.Token,
		IsAdmin: sess.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.MaxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session cookie: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(signed))
	return sess, nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.expired())
	return nil
}
