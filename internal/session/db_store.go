package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	sessiondm "github.com/frahmantamala/jinzai/internal/core/datamodel/session"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	Save(ctx context.Context, s *sessiondm.WebSession) error
	FindByHash(ctx context.Context, idHash string) (*sessiondm.WebSession, error)
	DeleteByHash(ctx context.Context, idHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DBStore keeps only a random id in the cookie; the token and admin flag
// live in the repository under the id's blake2b digest.
type DBStore struct {
	repo   Repository
	opts   CookieOptions
	now    func() time.Time
	logger *slog.Logger
}

func NewDBStore(repo Repository, opts CookieOptions, lg *slog.Logger) *DBStore {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &DBStore{repo: repo, opts: opts.withDefaults(), now: time.Now, logger: lg}
}

func HashID(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

func (s *DBStore) Load(r *http.Request) (Session, error) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return Session{}, ErrNoSession
	}

	row, err := s.repo.FindByHash(r.Context(), HashID(c.Value))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !row.ExpiresAt.After(s.now()) {
		return Session{}, ErrNoSession
	}

	return Session{ID: c.Value, Token: row.AccessToken, IsAdmin: row.IsAdmin}, nil
}

func (s *DBStore) Save(w http.ResponseWriter, r *http.Request, sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	row := &sessiondm.WebSession{
		IDHash:      HashID(sess.ID),
		AccessToken: sess.Token,
		IsAdmin:     sess.IsAdmin,
		ExpiresAt:   s.now().Add(s.opts.MaxAge),
	}
	if err := s.repo.Save(r.Context(), row); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(sess.ID))
	return sess, nil
}

func (s *DBStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.expired())

	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return nil
	}
	if err := s.repo.DeleteByHash(r.Context(), HashID(c.Value)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep deletes expired rows.
func (s *DBStore) Sweep(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", "count", n)
	}
	return nil
}
