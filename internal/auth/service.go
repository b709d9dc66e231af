package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (api.TokenResponse, error)
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (session.Session, error)
}

type Service struct {
	issuer TokenIssuer
	logger *slog.Logger
}

func NewService(issuer TokenIssuer, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{issuer: issuer, logger: lg}
}

// Login exchanges the credentials for a token and derives the admin flag
// from it. The returned session is not stored yet.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (session.Session, error) {
	if err := dto.Validate(); err != nil {
		return session.Session{}, err
	}

	lg := logger.FromOr(ctx, s.logger)

	tok, err := s.issuer.IssueToken(ctx, dto.Username, dto.Password)
	if err != nil {
		lg.Info("login rejected", "username", dto.Username, "error", err)
		return session.Session{}, err
	}

	claims, err := DecodeAccessToken(tok.AccessToken)
	if err != nil {
		lg.Error("issued token could not be decoded", "username", dto.Username, "error", err)
		return session.Session{}, err
	}

	lg.Info("login succeeded", "subject", claims.Subject, "admin", claims.IsAdmin())
	return session.Session{Token: tok.AccessToken, IsAdmin: claims.IsAdmin()}, nil
}
