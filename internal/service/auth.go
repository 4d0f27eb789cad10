package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dukerupert/festa/internal/auth"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/telemetry"
)

// AdminAuthService signs the single store admin in and out. Sessions are kept
// in memory; a restart signs the admin out.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (sessionID string, err error)
	Authenticate(ctx context.Context, sessionID string) (*domain.Admin, error)
	Logout(ctx context.Context, sessionID string)
}

// AdminCredentials is the configured admin account.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type adminAuthService struct {
	creds    AdminCredentials
	sessions *expirable.LRU[string, domain.Admin]
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewAdminAuthService creates a new AdminAuthService instance
func NewAdminAuthService(creds AdminCredentials, ttl time.Duration, metrics *telemetry.BusinessMetrics, logger *slog.Logger) AdminAuthService {
	return &adminAuthService{
		creds:    creds,
		sessions: expirable.NewLRU[string, domain.Admin](64, nil, ttl),
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "admin.login"

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := s.creds.Email != "" &&
		subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(s.creds.Email))) == 1

	// The hash is checked even for an unknown email so both paths take as long.
	err := auth.VerifyPassword(password, s.creds.PasswordHash)
	if !emailOK || err != nil {
		s.metrics.AdminLogin(false)
		if err != nil && !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.ErrorContext(ctx, "admin password check failed", "error", err)
		}
		return "", fail(ErrInvalidCredentials, op)
	}

	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", domain.Internal(err, op, "failed to create session")
	}
	s.sessions.Add(sessionID, domain.Admin{Email: s.creds.Email, SessionID: sessionID})
	s.metrics.AdminLogin(true)
	s.logger.InfoContext(ctx, "admin signed in", "email", s.creds.Email)
	return sessionID, nil
}

func (s *adminAuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Admin, error) {
	if sessionID == "" {
		return nil, fail(ErrAdminSessionExpired, "admin.authenticate")
	}
	admin, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fail(ErrAdminSessionExpired, "admin.authenticate")
	}
	return &admin, nil
}

func (s *adminAuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Remove(sessionID)
}
