package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyPrefix = "session:"

// SessionService issues and checks the session flag that gates the dashboard
type SessionService struct {
	store        providers.CacheProvider
	passcodeHash []byte
	ttl          time.Duration
}

// NewSessionService creates a session service. An empty passcodeHash
// disables the gate.
func NewSessionService(store providers.CacheProvider, passcodeHash string, ttl time.Duration) *SessionService {
	return &SessionService{
		store:        store,
		passcodeHash: []byte(passcodeHash),
		ttl:          ttl,
	}
}

// Enabled reports whether a login is required
func (s *SessionService) Enabled() bool {
	return len(s.passcodeHash) > 0
}

// TTL returns how long a session stays valid
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Login checks the passcode and returns a new session token
func (s *SessionService) Login(ctx context.Context, passcode string) (string, error) {
	if !s.Enabled() {
		return "", apperrors.NewValidationError("login is not enabled")
	}
	if passcode == "" {
		return "", apperrors.NewValidationError("passcode is required")
	}

	if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", apperrors.NewUnauthorizedError("invalid passcode")
		}
		return "", apperrors.NewInternalError("passcode hash is unusable", err)
	}

	token := uuid.NewString()
	if err := s.store.Set(ctx, sessionKeyPrefix+token, []byte("1"), s.ttl); err != nil {
		return "", apperrors.NewInternalError("failed to store session", err)
	}
	return token, nil
}

// Validate reports whether token belongs to a live session
func (s *SessionService) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	if _, err := uuid.Parse(token); err != nil {
		return false, nil
	}
	ok, err := s.store.Exists(ctx, sessionKeyPrefix+token)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return ok, nil
}

// Logout ends a session. Unknown tokens are ignored.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}
