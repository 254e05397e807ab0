package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"auth_portal/internal/feature/auth/domain/entity"
)

// DefaultSessionTTL is the session lifetime used when none is configured.
const DefaultSessionTTL = 12 * time.Hour

// ClientMeta carries request metadata recorded alongside a session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// sessionUsecase resolves session tokens to users and manages the server-side binding.
type sessionUsecase struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionUsecase creates a new sessionUsecase. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionUsecase(users UserRepository, sessions SessionRepository, ttl time.Duration) *sessionUsecase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionUsecase{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Establish binds userID to a freshly generated session token and returns the token.
func (s *sessionUsecase) Establish(ctx context.Context, userID uint, meta ClientMeta) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &entity.Session{
		ID:        token,
		UserID:    userID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("%w: create session: %w", ErrStorage, err)
	}
	return token, nil
}

// CurrentUser returns the user bound to token, or nil for an anonymous visitor.
// A missing token, an unknown or expired session and a user that no longer exists
// all resolve to anonymous without an error. Only storage failures are returned.
func (s *sessionUsecase) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find session: %w", ErrStorage, err)
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// stale binding; dropping it is best effort
			_ = s.sessions.Delete(ctx, token)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrStorage, err)
	}
	return user, nil
}

// End removes the binding for token. Ending an unknown or empty token is a no-op.
func (s *sessionUsecase) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: delete session: %w", ErrStorage, err)
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
