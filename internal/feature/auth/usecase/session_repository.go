package usecase

import (
	"context"

	"auth_portal/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a live session by its token.
	// It returns ErrSessionNotFound if the token is unknown or expired.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, id string) error
}
