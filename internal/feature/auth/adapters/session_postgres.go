package adapters

import (
	"context"
	"errors"
	"time"

	"auth_portal/internal/feature/auth/domain/entity"
	"auth_portal/internal/feature/auth/usecase"

	"gorm.io/gorm"
)

// sessionPostgres is a database implementation of the SessionRepository interface.
type sessionPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionPostgres implements SessionRepository.
var _ usecase.SessionRepository = (*sessionPostgres)(nil)

// NewSessionPostgres creates a new instance of sessionPostgres.
func NewSessionPostgres(db *gorm.DB) *sessionPostgres {
	return &sessionPostgres{db: db}
}

// Create persists a new session to the database.
func (r *sessionPostgres) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a live session by its token. Expired rows are reported as not found.
func (r *sessionPostgres) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Delete removes a session by its token.
func (r *sessionPostgres) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", id).Error
}
