package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"auth_portal/internal/feature/auth/domain/entity"
)

// EnsureSchema creates the users and sessions tables if they are absent.
// It is idempotent and runs once at process start, before the server accepts traffic.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&entity.User{}, &SessionModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
