package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"auth_portal/internal/feature/auth/domain/entity"
	"auth_portal/internal/feature/auth/usecase"
)

func newTestUser(email, hash string) *entity.User {
	return &entity.User{Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
}

func TestNewUserPostgres(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserPostgres(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserPostgres_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		user := newTestUser("test@example.com", "hashed_password")

		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		user1 := newTestUser("duplicate@example.com", "password1")
		err := repo.Create(context.Background(), user1)
		require.NoError(t, err, "failed to create first user")

		// Create second user with the same email
		user2 := newTestUser("duplicate@example.com", "password2")
		err = repo.Create(context.Background(), user2)

		assert.ErrorIs(t, err, usecase.ErrDuplicateEmail, "should return duplicate error")

		// First row is unchanged and no partial row was left behind
		var count int64
		db.Model(&entity.User{}).Where("email = ?", "duplicate@example.com").Count(&count)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindByEmail(context.Background(), "duplicate@example.com")
		require.NoError(t, err)
		assert.Equal(t, user1.ID, found.ID)
		assert.Equal(t, "password1", found.PasswordHash)
	})

	t.Run("ids are assigned incrementally", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		first := newTestUser("first@example.com", "h")
		second := newTestUser("second@example.com", "h")
		require.NoError(t, repo.Create(context.Background(), first))
		require.NoError(t, repo.Create(context.Background(), second))

		assert.Greater(t, second.ID, first.ID)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	t.Run("find user by email successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		// Create test data
		expected := newTestUser("find@example.com", "hashed_password")
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		// Execute search
		found, err := repo.FindByEmail(context.Background(), "find@example.com")

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.Email, found.Email, "email does not match")
		assert.Equal(t, expected.PasswordHash, found.PasswordHash, "password hash does not match")
	})

	t.Run("email not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		found, err := repo.FindByEmail(context.Background(), "notfound@example.com")

		assert.Error(t, err, "should return error")
		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})

	t.Run("find correct user when multiple users exist", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		// Create multiple users
		users := []*entity.User{
			newTestUser("user1@example.com", "pass1"),
			newTestUser("user2@example.com", "pass2"),
			newTestUser("user3@example.com", "pass3"),
		}
		for _, u := range users {
			err := repo.Create(context.Background(), u)
			require.NoError(t, err, "failed to create test data")
		}

		// Find user2
		found, err := repo.FindByEmail(context.Background(), "user2@example.com")

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, users[1].ID, found.ID, "ID does not match")
		assert.Equal(t, "user2@example.com", found.Email, "email does not match")
		assert.Equal(t, "pass2", found.PasswordHash, "password hash does not match")
	})
}

func TestUserPostgres_FindByID(t *testing.T) {
	t.Run("find user by ID successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		// Create test data
		expected := newTestUser("findbyid@example.com", "hashed_password")
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		// Execute search
		found, err := repo.FindByID(context.Background(), expected.ID)

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.Email, found.Email, "email does not match")
	})

	t.Run("ID not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		found, err := repo.FindByID(context.Background(), 999)

		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})

	t.Run("ID 0 error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db)

		found, err := repo.FindByID(context.Background(), 0)

		assert.Error(t, err, "should return error")
		assert.Nil(t, found, "user should be nil")
	})
}

func TestUserPostgres_CreatedAtPreserved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserPostgres(db)

	createdAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	user := &entity.User{Email: "timestamp@example.com", PasswordHash: "h", CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), user))

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err, "failed to find user")

	assert.Equal(t, createdAt.Unix(), found.CreatedAt.Unix(), "CreatedAt does not match")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other violation", &pgconn.PgError{Code: "23502"}, false},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
