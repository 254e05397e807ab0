// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// Rows are created once at registration and read during login and session resolution.
type User struct {
	// ID is assigned by storage on creation.
	ID uint `gorm:"primaryKey"`

	// Email is stored trimmed and lowercased. It is unique across all users.
	Email string `gorm:"uniqueIndex;type:text;not null"`

	// PasswordHash is the bcrypt digest of the password. Plaintext is never stored.
	PasswordHash string `gorm:"column:password_hash;type:text;not null"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
