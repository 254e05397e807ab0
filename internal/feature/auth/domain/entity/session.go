package entity

import "time"

// Session binds an opaque session token to an authenticated user.
// The browser only carries ID inside a signed cookie; the binding itself lives server-side.
type Session struct {
	ID        string    // Session token (64-character hex string)
	UserID    uint      // Associated user ID
	UserAgent string    // Client's User-Agent header
	IPAddress string    // Client's IP address
	CreatedAt time.Time // Session creation time
	ExpiresAt time.Time // Session expiration time
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
