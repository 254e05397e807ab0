package handler

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"auth_portal/internal/feature/auth/domain/entity"
	"auth_portal/internal/feature/auth/usecase"
)

const (
	// SessionCookieName is the name of the signed cookie carrying the session token and flashes.
	SessionCookieName = "portal_session"

	// ContextUserKey is the gin context key holding the resolved *entity.User (nil when anonymous).
	ContextUserKey = "auth.user"

	sessionKeyToken = "session_token"
)

// SessionUsecase defines session establishment and resolution.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SessionUsecase interface {
	// Establish binds the user to a new session token.
	Establish(ctx context.Context, userID uint, meta usecase.ClientMeta) (string, error)
	// CurrentUser resolves a token to a user; nil means anonymous.
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
	// End removes the binding for a token.
	End(ctx context.Context, token string) error
}

// LoadCurrentUser resolves the session token from the cookie once per request
// and stores the result under ContextUserKey. A token that no longer resolves is
// dropped from the cookie. Storage failures abort the request with 500.
func LoadCurrentUser(resolver SessionUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(sessionKeyToken).(string)

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to resolve session")
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		if user == nil && token != "" {
			s.Delete(sessionKeyToken)
			if err := s.Save(); err != nil {
				log.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to drop stale session token")
			}
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by LoadCurrentUser, or nil for an anonymous visitor.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

// RequireLogin redirects anonymous visitors to /login with a notice instead of failing the request.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		s := sessions.Default(c)
		addFlash(s, FlashError, "Please log in to continue")
		if err := s.Save(); err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
