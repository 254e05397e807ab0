package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"auth_portal/internal/feature/auth/domain/entity"
	"auth_portal/internal/feature/auth/usecase"
)

func TestRequireLogin_Anonymous(t *testing.T) {
	r := setupRouter(&mockAuthUsecase{}, &mockSessionUsecase{})

	w := get(r, "/dashboard")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	page := get(r, "/login", sessionCookie(t, w))
	assert.Contains(t, page.Body.String(), "[error:Please log in to continue]")

	// フラッシュは一度だけ表示される
	again := get(r, "/login", sessionCookie(t, page))
	assert.NotContains(t, again.Body.String(), "Please log in to continue")
}

func TestLoadCurrentUser(t *testing.T) {
	tests := []struct {
		name           string
		currentUser    func(ctx context.Context, token string) (*entity.User, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "anonymous",
			currentUser:    func(ctx context.Context, token string) (*entity.User, error) { return nil, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   "index ",
		},
		{
			name: "resolved user",
			currentUser: func(ctx context.Context, token string) (*entity.User, error) {
				return &entity.User{ID: 1, Email: "a@b.com"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "index a@b.com",
		},
		{
			name: "storage error",
			currentUser: func(ctx context.Context, token string) (*entity.User, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&mockAuthUsecase{}, &mockSessionUsecase{CurrentUserFunc: tt.currentUser})

			w := get(r, "/")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestLoadCurrentUser_DropsStaleToken(t *testing.T) {
	sess := &mockSessionUsecase{
		EstablishFunc: func(ctx context.Context, userID uint, meta usecase.ClientMeta) (string, error) {
			return "stale", nil
		},
	}
	auth := &mockAuthUsecase{
		LoginFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
			return &entity.User{ID: 1}, nil
		},
	}
	r := setupRouter(auth, sess)

	login := postForm(r, "/login", url.Values{"email": {"a@b.com"}, "password": {"pw"}})
	tok := get(r, "/_token", sessionCookie(t, login))
	assert.Equal(t, "", tok.Body.String())
}
