// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"auth_portal/internal/feature/auth/domain/entity"
	"auth_portal/internal/feature/auth/transport/http/dto"
	"auth_portal/internal/feature/auth/usecase"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Register(ctx context.Context, email, password string) error
	// Login はユーザーを認証し、成功時にユーザーを返します。
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

// AuthHandler は登録・ログイン・ログアウトと画面表示のHTTPリクエストを処理します。
// フォーム入力を受け取り、結果はリダイレクトとフラッシュメッセージで返します。
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からユースケースを注入します。
func NewAuthHandler(auth AuthUsecase, sessions SessionUsecase) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Index は GET / を処理します。ログイン状態に応じてトップページを表示します。
func (h *AuthHandler) Index(c *gin.Context) {
	h.render(c, "index.html", nil)
}

// Dashboard は GET /dashboard を処理します。RequireLoginの後に登録します。
func (h *AuthHandler) Dashboard(c *gin.Context) {
	h.render(c, "dashboard.html", nil)
}

// RegisterForm は GET /register を処理します。
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.render(c, "register.html", nil)
}

// LoginForm は GET /login を処理します。
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.render(c, "login.html", nil)
}

// Register は POST /register を処理します。
// - 入力不足時は "Email and password are required" を表示して /register へ戻す
// - メール重複時は "Email already registered" を表示して /register へ戻す
// - 成功時は /login へリダイレクト
// - 想定外のエラーは500
func (h *AuthHandler) Register(c *gin.Context) {
	logger := log.Ctx(c.Request.Context())
	s := sessions.Default(c)

	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register form binding failed")
		h.redirectWithFlash(c, s, "/register", FlashError, "Email and password are required")
		return
	}

	err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		logger.Info().Str("email", usecase.NormalizeEmail(req.Email)).Str("remote_addr", c.ClientIP()).Msg("user registration successful")
		h.redirectWithFlash(c, s, "/login", FlashSuccess, "Registration successful. Please log in.")
	case errors.Is(err, usecase.ErrInvalidInput):
		logger.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("registration rejected")
		h.redirectWithFlash(c, s, "/register", FlashError, "Email and password are required")
	case errors.Is(err, usecase.ErrDuplicateEmail):
		logger.Warn().Str("email", usecase.NormalizeEmail(req.Email)).Str("remote_addr", c.ClientIP()).Msg("registration rejected: duplicate email")
		h.redirectWithFlash(c, s, "/register", FlashError, "Email already registered")
	default:
		logger.Error().Err(err).Msg("registration failed")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}

// Login は POST /login を処理します。
// 認証失敗の理由（未登録かパスワード不一致か）は区別せず、同じメッセージを表示します。
func (h *AuthHandler) Login(c *gin.Context) {
	logger := log.Ctx(c.Request.Context())
	s := sessions.Default(c)

	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("login form binding failed")
		h.redirectWithFlash(c, s, "/login", FlashError, "Invalid email or password")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、どちらが誤っていたかは公開しない
			logger.Warn().Str("email", usecase.NormalizeEmail(req.Email)).Str("remote_addr", c.ClientIP()).Msg("login failed")
			h.redirectWithFlash(c, s, "/login", FlashError, "Invalid email or password")
			return
		}
		logger.Error().Err(err).Msg("login failed")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// 既存のセッションがあれば先に破棄する
	if old, _ := s.Get(sessionKeyToken).(string); old != "" {
		if err := h.sessions.End(c.Request.Context(), old); err != nil {
			logger.Warn().Err(err).Msg("failed to end previous session")
		}
	}

	token, err := h.sessions.Establish(c.Request.Context(), user.ID, usecase.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to establish session")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	s.Set(sessionKeyToken, token)
	logger.Info().Uint("user_id", user.ID).Str("remote_addr", c.ClientIP()).Msg("user login successful")
	h.redirectWithFlash(c, s, "/dashboard", FlashSuccess, "Logged in successfully")
}

// Logout は GET /logout を処理します。
// サーバー側のセッションを削除するため、古いCookieを再送しても匿名として扱われます。
func (h *AuthHandler) Logout(c *gin.Context) {
	s := sessions.Default(c)

	if token, _ := s.Get(sessionKeyToken).(string); token != "" {
		if err := h.sessions.End(c.Request.Context(), token); err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to end session")
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
	}

	s.Clear()
	h.redirectWithFlash(c, s, "/", FlashSuccess, "Logged out")
}

// render はフラッシュメッセージを取り出してテンプレートを描画します。
func (h *AuthHandler) render(c *gin.Context, name string, data gin.H) {
	s := sessions.Default(c)
	flashes := popFlashes(s)
	if len(flashes) > 0 {
		if err := s.Save(); err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
	}

	if data == nil {
		data = gin.H{}
	}
	data["user"] = CurrentUser(c)
	data["flashes"] = flashes

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, name, data)
}

// redirectWithFlash はフラッシュメッセージを保存してリダイレクトします。
func (h *AuthHandler) redirectWithFlash(c *gin.Context, s sessions.Session, location, category, message string) {
	addFlash(s, category, message)
	if err := s.Save(); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}
