package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	authhandler "auth_portal/internal/feature/auth/transport/handler"
	"auth_portal/internal/platform/http/handler"
	"auth_portal/internal/platform/logger"
)

// Options はセッションCookieの設定です。
type Options struct {
	SecretKey     []byte // Cookie署名用の秘密鍵
	SecureCookie  bool   // 本番ではHTTPSのみで送信
	SessionMaxAge int    // 秒
}

func NewRouter(opts Options, tmpl *template.Template, authH *authhandler.AuthHandler,
	sessionUC authhandler.SessionUsecase, ready gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())
	r.SetHTMLTemplate(tmpl)

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	if ready != nil {
		r.GET("/readyz", ready)
	}

	// セッションストアの設定（Cookieにはトークンとフラッシュのみを署名付きで保存）
	store := cookie.NewStore(opts.SecretKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	pages := r.Group("/")
	pages.Use(sessions.Sessions(authhandler.SessionCookieName, store), authhandler.LoadCurrentUser(sessionUC))
	{
		pages.GET("/", authH.Index)
		pages.GET("/register", authH.RegisterForm)
		pages.POST("/register", authH.Register)
		pages.GET("/login", authH.LoginForm)
		pages.POST("/login", authH.Login)
		pages.GET("/logout", authH.Logout)

		// 認証必須のルート
		// 未ログインの場合は /login へリダイレクト
		pages.GET("/dashboard", authhandler.RequireLogin(), authH.Dashboard)
	}

	return r
}
