package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"auth_portal/internal/app/config"
	"auth_portal/internal/app/di"
	"auth_portal/internal/app/router"
	"auth_portal/internal/app/view"
	authadapters "auth_portal/internal/feature/auth/adapters"
	authhandler "auth_portal/internal/feature/auth/transport/handler"
	authusecase "auth_portal/internal/feature/auth/usecase"
	infradb "auth_portal/internal/platform/db"
	"auth_portal/internal/platform/http/handler"
	"auth_portal/internal/platform/logger"
	infraredis "auth_portal/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// 開発環境ではコンソール出力、本番ではJSON
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(infradb.Config{
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	// スキーマ作成は最初のリクエストではなく起動時に一度だけ行う
	if err := authadapters.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	// Redis（未設定・接続不可の場合はDBにセッションを保存）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	}); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable. Storing sessions in the database.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis client")
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(db)
	sessionRepo := di.NewSessionRepository(rdb, db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo)
	sessionUC := authusecase.NewSessionUsecase(userRepo, sessionRepo, cfg.SessionTTL)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, sessionUC)

	checks := map[string]handler.PingFunc{"database": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	tmpl, err := view.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	// ルータ生成
	r := router.NewRouter(router.Options{
		SecretKey:     []byte(cfg.SecretKey),
		SecureCookie:  cfg.IsProduction(),
		SessionMaxAge: int(cfg.SessionTTL.Seconds()),
	}, tmpl, authH, sessionUC, handler.Ready(checks))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}
