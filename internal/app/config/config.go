// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment はローカル開発環境です。開発用の既定値が使われます。
	EnvDevelopment = "development"
	// EnvProduction は本番環境です。秘密情報は外部から必ず与える必要があります。
	EnvProduction = "production"

	// 開発用の既定値。本番では使用できません。
	devSecretKey  = "dev-secret-key"
	devDBPassword = "postgres"

	minSecretKeyLength = 32
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// アプリケーション設定
	Env      string // development / production
	Port     string // HTTPサーバーのポート番号
	LogLevel string // zerologのログレベル

	// セッション設定
	SecretKey  string        // セッションCookie署名用の秘密鍵
	SessionTTL time.Duration // セッションの有効期間

	// データベース設定
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis設定（REDIS_HOSTが空の場合はDBにセッションを保存）
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load は環境変数から設定を読み込みます。
// .env ファイルが存在する場合はそこから読み込みます（既存の環境変数は上書きしません）。
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv()
}

// FromEnv は現在の環境変数のみから設定を組み立て、検証します。
func FromEnv() (*Config, error) {
	env := getEnv("APP_ENV", EnvDevelopment)
	dev := env != EnvProduction

	cfg := &Config{
		Env:      env,
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", defaultLogLevel(dev)),

		SecretKey:  getEnv("SECRET_KEY", devOnly(dev, devSecretKey)),
		SessionTTL: getEnvAsDuration("SESSION_TTL", 12*time.Hour),

		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "appdb"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", devOnly(dev, devDBPassword)),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction は本番環境かどうかを返します。
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate は設定の妥当性を検証します。
// 本番環境では秘密鍵とDBパスワードに使用可能な既定値はありません。
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.IsProduction() {
		if c.SecretKey == "" || c.SecretKey == devSecretKey {
			return fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(c.SecretKey) < minSecretKeyLength {
			return fmt.Errorf("SECRET_KEY must be at least %d bytes in production", minSecretKeyLength)
		}
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required in production")
		}
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}

	return nil
}

func defaultLogLevel(dev bool) string {
	if dev {
		return "debug"
	}
	return "info"
}

// devOnly は開発環境でのみ既定値を返します。
func devOnly(dev bool, value string) string {
	if dev {
		return value
	}
	return ""
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数を time.Duration として取得します（例: "30m", "12h"）。
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
