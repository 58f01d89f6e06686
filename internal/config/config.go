package config

import (
	"os"
	"strconv"

	"arcadehub/internal/logger"

	"github.com/joho/godotenv"
)

// Config - конфигурация приложения из окружения
type Config struct {
	DatabaseURL   string
	AppPort       string
	JWTSecret     string
	TokenSecret   string // ключ подписи токенов аркадных сессий
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// запросов в минуту на пользователя (API) и на IP (вход)
	APIRateLimit   int
	LoginRateLimit int
}

// Load читает .env (если есть) и собирает конфигурацию. Отсутствующие
// секреты фатальны: подпись без ключа бессмысленна.
func Load() *Config {
	// .env опционален, в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppPort:       envOr("APP_PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenSecret:   os.Getenv("TOKEN_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	cfg.APIRateLimit = envIntOr("API_RATE_LIMIT", 120)
	cfg.LoginRateLimit = envIntOr("LOGIN_RATE_LIMIT", 10)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET не задан")
	}
	if cfg.TokenSecret == "" {
		logger.Fatal("TOKEN_SECRET не задан")
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
