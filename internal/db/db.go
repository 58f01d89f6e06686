package db

import (
	"context"
	"time"

	"arcadehub/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений и проверяет его живость.
// База обязательна, без неё приложение не стартует.
func Connect(databaseURL string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("не удалось создать пул соединений", "error", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("база данных недоступна", "error", err)
	}
	return pool
}

// схема приложения. Типы и колонки согласованы со Store.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		xp BIGINT NOT NULL DEFAULT 0,
		rank TEXT NOT NULL DEFAULT 'bronze'
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES users(id),
		game_type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		phase TEXT NOT NULL DEFAULT 'active',
		state JSONB NOT NULL DEFAULT '{}',
		started_at TIMESTAMPTZ NOT NULL,
		finalized_at TIMESTAMPTZ,
		score BIGINT,
		xp_earned BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id, phase)`,
	`CREATE TABLE IF NOT EXISTS leaderboard (
		user_id BIGINT NOT NULL REFERENCES users(id),
		game_type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		high_score BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, game_type, difficulty)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leaderboard_top ON leaderboard(game_type, difficulty, high_score DESC)`,
	`CREATE TABLE IF NOT EXISTS game_history (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		game_type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		outcome TEXT NOT NULL,
		score BIGINT NOT NULL,
		xp_earned BIGINT NOT NULL,
		duration_sec BIGINT NOT NULL,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_history_user ON game_history(user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		category TEXT NOT NULL,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate накатывает схему. Идемпотентно, вызывается при каждом старте.
func Migrate(ctx context.Context, pool *pgxpool.Pool) {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Fatal("миграция не прошла", "error", err)
		}
	}
}
