package domain

import "time"

// Логирование важных действий площадки
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Категории совершенных действий
const (
	AuditCategoryAuth = "auth"
	AuditCategoryGame = "game"
)

const (
	// Авторизация
	AuditActionLogin = "login"

	// Игры
	AuditActionGameStart     = "game_start"
	AuditActionGameFinalize  = "game_finalize"
	AuditActionGameDupFinal  = "game_duplicate_finalize"
	AuditActionCheatRejected = "cheat_rejected" // детали нарушения только сюда, не клиенту
)
