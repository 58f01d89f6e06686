package domain

import (
	"encoding/json"
	"time"
)

// Фазы сессии. Переход active -> finalized одностороний и происходит не более одного раза.
type SessionPhase string

const (
	PhaseActive    SessionPhase = "active"
	PhaseFinalized SessionPhase = "finalized"
)

// Session представляет одну игровую попытку одного пользователя.
// State - игровой payload (доска, колода, сетка), сериализуется только на границе хранилища.
type Session struct {
	ID          string          `db:"id" json:"id"`
	OwnerID     int64           `db:"owner_id" json:"owner_id"`
	GameType    GameType        `db:"game_type" json:"game_type"`
	Difficulty  Difficulty      `db:"difficulty" json:"difficulty"`
	Phase       SessionPhase    `db:"phase" json:"phase"`
	State       json.RawMessage `db:"state" json:"-"` // скрыто от клиента
	StartedAt   time.Time       `db:"started_at" json:"started_at"`
	FinalizedAt *time.Time      `db:"finalized_at" json:"finalized_at,omitempty"`
	Score       *int64          `db:"score" json:"score,omitempty"`
	XPEarned    *int64          `db:"xp_earned" json:"xp_earned,omitempty"`
}

// активна ли сессия
func (s *Session) Active() bool {
	return s.Phase == PhaseActive
}

// декодирует payload сессии в типизированное состояние игры
func (s *Session) DecodeState(dst any) error {
	return json.Unmarshal(s.State, dst)
}

// кодирует типизированное состояние игры обратно в payload
func EncodeState(src any) (json.RawMessage, error) {
	return json.Marshal(src)
}

// LedgerEntry - строка лидерборда: лучший результат пользователя
// по паре (игра, сложность). HighScore монотонно не убывает.
type LedgerEntry struct {
	UserID     int64      `db:"user_id" json:"user_id"`
	Username   string     `db:"username" json:"username"`
	GameType   GameType   `db:"game_type" json:"game_type"`
	Difficulty Difficulty `db:"difficulty" json:"difficulty"`
	HighScore  int64      `db:"high_score" json:"high_score"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// GameRecord - постоянная запись истории: одна на каждый финализ.
type GameRecord struct {
	ID         int64          `db:"id" json:"id"`
	UserID     int64          `db:"user_id" json:"user_id"`
	GameType   GameType       `db:"game_type" json:"game_type"`
	Difficulty Difficulty     `db:"difficulty" json:"difficulty"`
	Outcome    GameOutcome    `db:"outcome" json:"outcome"`
	Score      int64          `db:"score" json:"score"`
	XPEarned   int64          `db:"xp_earned" json:"xp_earned"`
	Duration   int64          `db:"duration_sec" json:"duration_sec"`
	Details    map[string]any `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
