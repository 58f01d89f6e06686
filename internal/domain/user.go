package domain

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	XP        int64     `db:"xp" json:"xp"`     // накопленный опыт, только растёт
	Rank      string    `db:"rank" json:"rank"` // производная от xp, хранится для быстрых чтений
}

// Типы игр платформы
type GameType string

const (
	GameTicTacToe  GameType = "tictactoe"
	GameMemory     GameType = "memory"
	GameWordSearch GameType = "wordsearch"
	GamePacman     GameType = "pacman"
	GameSnake      GameType = "snake"
	GameBreakout   GameType = "breakout"
	GameRunner     GameType = "runner"
)

// Сложности
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// проверяет что сложность одна из трёх известных
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Исходы завершённой игры
type GameOutcome string

const (
	OutcomeWin       GameOutcome = "win"
	OutcomeLose      GameOutcome = "lose"
	OutcomeDraw      GameOutcome = "draw"
	OutcomeCompleted GameOutcome = "completed" // игры без дискретного исхода (аркады)
)
