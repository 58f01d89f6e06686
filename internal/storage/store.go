package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"arcadehub/internal/domain"
)

var (
	ErrNotFound = errors.New("запись не найдена")
)

// Store - единственный разделяемый изменяемый ресурс ядра. Всё игровое
// состояние живёт здесь между запросами; внутрипроцессного состояния,
// влияющего на корректность, нет.
//
// ConditionalFinalize обязан быть одиночной условной записью, вычисляемой
// самим хранилищем: ровно один из конкурирующих финализов получает 1
// затронутую строку.
type Store interface {
	// сессии
	CreateSession(ctx context.Context, s *domain.Session) error
	ReadSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateSessionState(ctx context.Context, id string, state json.RawMessage) error
	ConditionalFinalize(ctx context.Context, id string, ownerID int64, score, xp int64, finalizedAt time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, ownerID int64, olderThan time.Time) error

	// пользователи
	CreateUser(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	IncrementUserXP(ctx context.Context, id int64, delta int64) (int64, error)
	SetUserRank(ctx context.Context, id int64, rank string) error

	// лидерборд и история
	UpsertLedgerIfHigher(ctx context.Context, userID int64, gt domain.GameType, d domain.Difficulty, score int64, at time.Time) error
	TopLedger(ctx context.Context, gt domain.GameType, d domain.Difficulty, limit int) ([]*domain.LedgerEntry, error)
	UserLedger(ctx context.Context, userID int64) ([]*domain.LedgerEntry, error)
	CreateGameRecord(ctx context.Context, rec *domain.GameRecord) error
	RecentGames(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error)

	// аудит
	CreateAuditLog(ctx context.Context, log *domain.AuditLog) error

	// InTx выполняет fn в одной атомарной единице работы: либо всё,
	// либо ничего. Финализ использует её для CAS + история + лидерборд + опыт.
	InTx(ctx context.Context, fn func(Store) error) error
}
