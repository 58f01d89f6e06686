package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"arcadehub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// общий интерфейс pgxpool.Pool и pgx.Tx: один и тот же код работает
// в пуле и внутри транзакции
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgStore реализует Store поверх Postgres
type PgStore struct {
	db pgDB
}

func NewPgStore(db pgDB) *PgStore {
	return &PgStore{db: db}
}

// создает запись сессии
func (s *PgStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, owner_id, game_type, difficulty, phase, state, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID, sess.OwnerID, sess.GameType, sess.Difficulty, sess.Phase, sess.State, sess.StartedAt,
	)
	return err
}

// читает сессию по id
func (s *PgStore) ReadSession(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, game_type, difficulty, phase, state, started_at,
				finalized_at, score, xp_earned
		 FROM sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &sess.OwnerID, &sess.GameType, &sess.Difficulty, &sess.Phase,
		&sess.State, &sess.StartedAt, &sess.FinalizedAt, &sess.Score, &sess.XPEarned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// перезаписывает игровой payload активной сессии (last-writer-wins)
func (s *PgStore) UpdateSessionState(ctx context.Context, id string, state json.RawMessage) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET state = $1 WHERE id = $2 AND phase = 'active'`,
		state, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConditionalFinalize - CAS финализа: одиночный условный UPDATE,
// предикат вычисляет сама база. 0 затронутых строк = проигравший гонки
// (или чужая/несуществующая сессия - различается чтением выше по стеку).
func (s *PgStore) ConditionalFinalize(ctx context.Context, id string, ownerID int64, score, xp int64, finalizedAt time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions
		 SET phase = 'finalized', score = $1, xp_earned = $2, finalized_at = $3
		 WHERE id = $4 AND owner_id = $5 AND phase = 'active'`,
		score, xp, finalizedAt, id, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// лучшая попытка: чистит протухшие сессии пользователя, ошибки не фатальны
func (s *PgStore) DeleteExpiredSessions(ctx context.Context, ownerID int64, olderThan time.Time) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM sessions WHERE owner_id = $1 AND phase = 'active' AND started_at < $2`,
		ownerID, olderThan,
	)
	return err
}

// создает пользователя с нулевым опытом и стартовым рангом
func (s *PgStore) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, xp, rank)
		 VALUES ($1, 0, 'bronze')
		 RETURNING id, username, created_at, xp, rank`,
		username,
	).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.XP, &u.Rank)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PgStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, created_at, xp, rank FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.XP, &u.Rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PgStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, created_at, xp, rank FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.XP, &u.Rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// атомарно наращивает опыт и возвращает новую сумму
func (s *PgStore) IncrementUserXP(ctx context.Context, id int64, delta int64) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx,
		`UPDATE users SET xp = xp + $1 WHERE id = $2 RETURNING xp`,
		delta, id,
	).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return total, err
}

func (s *PgStore) SetUserRank(ctx context.Context, id int64, rank string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET rank = $1 WHERE id = $2`, rank, id)
	return err
}

// keep-if-better: строка лидерборда обновляется только большим счётом
func (s *PgStore) UpsertLedgerIfHigher(ctx context.Context, userID int64, gt domain.GameType, d domain.Difficulty, score int64, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO leaderboard (user_id, game_type, difficulty, high_score, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, game_type, difficulty)
		 DO UPDATE SET high_score = EXCLUDED.high_score, updated_at = EXCLUDED.updated_at
		 WHERE leaderboard.high_score < EXCLUDED.high_score`,
		userID, gt, d, score, at,
	)
	return err
}

// топ лидерборда по паре (игра, сложность)
func (s *PgStore) TopLedger(ctx context.Context, gt domain.GameType, d domain.Difficulty, limit int) ([]*domain.LedgerEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT l.user_id, u.username, l.game_type, l.difficulty, l.high_score, l.updated_at
		 FROM leaderboard l JOIN users u ON u.id = l.user_id
		 WHERE l.game_type = $1 AND l.difficulty = $2
		 ORDER BY l.high_score DESC, l.updated_at ASC
		 LIMIT $3`,
		gt, d, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLedger(rows)
}

// все лучшие результаты пользователя
func (s *PgStore) UserLedger(ctx context.Context, userID int64) ([]*domain.LedgerEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT l.user_id, u.username, l.game_type, l.difficulty, l.high_score, l.updated_at
		 FROM leaderboard l JOIN users u ON u.id = l.user_id
		 WHERE l.user_id = $1
		 ORDER BY l.game_type, l.difficulty`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLedger(rows)
}

func scanLedger(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var out []*domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.GameType, &e.Difficulty, &e.HighScore, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// постоянная запись истории игр
func (s *PgStore) CreateGameRecord(ctx context.Context, rec *domain.GameRecord) error {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return err
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO game_history (user_id, game_type, difficulty, outcome, score, xp_earned, duration_sec, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rec.UserID, rec.GameType, rec.Difficulty, rec.Outcome, rec.Score, rec.XPEarned,
		rec.Duration, details, rec.CreatedAt,
	).Scan(&rec.ID)
}

func (s *PgStore) RecentGames(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, game_type, difficulty, outcome, score, xp_earned, duration_sec, details, created_at
		 FROM game_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.GameRecord
	for rows.Next() {
		var rec domain.GameRecord
		var details []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.GameType, &rec.Difficulty, &rec.Outcome,
			&rec.Score, &rec.XPEarned, &rec.Duration, &details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &rec.Details)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (s *PgStore) CreateAuditLog(ctx context.Context, log *domain.AuditLog) error {
	details, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO audit_logs (user_id, action, category, details)
		 VALUES ($1, $2, $3, $4)`,
		log.UserID, log.Action, log.Category, details,
	)
	return err
}

// InTx выполняет fn в транзакции Postgres: вложенные обращения идут
// через pgx.Tx, откат при любой ошибке
func (s *PgStore) InTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PgStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
