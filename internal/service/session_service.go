package service

import (
	"context"
	"errors"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"
	"arcadehub/internal/logger"
	"arcadehub/internal/metrics"
	"arcadehub/internal/storage"
)

var (
	ErrSessionNotFound  = errors.New("сессия не найдена")
	ErrNotOwner         = errors.New("сессия принадлежит другому пользователю")
	ErrAlreadyFinalized = errors.New("сессия уже финализирована")
	ErrNotFinalized     = errors.New("сессия ещё не финализирована")
	ErrGameNotOver      = errors.New("игра ещё не завершена")
	// единый ответ на любую анти-чит проверку: конкретный порог не раскрываем
	ErrInvalidClaim = errors.New("invalid claim")
)

// сессии старше TTL не финализируются и чистятся при старте новой
const SessionTTL = 2 * time.Hour

// FinalizeOutcome - авторитетный результат финализа
type FinalizeOutcome struct {
	Score      int64  `json:"score"`
	XPEarned   int64  `json:"xp_earned"`
	NewTotalXP int64  `json:"total_xp"`
	NewRank    string `json:"rank"`
}

// SessionService владеет жизненным циклом сессий и протоколом
// финализа-однажды. Часы инъектируются для детерминированных тестов.
type SessionService struct {
	store storage.Store
	audit *AuditService
	now   func() time.Time
}

func NewSessionService(store storage.Store, audit *AuditService) *SessionService {
	return &SessionService{store: store, audit: audit, now: time.Now}
}

// SetClock подменяет источник времени (только тесты)
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SessionService) Now() time.Time {
	return s.now()
}

// Create заводит запись новой сессии и попутно чистит протухшие сессии
// владельца. Ошибка чистки не фатальна и не блокирует старт.
func (s *SessionService) Create(ctx context.Context, sess *domain.Session) error {
	if err := s.store.DeleteExpiredSessions(ctx, sess.OwnerID, s.now().Add(-SessionTTL)); err != nil {
		logger.Warn("не удалось почистить протухшие сессии", "error", err, "user_id", sess.OwnerID)
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return err
	}
	metrics.SessionsStarted.WithLabelValues(string(sess.GameType)).Inc()
	s.audit.LogGameStart(ctx, sess.OwnerID, sess)
	return nil
}

// LoadOwned читает сессию и проверяет владельца. Чужая сессия -
// нарушение безопасности, не пользовательская ошибка.
func (s *SessionService) LoadOwned(ctx context.Context, id string, ownerID int64) (*domain.Session, error) {
	sess, err := s.store.ReadSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return sess, nil
}

// SaveState перезаписывает payload активной сессии (last-writer-wins,
// единственный активный клиент гарантирован проверкой владельца)
func (s *SessionService) SaveState(ctx context.Context, sess *domain.Session, state any) error {
	raw, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	sess.State = raw
	return s.store.UpdateSessionState(ctx, sess.ID, raw)
}

// Finalize фиксирует результат ровно один раз. CAS и все побочные записи
// (история, лидерборд, опыт, ранг) выполняются одной атомарной единицей:
// любая ошибка откатывает всё, сессия остаётся активной и повторяемой.
func (s *SessionService) Finalize(ctx context.Context, sess *domain.Session, outcome domain.GameOutcome, score, xp int64, details map[string]any) (*FinalizeOutcome, error) {
	now := s.now()
	var out FinalizeOutcome

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		rows, err := tx.ConditionalFinalize(ctx, sess.ID, sess.OwnerID, score, xp, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// проигравший гонки: легитимный первый вызов уже всё записал
			return ErrAlreadyFinalized
		}

		rec := &domain.GameRecord{
			UserID:     sess.OwnerID,
			GameType:   sess.GameType,
			Difficulty: sess.Difficulty,
			Outcome:    outcome,
			Score:      score,
			XPEarned:   xp,
			Duration:   int64(now.Sub(sess.StartedAt).Seconds()),
			Details:    details,
			CreatedAt:  now,
		}
		if err := tx.CreateGameRecord(ctx, rec); err != nil {
			return err
		}
		if err := tx.UpsertLedgerIfHigher(ctx, sess.OwnerID, sess.GameType, sess.Difficulty, score, now); err != nil {
			return err
		}
		total, err := tx.IncrementUserXP(ctx, sess.OwnerID, xp)
		if err != nil {
			return err
		}
		rank := game.Rank(total)
		if err := tx.SetUserRank(ctx, sess.OwnerID, rank); err != nil {
			return err
		}

		out = FinalizeOutcome{Score: score, XPEarned: xp, NewTotalXP: total, NewRank: rank}
		return nil
	})

	if errors.Is(err, ErrAlreadyFinalized) {
		metrics.DuplicateFinalizes.WithLabelValues(string(sess.GameType)).Inc()
		s.audit.LogDuplicateFinalize(ctx, sess.OwnerID, sess.ID)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	metrics.SessionsFinalized.WithLabelValues(string(sess.GameType)).Inc()
	s.audit.LogFinalize(ctx, sess.OwnerID, sess, &out, outcome)
	return &out, nil
}

// RejectClaim оформляет провал анти-чит проверки: причина только в аудит
// и метрики, клиенту уходит общий ErrInvalidClaim. Сессия не тронута.
func (s *SessionService) RejectClaim(ctx context.Context, sess *domain.Session, v *game.Violation) error {
	metrics.CheatRejections.WithLabelValues(string(sess.GameType)).Inc()
	s.audit.LogCheatRejected(ctx, sess.OwnerID, sess.ID, v)
	return ErrInvalidClaim
}

// Result - read-only чтение результата: никогда ничего не пересчитывает,
// только эхо сохранённых score/xp
func (s *SessionService) Result(ctx context.Context, id string, ownerID int64) (*FinalizeOutcome, error) {
	sess, err := s.LoadOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseFinalized || sess.Score == nil || sess.XPEarned == nil {
		return nil, ErrNotFinalized
	}

	user, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &FinalizeOutcome{
		Score:      *sess.Score,
		XPEarned:   *sess.XPEarned,
		NewTotalXP: user.XP,
		NewRank:    user.Rank,
	}, nil
}
