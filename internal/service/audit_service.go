package service

import (
	"context"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"
	"arcadehub/internal/logger"
	"arcadehub/internal/storage"
)

// обрабатывает логирование аудита
type AuditService struct {
	store storage.Store
}

// создает новый сервис аудита
func NewAuditService(store storage.Store) *AuditService {
	return &AuditService{store: store}
}

// создает новую запись в журнале аудита
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]any) {
	entry := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}
	if err := s.store.CreateAuditLog(ctx, entry); err != nil {
		logger.Error("не удалось создать запись аудита", "error", err, "action", action, "user_id", userID)
	}
}

// логирует вход пользователя
func (s *AuditService) LogLogin(ctx context.Context, userID int64) {
	s.Log(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, nil)
}

// логирует старт игровой сессии
func (s *AuditService) LogGameStart(ctx context.Context, userID int64, sess *domain.Session) {
	s.Log(ctx, userID, domain.AuditActionGameStart, domain.AuditCategoryGame, map[string]any{
		"session_id": sess.ID,
		"game_type":  sess.GameType,
		"difficulty": sess.Difficulty,
	})
}

// логирует успешный финализ
func (s *AuditService) LogFinalize(ctx context.Context, userID int64, sess *domain.Session, out *FinalizeOutcome, outcome domain.GameOutcome) {
	s.Log(ctx, userID, domain.AuditActionGameFinalize, domain.AuditCategoryGame, map[string]any{
		"session_id": sess.ID,
		"game_type":  sess.GameType,
		"difficulty": sess.Difficulty,
		"outcome":    outcome,
		"score":      out.Score,
		"xp_earned":  out.XPEarned,
		"total_xp":   out.NewTotalXP,
	})
}

// логирует повторный финализ (проигравший гонки или дубликат запроса)
func (s *AuditService) LogDuplicateFinalize(ctx context.Context, userID int64, sessionID string) {
	s.Log(ctx, userID, domain.AuditActionGameDupFinal, domain.AuditCategoryGame, map[string]any{
		"session_id": sessionID,
	})
}

// логирует отклонённую анти-читом заявку. Единственное место где
// сохраняется конкретная причина нарушения.
func (s *AuditService) LogCheatRejected(ctx context.Context, userID int64, sessionID string, v *game.Violation) {
	s.Log(ctx, userID, domain.AuditActionCheatRejected, domain.AuditCategoryGame, map[string]any{
		"session_id": sessionID,
		"check":      v.Check,
		"reason":     v.Reason,
	})
}
