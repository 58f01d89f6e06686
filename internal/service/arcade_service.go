package service

import (
	"context"
	"errors"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"
	"arcadehub/internal/token"

	"github.com/google/uuid"
)

var (
	ErrBadSessionToken = errors.New("невалидный токен сессии")
	ErrNotCommitted    = errors.New("результат ещё не закоммичен")
)

// состояние аркадной сессии: до коммита пустое, после - зафиксированная
// заявка с квитанцией. Квитанция пересчитывается и сверяется при финише.
type arcadeState struct {
	Committed   bool             `json:"committed"`
	Claim       game.ArcadeClaim `json:"claim,omitempty"`
	CommittedAt int64            `json:"committed_at,omitempty"`
	Receipt     string           `json:"receipt,omitempty"`
}

// ArcadeStartView - токен выдаётся один раз при старте и обязателен
// для коммита результата
type ArcadeStartView struct {
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
}

// ArcadeCommitView - подтверждение принятого результата
type ArcadeCommitView struct {
	SessionID string `json:"session_id"`
	Score     int64  `json:"score"`
	Stage     int    `json:"stage"`
	Receipt   string `json:"receipt"`
}

// ArcadeService ведёт игры без посерверной валидации ходов: змейка,
// пакман, арканоид, раннер. Клиент играет локально и коммитит итог,
// сервер принимает только то, что проходит детерминированные пороги.
type ArcadeService struct {
	sessions *SessionService
	signer   *token.Signer
}

func NewArcadeService(sessions *SessionService, signer *token.Signer) *ArcadeService {
	return &ArcadeService{sessions: sessions, signer: signer}
}

// Start создаёт сессию и выпускает подписанный токен
func (s *ArcadeService) Start(ctx context.Context, ownerID int64, gt domain.GameType, difficulty domain.Difficulty) (*ArcadeStartView, error) {
	if _, ok := game.BoundsFor(gt); !ok {
		return nil, ErrBadGameType
	}

	raw, err := domain.EncodeState(&arcadeState{})
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		GameType:   gt,
		Difficulty: difficulty,
		Phase:      domain.PhaseActive,
		State:      raw,
		StartedAt:  s.sessions.Now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &ArcadeStartView{
		SessionID:    sess.ID,
		SessionToken: s.signer.SessionToken(sess.ID, ownerID, sess.StartedAt),
	}, nil
}

// Commit принимает заявленный результат. Подпись токена сверяется с
// сохранёнными owner/startedAt, заявка прогоняется через пороги игры.
// Повторный коммит в ту же сессию отклоняется: токен одноразовый.
func (s *ArcadeService) Commit(ctx context.Context, ownerID int64, sessionToken string, claim game.ArcadeClaim) (*ArcadeCommitView, error) {
	sid, ok := token.TokenSessionID(sessionToken)
	if !ok {
		return nil, ErrBadSessionToken
	}
	sess, err := s.sessions.LoadOwned(ctx, sid, ownerID)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}
	// подпись проверяется против сохранённых значений, не присланных
	if _, ok := s.signer.VerifySessionToken(sessionToken, sess.OwnerID, sess.StartedAt); !ok {
		return nil, ErrBadSessionToken
	}

	var state arcadeState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}
	if state.Committed {
		return nil, s.sessions.RejectClaim(ctx, sess, &game.Violation{
			Check:  "token_reuse",
			Reason: "повторный коммит в уже закоммиченную сессию",
		})
	}

	profile, ok := game.BoundsFor(sess.GameType)
	if !ok {
		return nil, ErrBadGameType
	}
	now := s.sessions.Now()
	if v := profile.CheckClaim(sess.StartedAt, now, claim); v != nil {
		return nil, s.sessions.RejectClaim(ctx, sess, v)
	}

	state = arcadeState{
		Committed:   true,
		Claim:       claim,
		CommittedAt: now.Unix(),
		Receipt:     s.signer.Receipt(sess.ID, claim.Score, claim.Stage, now),
	}
	if err := s.sessions.SaveState(ctx, sess, &state); err != nil {
		return nil, err
	}
	return &ArcadeCommitView{
		SessionID: sess.ID,
		Score:     claim.Score,
		Stage:     claim.Stage,
		Receipt:   state.Receipt,
	}, nil
}

// Finish финализирует ранее закоммиченный результат. Счёт и опыт
// считаются только из сохранённого коммита, присланные клиентом значения
// на этом шаге не принимаются.
func (s *ArcadeService) Finish(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := game.BoundsFor(sess.GameType); !ok {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var state arcadeState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}
	if !state.Committed {
		return nil, ErrNotCommitted
	}
	// квитанция защищает коммит от подмены в хранилище между шагами
	committedAt := time.Unix(state.CommittedAt, 0)
	if !s.signer.VerifyReceipt(state.Receipt, sess.ID, state.Claim.Score, state.Claim.Stage, committedAt) {
		return nil, s.sessions.RejectClaim(ctx, sess, &game.Violation{
			Check:  "receipt",
			Reason: "квитанция не сходится с сохранённым коммитом",
		})
	}

	xp := game.ArcadeXP(sess.GameType, sess.Difficulty, state.Claim.Units)
	return s.sessions.Finalize(ctx, sess, domain.OutcomeCompleted, state.Claim.Score, xp, map[string]any{
		"stage":    state.Claim.Stage,
		"units":    state.Claim.Units,
		"duration": state.Claim.Duration,
	})
}

// Result - read-only эхо сохранённого результата
func (s *ArcadeService) Result(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	return s.sessions.Result(ctx, sessionID, ownerID)
}
