package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"

	"github.com/google/uuid"
)

// MemoryView - ответ на флип, колода целиком клиенту не уходит
type MemoryView struct {
	SessionID    string `json:"session_id"`
	DeckSize     int    `json:"deck_size"`
	Value        int    `json:"value"`   // значение открытой карты
	Matched      bool   `json:"matched"` // пара собралась этим флипом
	MatchedPairs int    `json:"matched_pairs"`
	Moves        int    `json:"moves"`
	Completed    bool   `json:"completed"`
}

// MemoryService владеет сессиями "мемори" с серверной валидацией флипов
type MemoryService struct {
	sessions *SessionService
	rngMu    sync.Mutex
	rng      *rand.Rand
}

func NewMemoryService(sessions *SessionService) *MemoryService {
	return &MemoryService{
		sessions: sessions,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand подменяет источник случайности (только тесты)
func (s *MemoryService) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Start создает сессию с перетасованной серверной колодой
func (s *MemoryService) Start(ctx context.Context, ownerID int64, difficulty domain.Difficulty) (*MemoryView, error) {
	s.rngMu.Lock()
	deck := game.NewMemoryGame(game.MemoryPairs(difficulty), s.rng)
	s.rngMu.Unlock()

	raw, err := domain.EncodeState(deck)
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		GameType:   domain.GameMemory,
		Difficulty: difficulty,
		Phase:      domain.PhaseActive,
		State:      raw,
		StartedAt:  s.sessions.Now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &MemoryView{SessionID: sess.ID, DeckSize: len(deck.Deck), Value: -1}, nil
}

// Flip валидирует и применяет открытие карты на серверном состоянии
func (s *MemoryService) Flip(ctx context.Context, ownerID int64, sessionID string, card int) (*MemoryView, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameMemory {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var g game.MemoryGame
	if err := sess.DecodeState(&g); err != nil {
		return nil, err
	}

	value, matched, completed, err := g.Flip(card)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveState(ctx, sess, &g); err != nil {
		return nil, err
	}

	return &MemoryView{
		SessionID:    sess.ID,
		DeckSize:     len(g.Deck),
		Value:        value,
		Matched:      matched,
		MatchedPairs: g.MatchedPairs(),
		Moves:        g.Moves,
		Completed:    completed,
	}, nil
}

// Finish финализирует собранную колоду. Длительность берётся из
// серверных часов, не из заявки клиента.
func (s *MemoryService) Finish(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameMemory {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var g game.MemoryGame
	if err := sess.DecodeState(&g); err != nil {
		return nil, err
	}
	if !g.Completed() {
		return nil, ErrGameNotOver
	}

	duration := s.sessions.Now().Sub(sess.StartedAt)
	score, xp := game.MemoryScore(sess.Difficulty, g.MatchedPairs(), g.Moves, duration)
	return s.sessions.Finalize(ctx, sess, domain.OutcomeCompleted, score, xp, map[string]any{
		"pairs": g.MatchedPairs(),
		"moves": g.Moves,
		"par":   game.MemoryPar(sess.Difficulty),
	})
}

// Result - read-only эхо сохранённого результата
func (s *MemoryService) Result(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	return s.sessions.Result(ctx, sessionID, ownerID)
}
