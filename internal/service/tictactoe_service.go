package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"

	"github.com/google/uuid"
)

var (
	ErrGameOver    = errors.New("игра уже завершена")
	ErrBadGameType = errors.New("сессия другой игры")
)

// серверное состояние партии крестиков-ноликов. Игрок всегда X и ходит
// первым, сервер играет за O.
type tttState struct {
	Board  game.Board `json:"board"`
	Done   bool       `json:"done"`
	Winner byte       `json:"winner"` // MarkX/MarkO/MarkDraw, 0 пока игра идёт
}

// TicTacToeView - состояние, безопасное для клиента
type TicTacToeView struct {
	SessionID string     `json:"session_id"`
	Board     game.Board `json:"board"`
	AIMove    int        `json:"ai_move"` // -1 если сервер не ходил
	Done      bool       `json:"done"`
	Winner    string     `json:"winner,omitempty"`
}

// TicTacToeService владеет партиями против серверного ИИ
type TicTacToeService struct {
	sessions *SessionService
	rngMu    sync.Mutex
	rng      *rand.Rand
}

func NewTicTacToeService(sessions *SessionService) *TicTacToeService {
	return &TicTacToeService{
		sessions: sessions,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand подменяет источник случайности (только тесты)
func (s *TicTacToeService) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Start создает партию. Доска пустая, ход за игроком.
func (s *TicTacToeService) Start(ctx context.Context, ownerID int64, difficulty domain.Difficulty) (*TicTacToeView, error) {
	state := tttState{}
	raw, err := domain.EncodeState(&state)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		GameType:   domain.GameTicTacToe,
		Difficulty: difficulty,
		Phase:      domain.PhaseActive,
		State:      raw,
		StartedAt:  s.sessions.Now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &TicTacToeView{SessionID: sess.ID, Board: state.Board, AIMove: -1}, nil
}

// Move применяет ход игрока и, если партия не кончилась, отвечает ходом
// ИИ. Терминальное состояние запоминается в сессии, финализ отдельным
// вызовом Finish.
func (s *TicTacToeService) Move(ctx context.Context, ownerID int64, sessionID string, cell int) (*TicTacToeView, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameTicTacToe {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var state tttState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}
	if state.Done {
		return nil, ErrGameOver
	}

	board, err := state.Board.ApplyMove(cell, game.MarkX)
	if err != nil {
		return nil, err
	}
	state.Board = board

	aiMove := -1
	if w := board.Winner(); w != 0 {
		state.Done, state.Winner = true, w
	} else {
		s.rngMu.Lock()
		ai := game.NewTicTacToeAI(game.MarkO, sess.Difficulty, s.rng)
		aiMove = ai.PickMove(board)
		s.rngMu.Unlock()

		board, err = board.ApplyMove(aiMove, game.MarkO)
		if err != nil {
			return nil, err
		}
		state.Board = board
		if w := board.Winner(); w != 0 {
			state.Done, state.Winner = true, w
		}
	}

	if err := s.sessions.SaveState(ctx, sess, &state); err != nil {
		return nil, err
	}
	return s.view(sess.ID, &state, aiMove), nil
}

// Finish финализирует завершённую партию: исход выводится из серверного
// состояния, клиентские данные не участвуют
func (s *TicTacToeService) Finish(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameTicTacToe {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var state tttState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}
	if !state.Done {
		return nil, ErrGameNotOver
	}

	outcome := tttOutcome(state.Winner)
	score, xp := game.TicTacToeScore(outcome, sess.Difficulty)
	return s.sessions.Finalize(ctx, sess, outcome, score, xp, map[string]any{
		"board":  state.Board,
		"winner": string(state.Winner),
	})
}

// Result - read-only эхо сохранённого результата
func (s *TicTacToeService) Result(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	return s.sessions.Result(ctx, sessionID, ownerID)
}

func tttOutcome(winner byte) domain.GameOutcome {
	switch winner {
	case game.MarkX:
		return domain.OutcomeWin
	case game.MarkO:
		return domain.OutcomeLose
	default:
		return domain.OutcomeDraw
	}
}

func (s *TicTacToeService) view(id string, state *tttState, aiMove int) *TicTacToeView {
	v := &TicTacToeView{SessionID: id, Board: state.Board, AIMove: aiMove, Done: state.Done}
	if state.Winner != 0 {
		v.Winner = string(state.Winner)
	}
	return v
}
