package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"
)

// проигрывает партию на hard до терминального состояния, возвращая id
// сессии. ИИ на hard не проигрывает, поэтому исход - ничья или поражение.
func playTicTacToe(t *testing.T, svc *TicTacToeService, ownerID int64) (string, string) {
	t.Helper()
	ctx := context.Background()

	view, err := svc.Start(ctx, ownerID, domain.DifficultyHard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for !view.Done {
		moved := false
		for cell := 0; cell < 9; cell++ {
			if view.Board[cell] != 0 {
				continue
			}
			view, err = svc.Move(ctx, ownerID, view.SessionID, cell)
			if err != nil {
				t.Fatalf("Move в %d: %v", cell, err)
			}
			moved = true
			break
		}
		if !moved {
			t.Fatal("нет свободных клеток при незавершённой партии")
		}
	}
	return view.SessionID, view.Winner
}

func TestTicTacToeFullGame(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewTicTacToeService(sessions)
	svc.SetRand(rand.New(rand.NewSource(11)))
	ctx := context.Background()

	sessionID, winner := playTicTacToe(t, svc, user.ID)
	if winner == string(game.MarkX) {
		t.Fatal("ИИ на hard не должен проигрывать")
	}

	out, err := svc.Finish(ctx, user.ID, sessionID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	// счёт соответствует таблице исходов для hard
	outcome := domain.OutcomeDraw
	if winner == string(game.MarkO) {
		outcome = domain.OutcomeLose
	}
	wantScore, wantXP := game.TicTacToeScore(outcome, domain.DifficultyHard)
	if out.Score != wantScore || out.XPEarned != wantXP {
		t.Fatalf("Finish = (%d, %d), таблица даёт (%d, %d)", out.Score, out.XPEarned, wantScore, wantXP)
	}

	// повторный финиш отклоняется
	if _, err := svc.Finish(ctx, user.ID, sessionID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("повторный Finish: err = %v", err)
	}

	// результат читается сколько угодно раз
	res, err := svc.Result(ctx, user.ID, sessionID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Score != out.Score || res.XPEarned != out.XPEarned {
		t.Fatalf("Result = %+v, Finish = %+v", res, out)
	}
}

func TestTicTacToeFinishBeforeGameOver(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewTicTacToeService(sessions)
	ctx := context.Background()

	view, err := svc.Start(ctx, user.ID, domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Finish(ctx, user.ID, view.SessionID); !errors.Is(err, ErrGameNotOver) {
		t.Fatalf("Finish незавершённой партии: err = %v", err)
	}
}

func TestTicTacToeMoveValidation(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewTicTacToeService(sessions)
	svc.SetRand(rand.New(rand.NewSource(5)))
	ctx := context.Background()

	view, err := svc.Start(ctx, user.ID, domain.DifficultyHard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	view, err = svc.Move(ctx, user.ID, view.SessionID, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	// повторный ход в занятую клетку
	if _, err := svc.Move(ctx, user.ID, view.SessionID, 0); !errors.Is(err, game.ErrCellOccupied) {
		t.Fatalf("ход в занятую клетку: err = %v", err)
	}
	// ход вне доски
	if _, err := svc.Move(ctx, user.ID, view.SessionID, 9); !errors.Is(err, game.ErrCellOutOfGrid) {
		t.Fatalf("ход вне доски: err = %v", err)
	}
	// чужая сессия
	if _, err := svc.Move(ctx, 999, view.SessionID, 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("чужая сессия: err = %v", err)
	}
}
