package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"
)

func TestMemoryFullGame(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewMemoryService(sessions)
	svc.SetRand(rand.New(rand.NewSource(21)))
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions.SetClock(func() time.Time { return base })

	view, err := svc.Start(ctx, user.ID, domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.DeckSize != 12 {
		t.Fatalf("DeckSize = %d, ожидалось 12", view.DeckSize)
	}

	// раскладка восстанавливается тем же сидом, что и у сервиса
	reference := game.NewMemoryGame(game.MemoryPairs(domain.DifficultyEasy), rand.New(rand.NewSource(21)))
	byValue := map[int][]int{}
	for i, v := range reference.Deck {
		byValue[v] = append(byValue[v], i)
	}

	var last *MemoryView
	for _, idxs := range byValue {
		if _, err := svc.Flip(ctx, user.ID, view.SessionID, idxs[0]); err != nil {
			t.Fatalf("Flip первой карты: %v", err)
		}
		last, err = svc.Flip(ctx, user.ID, view.SessionID, idxs[1])
		if err != nil {
			t.Fatalf("Flip второй карты: %v", err)
		}
		if !last.Matched {
			t.Fatal("известная пара не совпала: раскладки разошлись")
		}
	}
	if !last.Completed {
		t.Fatal("игра должна быть завершена")
	}

	// финиш через 50 секунд: 6 ходов в пар, скоростной бонус действует
	sessions.SetClock(func() time.Time { return base.Add(50 * time.Second) })
	out, err := svc.Finish(ctx, user.ID, view.SessionID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	wantScore, wantXP := game.MemoryScore(domain.DifficultyEasy, 6, 6, 50*time.Second)
	if out.Score != wantScore || out.XPEarned != wantXP {
		t.Fatalf("Finish = (%d, %d), ожидалось (%d, %d)", out.Score, out.XPEarned, wantScore, wantXP)
	}

	if _, err := svc.Finish(ctx, user.ID, view.SessionID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("повторный Finish: err = %v", err)
	}
}

func TestMemoryFinishIncomplete(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewMemoryService(sessions)
	ctx := context.Background()

	view, err := svc.Start(ctx, user.ID, domain.DifficultyMedium)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Finish(ctx, user.ID, view.SessionID); !errors.Is(err, ErrGameNotOver) {
		t.Fatalf("Finish несобранной колоды: err = %v", err)
	}
}

func TestMemoryFlipValidation(t *testing.T) {
	_, sessions, user := newTestEnv(t)
	svc := NewMemoryService(sessions)
	svc.SetRand(rand.New(rand.NewSource(2)))
	ctx := context.Background()

	view, err := svc.Start(ctx, user.ID, domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Flip(ctx, user.ID, view.SessionID, 99); !errors.Is(err, game.ErrCardOutOfDeck) {
		t.Fatalf("флип вне колоды: err = %v", err)
	}
	if _, err := svc.Flip(ctx, user.ID, view.SessionID, 0); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if _, err := svc.Flip(ctx, user.ID, view.SessionID, 0); !errors.Is(err, game.ErrCardAlreadyOpen) {
		t.Fatalf("повторный флип открытой: err = %v", err)
	}
}
