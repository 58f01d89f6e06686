package game

import (
	"testing"
	"time"

	"arcadehub/internal/domain"
)

func TestTicTacToeScoreTable(t *testing.T) {
	cases := []struct {
		outcome domain.GameOutcome
		d       domain.Difficulty
		score   int64
		xp      int64
	}{
		{domain.OutcomeWin, domain.DifficultyEasy, 100, 50},
		{domain.OutcomeWin, domain.DifficultyHard, 500, 250},
		{domain.OutcomeDraw, domain.DifficultyMedium, 60, 45},
		{domain.OutcomeLose, domain.DifficultyEasy, 0, 5},
		{domain.OutcomeLose, domain.DifficultyHard, 0, 15},
	}
	for _, tc := range cases {
		score, xp := TicTacToeScore(tc.outcome, tc.d)
		if score != tc.score || xp != tc.xp {
			t.Errorf("%s/%s: (%d, %d), ожидалось (%d, %d)",
				tc.outcome, tc.d, score, xp, tc.score, tc.xp)
		}
	}
}

func TestMemoryScoreBonuses(t *testing.T) {
	// в пар, быстро: база + бонус эффективности + скоростной
	score, xp := MemoryScore(domain.DifficultyEasy, 6, 10, 50*time.Second)
	wantScore := int64(6*20) + int64(6*20)/4
	if score != wantScore {
		t.Fatalf("score = %d, ожидалось %d", score, wantScore)
	}
	if xp != 40+20+15 {
		t.Fatalf("xp = %d, ожидалось %d", xp, 40+20+15)
	}

	// сверх пара, медленно: только база
	score, xp = MemoryScore(domain.DifficultyEasy, 6, 11, 61*time.Second)
	if score != 120 || xp != 40 {
		t.Fatalf("без бонусов: (%d, %d), ожидалось (120, 40)", score, xp)
	}
}

func TestWordSearchScoreAllFound(t *testing.T) {
	// все слова, быстро
	score, xp := WordSearchScore(domain.DifficultyMedium, 6, 6, 100*time.Second)
	if score != 240 {
		t.Fatalf("score = %d, ожидалось 240", score)
	}
	if xp != 6*20+60+35 {
		t.Fatalf("xp = %d, ожидалось %d", xp, 6*20+60+35)
	}

	// не все слова: без бонусов, даже если быстро
	_, xp = WordSearchScore(domain.DifficultyMedium, 5, 6, 100*time.Second)
	if xp != 100 {
		t.Fatalf("xp = %d, ожидалось 100", xp)
	}

	// пустая сетка не даёт бонуса полного прохождения
	score, xp = WordSearchScore(domain.DifficultyMedium, 0, 0, time.Second)
	if score != 0 || xp != 0 {
		t.Fatalf("пустая сетка: (%d, %d), ожидалось (0, 0)", score, xp)
	}
}

func TestArcadeXPClamped(t *testing.T) {
	// snake hard: 2.0 * units * 2.0
	if got := ArcadeXP(domain.GameSnake, domain.DifficultyHard, 100); got != 400 {
		t.Fatalf("ArcadeXP = %d, ожидалось 400", got)
	}
	// формула выше потолка обрезается
	if got := ArcadeXP(domain.GameSnake, domain.DifficultyHard, 1000000); got != MaxSessionXP {
		t.Fatalf("ArcadeXP = %d, ожидался потолок %d", got, MaxSessionXP)
	}
	// неизвестная игра не даёт опыта
	if got := ArcadeXP(domain.GameTicTacToe, domain.DifficultyHard, 100); got != 0 {
		t.Fatalf("ArcadeXP для неаркадной игры = %d, ожидалось 0", got)
	}
}

func TestRankThresholds(t *testing.T) {
	cases := []struct {
		xp   int64
		rank string
	}{
		{0, "bronze"},
		{999, "bronze"},
		{1000, "silver"},
		{4999, "silver"},
		{5000, "gold"},
		{14999, "gold"},
		{15000, "diamond"},
		{1000000, "diamond"},
	}
	for _, tc := range cases {
		if got := Rank(tc.xp); got != tc.rank {
			t.Errorf("Rank(%d) = %s, ожидался %s", tc.xp, got, tc.rank)
		}
	}
}

// Rank и XPToNextTier обязаны сходиться на одних границах
func TestRankProgressAgreement(t *testing.T) {
	for _, xp := range []int64{0, 500, 999, 1000, 4999, 5000, 14999, 15000, 20000} {
		left := XPToNextTier(xp)
		if left == 0 {
			if Rank(xp) != "diamond" {
				t.Errorf("XPToNextTier(%d) = 0 не на высшем ранге", xp)
			}
			continue
		}
		// через left опыта ранг обязан смениться
		if Rank(xp) == Rank(xp+left) {
			t.Errorf("Rank(%d) == Rank(%d), границы расходятся", xp, xp+left)
		}
		if Rank(xp) != Rank(xp+left-1) {
			t.Errorf("Rank(%d) != Rank(%d), ранг сменился раньше границы", xp, xp+left-1)
		}
	}

	if p := TierProgress(20000); p != 1.0 {
		t.Errorf("TierProgress на высшем ранге = %v, ожидалось 1.0", p)
	}
	if p := TierProgress(0); p != 0.0 {
		t.Errorf("TierProgress(0) = %v, ожидалось 0.0", p)
	}
}
