package game

import (
	"math/rand"
	"testing"

	"arcadehub/internal/domain"
)

func TestNewMemoryGameDeck(t *testing.T) {
	g := NewMemoryGame(6, rand.New(rand.NewSource(3)))
	if len(g.Deck) != 12 {
		t.Fatalf("колода из %d карт, ожидалось 12", len(g.Deck))
	}
	counts := map[int]int{}
	for _, v := range g.Deck {
		counts[v]++
	}
	for v, n := range counts {
		if n != 2 {
			t.Fatalf("значение %d встречается %d раз, ожидалось 2", v, n)
		}
	}
	if g.Open != -1 {
		t.Fatalf("Open = %d у новой игры, ожидалось -1", g.Open)
	}
}

// собирает колоду целиком, зная её раскладку
func solveMemory(t *testing.T, g *MemoryGame) {
	t.Helper()
	byValue := map[int][]int{}
	for i, v := range g.Deck {
		byValue[v] = append(byValue[v], i)
	}
	for _, idxs := range byValue {
		if _, _, _, err := g.Flip(idxs[0]); err != nil {
			t.Fatalf("первый флип %d: %v", idxs[0], err)
		}
		_, matched, _, err := g.Flip(idxs[1])
		if err != nil {
			t.Fatalf("второй флип %d: %v", idxs[1], err)
		}
		if !matched {
			t.Fatalf("пара (%d, %d) не совпала", idxs[0], idxs[1])
		}
	}
}

func TestMemoryGamePlaythrough(t *testing.T) {
	g := NewMemoryGame(MemoryPairs(domain.DifficultyEasy), rand.New(rand.NewSource(9)))
	solveMemory(t, g)

	if !g.Completed() {
		t.Fatal("игра должна быть завершена")
	}
	if g.MatchedPairs() != 6 {
		t.Fatalf("MatchedPairs = %d, ожидалось 6", g.MatchedPairs())
	}
	if g.Moves != 6 {
		t.Fatalf("Moves = %d, ожидалось 6", g.Moves)
	}
	if _, _, _, err := g.Flip(0); err != ErrGameCompleted {
		t.Fatalf("флип после завершения: err = %v, ожидался ErrGameCompleted", err)
	}
}

func TestMemoryGameMismatchClosesBoth(t *testing.T) {
	g := &MemoryGame{
		Deck:    []int{0, 1, 0, 1},
		Matched: make([]bool, 4),
		Open:    -1,
	}
	if _, _, _, err := g.Flip(0); err != nil {
		t.Fatalf("флип 0: %v", err)
	}
	_, matched, _, err := g.Flip(1)
	if err != nil {
		t.Fatalf("флип 1: %v", err)
	}
	if matched {
		t.Fatal("разные значения не должны совпадать")
	}
	if g.Open != -1 {
		t.Fatalf("Open = %d после несовпавшего хода, ожидалось -1", g.Open)
	}
	if g.Moves != 1 {
		t.Fatalf("Moves = %d, ожидалось 1", g.Moves)
	}
}

func TestMemoryGameFlipValidation(t *testing.T) {
	g := &MemoryGame{
		Deck:    []int{0, 1, 0, 1},
		Matched: []bool{false, false, false, false},
		Open:    -1,
	}
	if _, _, _, err := g.Flip(4); err != ErrCardOutOfDeck {
		t.Fatalf("индекс за колодой: err = %v", err)
	}
	if _, _, _, err := g.Flip(0); err != nil {
		t.Fatalf("флип 0: %v", err)
	}
	if _, _, _, err := g.Flip(0); err != ErrCardAlreadyOpen {
		t.Fatalf("повторный флип открытой: err = %v", err)
	}

	g.Matched[1] = true
	if _, _, _, err := g.Flip(1); err != ErrCardMatched {
		t.Fatalf("флип собранной: err = %v", err)
	}
}
