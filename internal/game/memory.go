package game

import (
	"errors"
	"math/rand"

	"arcadehub/internal/domain"
)

var (
	ErrCardOutOfDeck   = errors.New("неверный индекс карты")
	ErrCardMatched     = errors.New("карта уже собрана")
	ErrCardAlreadyOpen = errors.New("карта уже открыта")
	ErrGameCompleted   = errors.New("все пары уже собраны")
)

// количество пар по сложности
var memoryPairs = map[domain.Difficulty]int{
	domain.DifficultyEasy:   6,
	domain.DifficultyMedium: 10,
	domain.DifficultyHard:   15,
}

// MemoryPairs возвращает размер колоды (в парах) для сложности
func MemoryPairs(d domain.Difficulty) int {
	return memoryPairs[d]
}

// MemoryGame - серверное состояние "мемори". Колода никогда целиком не
// отдаётся клиенту: сервер раскрывает по одной карте на флип.
type MemoryGame struct {
	Deck    []int  `json:"deck"`    // значения карт, каждое встречается дважды
	Matched []bool `json:"matched"` // собранные карты
	Open    int    `json:"open"`    // открытая карта текущего хода, -1 если нет
	Moves   int    `json:"moves"`   // завершённые пары флипов
}

// NewMemoryGame создает перетасованную колоду из pairs пар
func NewMemoryGame(pairs int, rng *rand.Rand) *MemoryGame {
	deck := make([]int, 0, pairs*2)
	for v := 0; v < pairs; v++ {
		deck = append(deck, v, v)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return &MemoryGame{
		Deck:    deck,
		Matched: make([]bool, len(deck)),
		Open:    -1,
	}
}

// Flip открывает карту. Вторая карта хода закрывает пару: совпадение
// помечает обе как собранные, иначе обе закрываются. Возвращает значение
// открытой карты, флаг совпадения и флаг завершения игры.
func (g *MemoryGame) Flip(idx int) (value int, matched bool, completed bool, err error) {
	if g.Completed() {
		return 0, false, true, ErrGameCompleted
	}
	if idx < 0 || idx >= len(g.Deck) {
		return 0, false, false, ErrCardOutOfDeck
	}
	if g.Matched[idx] {
		return 0, false, false, ErrCardMatched
	}
	if g.Open == idx {
		return 0, false, false, ErrCardAlreadyOpen
	}

	value = g.Deck[idx]
	if g.Open < 0 {
		// первая карта хода
		g.Open = idx
		return value, false, false, nil
	}

	// вторая карта хода
	g.Moves++
	if g.Deck[g.Open] == value {
		g.Matched[g.Open] = true
		g.Matched[idx] = true
		matched = true
	}
	g.Open = -1
	return value, matched, g.Completed(), nil
}

// Completed сообщает собраны ли все пары
func (g *MemoryGame) Completed() bool {
	for _, m := range g.Matched {
		if !m {
			return false
		}
	}
	return true
}

// MatchedPairs возвращает число собранных пар
func (g *MemoryGame) MatchedPairs() int {
	n := 0
	for _, m := range g.Matched {
		if m {
			n++
		}
	}
	return n / 2
}
