package game

import (
	"errors"
	"math/rand"

	"arcadehub/internal/domain"
)

// Метки клеток доски 3x3. 0 - пустая клетка.
const (
	MarkX byte = 'X'
	MarkO byte = 'O'
)

// Результат Winner для ничьей (доска полна, линии нет)
const MarkDraw byte = 'D'

var (
	ErrCellOccupied  = errors.New("клетка уже занята")
	ErrCellOutOfGrid = errors.New("неверная позиция клетки")
	ErrBadMark       = errors.New("неверная метка")
)

// Board - доска 3x3, индексация 0..8 построчно.
type Board [9]byte

// все 8 выигрышных линий
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // горизонтали
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // вертикали
	{0, 4, 8}, {2, 4, 6}, // диагонали
}

// ApplyMove возвращает доску после хода, занятые клетки отклоняются
func (b Board) ApplyMove(cell int, mark byte) (Board, error) {
	if mark != MarkX && mark != MarkO {
		return b, ErrBadMark
	}
	if cell < 0 || cell >= len(b) {
		return b, ErrCellOutOfGrid
	}
	if b[cell] != 0 {
		return b, ErrCellOccupied
	}
	b[cell] = mark
	return b, nil
}

// Winner возвращает MarkX или MarkO при выигрышной линии,
// MarkDraw при полной доске без линии, 0 если игра продолжается
func (b Board) Winner() byte {
	for _, line := range winLines {
		m := b[line[0]]
		if m != 0 && m == b[line[1]] && m == b[line[2]] {
			return m
		}
	}
	if len(b.EmptyCells()) == 0 {
		return MarkDraw
	}
	return 0
}

// EmptyCells возвращает индексы свободных клеток
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, len(b))
	for i, m := range b {
		if m == 0 {
			cells = append(cells, i)
		}
	}
	return cells
}

func opponent(mark byte) byte {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}

// TicTacToeAI выбирает ход за сервер. Skill - вероятность сыграть
// минимаксом; иначе случайная свободная клетка. Источник случайности
// инъектируется чтобы тесты могли форсировать любую ветку.
type TicTacToeAI struct {
	Mark  byte
	Skill float64
	rng   *rand.Rand
}

// фиксированные уровни силы ИИ по сложности
var aiSkill = map[domain.Difficulty]float64{
	domain.DifficultyEasy:   0.3,
	domain.DifficultyMedium: 0.75,
	domain.DifficultyHard:   1.0,
}

// NewTicTacToeAI создает ИИ с силой соответствующей сложности
func NewTicTacToeAI(mark byte, difficulty domain.Difficulty, rng *rand.Rand) *TicTacToeAI {
	return &TicTacToeAI{Mark: mark, Skill: aiSkill[difficulty], rng: rng}
}

// PickMove возвращает индекс клетки для хода ИИ, -1 если ходов нет
func (ai *TicTacToeAI) PickMove(b Board) int {
	empty := b.EmptyCells()
	if len(empty) == 0 || b.Winner() != 0 {
		return -1
	}

	// слабая игра: случайная клетка с вероятностью (1 - skill)
	if ai.rng.Float64() >= ai.Skill {
		return empty[ai.rng.Intn(len(empty))]
	}

	best, bestScore := empty[0], -1000
	for _, cell := range empty {
		next, _ := b.ApplyMove(cell, ai.Mark)
		score := ai.minimax(next, opponent(ai.Mark), 1)
		if score > bestScore {
			best, bestScore = cell, score
		}
	}
	return best
}

// полный перебор дерева игры (не больше 9 полуходов).
// Быстрая победа ценится выше (10-depth), медленное поражение выше (depth-10).
func (ai *TicTacToeAI) minimax(b Board, turn byte, depth int) int {
	switch b.Winner() {
	case ai.Mark:
		return 10 - depth
	case opponent(ai.Mark):
		return depth - 10
	case MarkDraw:
		return 0
	}

	maximizing := turn == ai.Mark
	best := -1000
	if !maximizing {
		best = 1000
	}
	for _, cell := range b.EmptyCells() {
		next, _ := b.ApplyMove(cell, turn)
		score := ai.minimax(next, opponent(turn), depth+1)
		if maximizing && score > best {
			best = score
		}
		if !maximizing && score < best {
			best = score
		}
	}
	return best
}
