package game

import (
	"errors"
	"math/rand"
	"strings"
)

const placementAttempts = 300 // попыток размещения на слово, потом слово пропускается

var ErrGridTooSmall = errors.New("сетка слишком мала")

// буквы-заполнители с частотами английского алфавита
const fillerLetters = "EEEEEEAAAAAIIIIIOOOOONNNNSSSSRRRRTTTTTLLUUDDGGBBCCMMPPFFHHVVWWYYKJXQZ"

// Cell - координата клетки сетки
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Placement - размещённое слово с упорядоченным путём клеток.
// Путь - единственный источник истины при проверке заявок.
type Placement struct {
	Word  string `json:"word"`
	Cells []Cell `json:"cells"`
}

// WordGrid - сгенерированная головоломка
type WordGrid struct {
	Size       int         `json:"size"`
	Rows       []string    `json:"rows"` // строки сетки, по одной букве на клетку
	Placements []Placement `json:"placements"`
}

// направления по умолчанию: простые (вправо и вниз) и все восемь
var (
	DirectionsEasy = [][2]int{{0, 1}, {1, 0}}
	DirectionsAll  = [][2]int{
		{0, 1}, {1, 0}, {0, -1}, {-1, 0},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// GenerateGrid размещает слова вдоль направляющих векторов и заполняет
// пустые клетки случайными буквами. Слова, не разместившиеся за лимит
// попыток, пропускаются: авторитетен возвращённый Placements, а не вход.
func GenerateGrid(size int, words []string, dirs [][2]int, rng *rand.Rand) (*WordGrid, error) {
	if size < 3 {
		return nil, ErrGridTooSmall
	}
	if len(dirs) == 0 {
		dirs = DirectionsAll
	}

	grid := make([][]byte, size)
	for i := range grid {
		grid[i] = make([]byte, size)
	}

	var placements []Placement
	for _, raw := range words {
		word := strings.ToUpper(strings.TrimSpace(raw))
		if word == "" || len(word) > size {
			continue
		}
		if cells, ok := tryPlace(grid, word, dirs, rng); ok {
			placements = append(placements, Placement{Word: word, Cells: cells})
		}
	}

	// заполнение оставшихся клеток
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if grid[r][c] == 0 {
				grid[r][c] = fillerLetters[rng.Intn(len(fillerLetters))]
			}
		}
	}

	rows := make([]string, size)
	for r := 0; r < size; r++ {
		rows[r] = string(grid[r])
	}

	return &WordGrid{Size: size, Rows: rows, Placements: placements}, nil
}

// пытается разместить слово, возвращает путь клеток при успехе
func tryPlace(grid [][]byte, word string, dirs [][2]int, rng *rand.Rand) ([]Cell, bool) {
	size := len(grid)
	for attempt := 0; attempt < placementAttempts; attempt++ {
		dir := dirs[rng.Intn(len(dirs))]
		row := rng.Intn(size)
		col := rng.Intn(size)

		cells, ok := fitWord(grid, word, row, col, dir)
		if !ok {
			continue
		}
		for i, cell := range cells {
			grid[cell.Row][cell.Col] = word[i]
		}
		return cells, true
	}
	return nil, false
}

// проверяет что каждая буква в границах и клетка пуста либо уже содержит
// нужную букву (намеренные пересечения слов разрешены)
func fitWord(grid [][]byte, word string, row, col int, dir [2]int) ([]Cell, bool) {
	size := len(grid)
	cells := make([]Cell, len(word))
	for i := 0; i < len(word); i++ {
		r := row + dir[0]*i
		c := col + dir[1]*i
		if r < 0 || r >= size || c < 0 || c >= size {
			return nil, false
		}
		if grid[r][c] != 0 && grid[r][c] != word[i] {
			return nil, false
		}
		cells[i] = Cell{Row: r, Col: c}
	}
	return cells, true
}

// ValidateClaim ищет ненайденное размещение с тем же текстом и принимает
// заявку только если путь совпадает с сохранённым в прямом или обратном
// порядке. Любая перестановка клеток отклоняется - клиент не может
// "телепортировать" координаты. Состояние не мутируется.
func ValidateClaim(word string, path []Cell, placements []Placement, found map[string]bool) *Placement {
	word = strings.ToUpper(strings.TrimSpace(word))
	for i := range placements {
		p := &placements[i]
		if p.Word != word || found[p.Word] {
			continue
		}
		if pathsEqual(path, p.Cells) || pathsEqual(path, reversePath(p.Cells)) {
			return p
		}
	}
	return nil
}

func pathsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func reversePath(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[len(cells)-1-i] = c
	}
	return out
}
