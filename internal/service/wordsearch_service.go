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

// параметры головоломки по сложности
type wordSearchConfig struct {
	Size  int
	Words int
	Dirs  [][2]int
	Pool  []string
}

var wordSearchConfigs = map[domain.Difficulty]wordSearchConfig{
	domain.DifficultyEasy: {
		Size: 8, Words: 4, Dirs: game.DirectionsEasy,
		Pool: []string{"CAT", "DOG", "SUN", "MOON", "STAR", "TREE", "FISH", "BIRD", "CAKE", "SHIP"},
	},
	domain.DifficultyMedium: {
		Size: 10, Words: 6, Dirs: [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}},
		Pool: []string{"PLANET", "ROCKET", "GALAXY", "COMET", "ORBIT", "METEOR", "SATURN", "VENUS", "COSMOS", "LUNAR"},
	},
	domain.DifficultyHard: {
		Size: 12, Words: 8, Dirs: game.DirectionsAll,
		Pool: []string{"ALGORITHM", "COMPILER", "PROTOCOL", "DATABASE", "NETWORK", "POINTER", "CHANNEL", "MUTEX", "GOROUTINE", "PACKET", "KERNEL", "SOCKET"},
	},
}

// состояние сессии: сетка с размещениями (источник истины для проверок)
// и множество найденных слов
type wordSearchState struct {
	Grid  *game.WordGrid `json:"grid"`
	Found []string       `json:"found"`
}

func (st *wordSearchState) foundSet() map[string]bool {
	set := make(map[string]bool, len(st.Found))
	for _, w := range st.Found {
		set[w] = true
	}
	return set
}

// WordSearchStartView - головоломка для клиента: буквы и список слов,
// пути размещений не раскрываются
type WordSearchStartView struct {
	SessionID string   `json:"session_id"`
	Size      int      `json:"size"`
	Rows      []string `json:"rows"`
	Words     []string `json:"words"`
}

// WordSearchClaimView - результат заявки на слово
type WordSearchClaimView struct {
	Valid      bool `json:"valid"`
	FoundCount int  `json:"found_count"`
	TotalWords int  `json:"total_words"`
	AllFound   bool `json:"all_found"`
}

// WordSearchService владеет сессиями поиска слов
type WordSearchService struct {
	sessions *SessionService
	rngMu    sync.Mutex
	rng      *rand.Rand
}

func NewWordSearchService(sessions *SessionService) *WordSearchService {
	return &WordSearchService{
		sessions: sessions,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand подменяет источник случайности (только тесты)
func (s *WordSearchService) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Start генерирует сетку. Клиенту отдаются реально размещённые слова:
// пропущенные при генерации не обещаются.
func (s *WordSearchService) Start(ctx context.Context, ownerID int64, difficulty domain.Difficulty) (*WordSearchStartView, error) {
	cfg := wordSearchConfigs[difficulty]

	s.rngMu.Lock()
	words := pickWords(cfg.Pool, cfg.Words, s.rng)
	grid, err := game.GenerateGrid(cfg.Size, words, cfg.Dirs, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	state := wordSearchState{Grid: grid}
	raw, err := domain.EncodeState(&state)
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		GameType:   domain.GameWordSearch,
		Difficulty: difficulty,
		Phase:      domain.PhaseActive,
		State:      raw,
		StartedAt:  s.sessions.Now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	placed := make([]string, len(grid.Placements))
	for i, p := range grid.Placements {
		placed[i] = p.Word
	}
	return &WordSearchStartView{
		SessionID: sess.ID,
		Size:      grid.Size,
		Rows:      grid.Rows,
		Words:     placed,
	}, nil
}

// Claim проверяет заявку на слово против сохранённого размещения.
// Невалидная заявка не мутирует состояние и возвращает valid:false,
// не ошибку: клиент мог честно выделить не то.
func (s *WordSearchService) Claim(ctx context.Context, ownerID int64, sessionID, word string, path []game.Cell) (*WordSearchClaimView, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameWordSearch {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var state wordSearchState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}

	total := len(state.Grid.Placements)
	matched := game.ValidateClaim(word, path, state.Grid.Placements, state.foundSet())
	if matched == nil {
		return &WordSearchClaimView{
			Valid: false, FoundCount: len(state.Found), TotalWords: total,
			AllFound: len(state.Found) == total,
		}, nil
	}

	state.Found = append(state.Found, matched.Word)
	if err := s.sessions.SaveState(ctx, sess, &state); err != nil {
		return nil, err
	}
	return &WordSearchClaimView{
		Valid: true, FoundCount: len(state.Found), TotalWords: total,
		AllFound: len(state.Found) == total,
	}, nil
}

// Finish финализирует головоломку с любым числом найденных слов
func (s *WordSearchService) Finish(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	sess, err := s.sessions.LoadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if sess.GameType != domain.GameWordSearch {
		return nil, ErrBadGameType
	}
	if !sess.Active() {
		return nil, ErrAlreadyFinalized
	}

	var state wordSearchState
	if err := sess.DecodeState(&state); err != nil {
		return nil, err
	}

	total := len(state.Grid.Placements)
	duration := s.sessions.Now().Sub(sess.StartedAt)
	score, xp := game.WordSearchScore(sess.Difficulty, len(state.Found), total, duration)

	outcome := domain.OutcomeCompleted
	return s.sessions.Finalize(ctx, sess, outcome, score, xp, map[string]any{
		"found": state.Found,
		"total": total,
	})
}

// Result - read-only эхо сохранённого результата
func (s *WordSearchService) Result(ctx context.Context, ownerID int64, sessionID string) (*FinalizeOutcome, error) {
	return s.sessions.Result(ctx, sessionID, ownerID)
}

// выбирает n случайных слов из пула без повторов
func pickWords(pool []string, n int, rng *rand.Rand) []string {
	idx := rng.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = pool[idx[i]]
	}
	return words
}
