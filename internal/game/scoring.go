package game

import (
	"time"

	"arcadehub/internal/domain"
)

// MaxSessionXP - жёсткий потолок опыта за одну сессию. Любая формула
// обрезается по нему, краевой случай не может дать неограниченный опыт.
const MaxSessionXP int64 = 1000

func clampXP(xp int64) int64 {
	if xp < 0 {
		return 0
	}
	if xp > MaxSessionXP {
		return MaxSessionXP
	}
	return xp
}

type scoreXP struct {
	Score int64
	XP    int64
}

// закрытые таблицы (исход, сложность) для крестиков-ноликов
var tttTable = map[domain.GameOutcome]map[domain.Difficulty]scoreXP{
	domain.OutcomeWin: {
		domain.DifficultyEasy:   {Score: 100, XP: 50},
		domain.DifficultyMedium: {Score: 250, XP: 120},
		domain.DifficultyHard:   {Score: 500, XP: 250},
	},
	domain.OutcomeDraw: {
		domain.DifficultyEasy:   {Score: 25, XP: 20},
		domain.DifficultyMedium: {Score: 60, XP: 45},
		domain.DifficultyHard:   {Score: 150, XP: 90},
	},
	domain.OutcomeLose: {
		domain.DifficultyEasy:   {Score: 0, XP: 5},
		domain.DifficultyMedium: {Score: 0, XP: 10},
		domain.DifficultyHard:   {Score: 0, XP: 15},
	},
}

// TicTacToeScore возвращает (score, xp) по таблице исходов
func TicTacToeScore(outcome domain.GameOutcome, d domain.Difficulty) (int64, int64) {
	row := tttTable[outcome][d]
	return row.Score, clampXP(row.XP)
}

// параметры мемори по сложности
type memoryRules struct {
	ScorePerPair int64
	BaseXP       int64
	Par          int           // ходов на эффективный бонус
	BonusXP      int64         // добавка когда moves <= par
	SpeedUnder   time.Duration // порог скоростного бонуса
	SpeedXP      int64
}

var memoryTable = map[domain.Difficulty]memoryRules{
	domain.DifficultyEasy:   {ScorePerPair: 20, BaseXP: 40, Par: 10, BonusXP: 20, SpeedUnder: 60 * time.Second, SpeedXP: 15},
	domain.DifficultyMedium: {ScorePerPair: 30, BaseXP: 90, Par: 18, BonusXP: 45, SpeedUnder: 120 * time.Second, SpeedXP: 30},
	domain.DifficultyHard:   {ScorePerPair: 40, BaseXP: 180, Par: 28, BonusXP: 90, SpeedUnder: 210 * time.Second, SpeedXP: 60},
}

// MemoryPar возвращает пар-число ходов для бонуса эффективности
func MemoryPar(d domain.Difficulty) int {
	return memoryTable[d].Par
}

// MemoryScore считает (score, xp) завершённой игры мемори
func MemoryScore(d domain.Difficulty, pairs, moves int, duration time.Duration) (int64, int64) {
	rules := memoryTable[d]
	score := rules.ScorePerPair * int64(pairs)
	xp := rules.BaseXP
	if moves <= rules.Par {
		xp += rules.BonusXP
	}
	if duration <= rules.SpeedUnder {
		xp += rules.SpeedXP
		score += score / 4 // скоростная надбавка к счёту
	}
	return score, clampXP(xp)
}

// параметры поиска слов по сложности
type wordSearchRules struct {
	ScorePerWord int64
	XPPerWord    int64
	AllFoundXP   int64 // бонус за полную сетку
	SpeedUnder   time.Duration
	SpeedXP      int64
}

var wordSearchTable = map[domain.Difficulty]wordSearchRules{
	domain.DifficultyEasy:   {ScorePerWord: 25, XPPerWord: 10, AllFoundXP: 25, SpeedUnder: 90 * time.Second, SpeedXP: 15},
	domain.DifficultyMedium: {ScorePerWord: 40, XPPerWord: 20, AllFoundXP: 60, SpeedUnder: 180 * time.Second, SpeedXP: 35},
	domain.DifficultyHard:   {ScorePerWord: 60, XPPerWord: 35, AllFoundXP: 150, SpeedUnder: 300 * time.Second, SpeedXP: 70},
}

// WordSearchScore считает (score, xp) по найденным словам.
// total - число реально размещённых слов, не запрошенных.
func WordSearchScore(d domain.Difficulty, found, total int, duration time.Duration) (int64, int64) {
	rules := wordSearchTable[d]
	score := rules.ScorePerWord * int64(found)
	xp := rules.XPPerWord * int64(found)
	if total > 0 && found == total {
		xp += rules.AllFoundXP
		if duration <= rules.SpeedUnder {
			xp += rules.SpeedXP
		}
	}
	return score, clampXP(xp)
}

// множители сложности для формульного опыта аркад
var difficultyMultiplier = map[domain.Difficulty]float64{
	domain.DifficultyEasy:   1.0,
	domain.DifficultyMedium: 1.5,
	domain.DifficultyHard:   2.0,
}

// базовый опыт за единицу прогресса по игре
var arcadeBaseXP = map[domain.GameType]float64{
	domain.GameSnake:    2.0,
	domain.GamePacman:   1.5,
	domain.GameBreakout: 1.8,
	domain.GameRunner:   1.2,
}

// ArcadeXP - формульный опыт: floor(base * units * multiplier),
// обрезанный по потолку сессии
func ArcadeXP(gt domain.GameType, d domain.Difficulty, units int64) int64 {
	base, ok := arcadeBaseXP[gt]
	if !ok {
		return 0
	}
	return clampXP(int64(base * float64(units) * difficultyMultiplier[d]))
}

// Ранги: ступенчатая функция над одной таблицей порогов. Rank,
// XPToNextTier и TierProgress обязаны использовать одни и те же границы.
type rankTier struct {
	Name string
	Min  int64
}

var rankTiers = []rankTier{
	{Name: "bronze", Min: 0},
	{Name: "silver", Min: 1000},
	{Name: "gold", Min: 5000},
	{Name: "diamond", Min: 15000},
}

func tierIndex(xp int64) int {
	idx := 0
	for i, t := range rankTiers {
		if xp >= t.Min {
			idx = i
		}
	}
	return idx
}

// Rank возвращает имя ранга для накопленного опыта
func Rank(xp int64) string {
	return rankTiers[tierIndex(xp)].Name
}

// XPToNextTier возвращает сколько опыта осталось до следующего ранга,
// 0 на высшем ранге
func XPToNextTier(xp int64) int64 {
	idx := tierIndex(xp)
	if idx == len(rankTiers)-1 {
		return 0
	}
	return rankTiers[idx+1].Min - xp
}

// TierProgress возвращает прогресс внутри текущего ранга в [0,1]
func TierProgress(xp int64) float64 {
	idx := tierIndex(xp)
	if idx == len(rankTiers)-1 {
		return 1.0
	}
	lo := rankTiers[idx].Min
	hi := rankTiers[idx+1].Min
	return float64(xp-lo) / float64(hi-lo)
}
