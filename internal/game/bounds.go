package game

import (
	"fmt"
	"time"

	"arcadehub/internal/domain"
)

// Violation описывает проваленную анти-чит проверку. Reason предназначен
// только для аудита: клиенту всегда уходит общий "invalid claim", чтобы
// нельзя было подбирать пороги.
type Violation struct {
	Check  string
	Reason string
}

// CheckElapsed отклоняет заявленную длительность больше физически
// возможной. Граница включительна: ровно elapsed+allowance проходит.
func CheckElapsed(startedAt, now time.Time, claimed, allowance time.Duration) *Violation {
	max := now.Sub(startedAt) + allowance
	if claimed > max {
		return &Violation{
			Check:  "elapsed",
			Reason: fmt.Sprintf("claimed %s > possible %s", claimed, max),
		}
	}
	if claimed < 0 {
		return &Violation{Check: "elapsed", Reason: "negative duration"}
	}
	return nil
}

// CheckRatio отклоняет счёт выше потолка на единицу прогресса
func CheckRatio(score, units, maxPerUnit int64) *Violation {
	if units < 0 {
		return &Violation{Check: "ratio", Reason: "negative units"}
	}
	if score > units*maxPerUnit {
		return &Violation{
			Check:  "ratio",
			Reason: fmt.Sprintf("score %d > %d units * %d", score, units, maxPerUnit),
		}
	}
	return nil
}

// CheckScoreCeiling отклоняет счёт выше clamp(elapsed*perSecond, floor, hardCap)
func CheckScoreCeiling(score int64, elapsed time.Duration, perSecond, floor, hardCap int64) *Violation {
	max := int64(elapsed.Seconds()) * perSecond
	if max < floor {
		max = floor
	}
	if max > hardCap {
		max = hardCap
	}
	if score < 0 || score > max {
		return &Violation{
			Check:  "score_ceiling",
			Reason: fmt.Sprintf("score %d outside [0, %d]", score, max),
		}
	}
	return nil
}

// CheckStage отклоняет стадию недостижимую за прошедшее время
func CheckStage(stage int, elapsed time.Duration, minSecondsPerStage, stageCount int) *Violation {
	reachable := int(elapsed.Seconds())/minSecondsPerStage + 1
	if reachable > stageCount {
		reachable = stageCount
	}
	if stage < 1 || stage > reachable {
		return &Violation{
			Check:  "stage",
			Reason: fmt.Sprintf("stage %d > reachable %d", stage, reachable),
		}
	}
	return nil
}

// CheckLength - структурная проверка: итоговая длина должна сходиться
// с заявленными счётчиками сбора
func CheckLength(length, collected, starting int64) *Violation {
	if length > collected+starting {
		return &Violation{
			Check:  "length",
			Reason: fmt.Sprintf("length %d > collected %d + starting %d", length, collected, starting),
		}
	}
	return nil
}

// ArcadeClaim - метрики, заявленные клиентом при завершении аркадной игры
type ArcadeClaim struct {
	Score    int64 `json:"score"`
	Units    int64 `json:"units"`  // собранные единицы (ядра, точки, кирпичи)
	Length   int64 `json:"length"` // для змейки
	Stage    int   `json:"stage"`
	Duration int64 `json:"duration_sec"`
}

// BoundProfile - закрытый набор порогов одной аркадной игры
type BoundProfile struct {
	DriftAllowance     time.Duration
	MaxPerUnit         int64
	PerSecondCeiling   int64
	ScoreFloor         int64
	HardCap            int64
	MinSecondsPerStage int
	StageCount         int
	StartingLength     int64 // 0 - проверка длины не применяется
}

// пороги фиксированы на игру, не настраиваются клиентом
var arcadeBounds = map[domain.GameType]BoundProfile{
	domain.GameSnake: {
		DriftAllowance:     45 * time.Second,
		MaxPerUnit:         50,
		PerSecondCeiling:   25,
		ScoreFloor:         100,
		HardCap:            50000,
		MinSecondsPerStage: 20,
		StageCount:         10,
		StartingLength:     3,
	},
	domain.GamePacman: {
		DriftAllowance:     60 * time.Second,
		MaxPerUnit:         100,
		PerSecondCeiling:   40,
		ScoreFloor:         200,
		HardCap:            100000,
		MinSecondsPerStage: 30,
		StageCount:         8,
	},
	domain.GameBreakout: {
		DriftAllowance:     45 * time.Second,
		MaxPerUnit:         30,
		PerSecondCeiling:   20,
		ScoreFloor:         100,
		HardCap:            40000,
		MinSecondsPerStage: 25,
		StageCount:         12,
	},
	domain.GameRunner: {
		DriftAllowance:     30 * time.Second,
		MaxPerUnit:         10,
		PerSecondCeiling:   15,
		ScoreFloor:         50,
		HardCap:            30000,
		MinSecondsPerStage: 15,
		StageCount:         20,
	},
}

// BoundsFor возвращает профиль порогов игры
func BoundsFor(gt domain.GameType) (BoundProfile, bool) {
	p, ok := arcadeBounds[gt]
	return p, ok
}

// CheckClaim прогоняет заявку через все применимые проверки профиля.
// Все проверки детерминированы от (startedAt, now, claim).
func (p BoundProfile) CheckClaim(startedAt, now time.Time, c ArcadeClaim) *Violation {
	claimed := time.Duration(c.Duration) * time.Second
	if v := CheckElapsed(startedAt, now, claimed, p.DriftAllowance); v != nil {
		return v
	}
	if v := CheckRatio(c.Score, c.Units, p.MaxPerUnit); v != nil {
		return v
	}
	if v := CheckScoreCeiling(c.Score, claimed, p.PerSecondCeiling, p.ScoreFloor, p.HardCap); v != nil {
		return v
	}
	if v := CheckStage(c.Stage, claimed, p.MinSecondsPerStage, p.StageCount); v != nil {
		return v
	}
	if p.StartingLength > 0 {
		if v := CheckLength(c.Length, c.Units, p.StartingLength); v != nil {
			return v
		}
	}
	return nil
}
