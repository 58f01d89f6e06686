package game

import (
	"testing"
	"time"

	"arcadehub/internal/domain"
)

func TestCheckElapsedBoundary(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(100 * time.Second)
	allowance := 45 * time.Second

	// ровно на границе - проходит
	if v := CheckElapsed(started, now, 145*time.Second, allowance); v != nil {
		t.Fatalf("граница включительна, получено нарушение: %+v", v)
	}
	// на секунду больше - отклоняется
	if v := CheckElapsed(started, now, 146*time.Second, allowance); v == nil {
		t.Fatal("превышение границы должно отклоняться")
	}
	// отрицательная длительность отклоняется
	if v := CheckElapsed(started, now, -1*time.Second, allowance); v == nil {
		t.Fatal("отрицательная длительность должна отклоняться")
	}
}

func TestCheckRatio(t *testing.T) {
	if v := CheckRatio(500, 10, 50); v != nil {
		t.Fatalf("счёт ровно на потолке должен проходить: %+v", v)
	}
	if v := CheckRatio(501, 10, 50); v == nil {
		t.Fatal("счёт выше потолка на единицу должен отклоняться")
	}
	if v := CheckRatio(0, -1, 50); v == nil {
		t.Fatal("отрицательные единицы должны отклоняться")
	}
}

func TestCheckScoreCeiling(t *testing.T) {
	// 100 секунд * 25 = 2500
	if v := CheckScoreCeiling(2500, 100*time.Second, 25, 100, 50000); v != nil {
		t.Fatalf("счёт на потолке должен проходить: %+v", v)
	}
	if v := CheckScoreCeiling(2501, 100*time.Second, 25, 100, 50000); v == nil {
		t.Fatal("счёт выше потолка должен отклоняться")
	}
	// нижний порог: при крошечном времени действует floor
	if v := CheckScoreCeiling(99, 1*time.Second, 25, 100, 50000); v != nil {
		t.Fatalf("счёт под floor должен проходить: %+v", v)
	}
	// жёсткий потолок при огромном времени
	if v := CheckScoreCeiling(50001, 10000*time.Second, 25, 100, 50000); v == nil {
		t.Fatal("счёт выше hardCap должен отклоняться")
	}
	if v := CheckScoreCeiling(-1, 100*time.Second, 25, 100, 50000); v == nil {
		t.Fatal("отрицательный счёт должен отклоняться")
	}
}

func TestCheckStage(t *testing.T) {
	// 60 секунд при 20 сек/стадия: достижима стадия 4
	if v := CheckStage(4, 60*time.Second, 20, 10); v != nil {
		t.Fatalf("достижимая стадия должна проходить: %+v", v)
	}
	if v := CheckStage(5, 60*time.Second, 20, 10); v == nil {
		t.Fatal("недостижимая стадия должна отклоняться")
	}
	if v := CheckStage(0, 60*time.Second, 20, 10); v == nil {
		t.Fatal("стадия меньше 1 должна отклоняться")
	}
	// достижимость ограничена числом стадий игры
	if v := CheckStage(11, 100000*time.Second, 20, 10); v == nil {
		t.Fatal("стадия выше максимума игры должна отклоняться")
	}
}

func TestCheckLength(t *testing.T) {
	if v := CheckLength(13, 10, 3); v != nil {
		t.Fatalf("длина = собрано + стартовая должна проходить: %+v", v)
	}
	if v := CheckLength(14, 10, 3); v == nil {
		t.Fatal("длина больше собранного должна отклоняться")
	}
}

func TestBoundsForKnownGames(t *testing.T) {
	for _, gt := range []domain.GameType{domain.GameSnake, domain.GamePacman, domain.GameBreakout, domain.GameRunner} {
		if _, ok := BoundsFor(gt); !ok {
			t.Errorf("нет профиля порогов для %s", gt)
		}
	}
	if _, ok := BoundsFor(domain.GameTicTacToe); ok {
		t.Error("у игр с посерверной валидацией не должно быть профиля")
	}
}

func TestCheckClaimSnakeStructural(t *testing.T) {
	profile, _ := BoundsFor(domain.GameSnake)
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(120 * time.Second)

	ok := ArcadeClaim{Score: 500, Units: 20, Length: 23, Stage: 3, Duration: 120}
	if v := profile.CheckClaim(started, now, ok); v != nil {
		t.Fatalf("честная заявка отклонена: %+v", v)
	}

	// змейка длиннее чем позволяют съеденные ядра
	bad := ok
	bad.Length = 24
	v := profile.CheckClaim(started, now, bad)
	if v == nil {
		t.Fatal("структурно невозможная длина должна отклоняться")
	}
	if v.Check != "length" {
		t.Fatalf("Check = %q, ожидался length", v.Check)
	}
}

func TestCheckClaimPacmanNoLengthCheck(t *testing.T) {
	profile, _ := BoundsFor(domain.GamePacman)
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(120 * time.Second)

	// Length произвольна: для пакмана структурная проверка не применяется
	claim := ArcadeClaim{Score: 1000, Units: 50, Length: 999, Stage: 2, Duration: 120}
	if v := profile.CheckClaim(started, now, claim); v != nil {
		t.Fatalf("заявка пакмана отклонена проверкой длины: %+v", v)
	}
}
