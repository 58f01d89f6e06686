package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arcadehub/internal/domain"
)

func newSession(id string, ownerID int64) *domain.Session {
	return &domain.Session{
		ID:         id,
		OwnerID:    ownerID,
		GameType:   domain.GameSnake,
		Difficulty: domain.DifficultyEasy,
		Phase:      domain.PhaseActive,
		StartedAt:  time.Now(),
	}
}

func TestConditionalFinalizeSingleWinner(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	if err := store.CreateSession(ctx, newSession("s1", 1)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// два конкурирующих финализа: ровно один получает строку
	var wg sync.WaitGroup
	wins := make(chan int64, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := store.ConditionalFinalize(ctx, "s1", 1, 100, 10, time.Now())
			if err != nil {
				t.Errorf("ConditionalFinalize: %v", err)
				return
			}
			wins <- rows
		}()
	}
	wg.Wait()
	close(wins)

	total := int64(0)
	for rows := range wins {
		total += rows
	}
	if total != 1 {
		t.Fatalf("затронуто строк суммарно %d, ожидалась ровно 1", total)
	}
}

func TestConditionalFinalizeWrongOwner(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	if err := store.CreateSession(ctx, newSession("s1", 1)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	rows, err := store.ConditionalFinalize(ctx, "s1", 2, 100, 10, time.Now())
	if err != nil {
		t.Fatalf("ConditionalFinalize: %v", err)
	}
	if rows != 0 {
		t.Fatalf("чужой владелец затронул %d строк", rows)
	}
}

func TestInTxRollbackOnError(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.CreateSession(ctx, newSession("s1", user.ID)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	boom := errors.New("boom")
	err = store.InTx(ctx, func(tx Store) error {
		if _, err := tx.ConditionalFinalize(ctx, "s1", user.ID, 100, 10, time.Now()); err != nil {
			return err
		}
		if _, err := tx.IncrementUserXP(ctx, user.ID, 10); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx err = %v, ожидался boom", err)
	}

	// всё откатилось: сессия активна, опыт не начислен
	sess, err := store.ReadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}
	if sess.Phase != domain.PhaseActive {
		t.Fatalf("после отката phase = %s, ожидалась active", sess.Phase)
	}
	u, _ := store.GetUserByID(ctx, user.ID)
	if u.XP != 0 {
		t.Fatalf("после отката xp = %d, ожидалось 0", u.XP)
	}
}

func TestInTxCommit(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	user, _ := store.CreateUser(ctx, "bob")

	err := store.InTx(ctx, func(tx Store) error {
		_, err := tx.IncrementUserXP(ctx, user.ID, 50)
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	u, _ := store.GetUserByID(ctx, user.ID)
	if u.XP != 50 {
		t.Fatalf("xp = %d, ожидалось 50", u.XP)
	}
}

func TestUpsertLedgerKeepsHigher(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	user, _ := store.CreateUser(ctx, "carol")
	gt, d := domain.GameSnake, domain.DifficultyHard

	at := time.Now()
	_ = store.UpsertLedgerIfHigher(ctx, user.ID, gt, d, 500, at)
	_ = store.UpsertLedgerIfHigher(ctx, user.ID, gt, d, 300, at.Add(time.Minute))

	entries, err := store.UserLedger(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserLedger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("записей %d, ожидалась 1", len(entries))
	}
	if entries[0].HighScore != 500 {
		t.Fatalf("рекорд %d перезаписан меньшим счётом", entries[0].HighScore)
	}

	_ = store.UpsertLedgerIfHigher(ctx, user.ID, gt, d, 700, at.Add(2*time.Minute))
	entries, _ = store.UserLedger(ctx, user.ID)
	if entries[0].HighScore != 700 {
		t.Fatalf("рекорд %d, ожидалось 700", entries[0].HighScore)
	}
}

func TestTopLedgerOrdering(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	gt, d := domain.GamePacman, domain.DifficultyMedium

	for i, score := range []int64{100, 300, 200} {
		u, _ := store.CreateUser(ctx, "user"+string(rune('a'+i)))
		_ = store.UpsertLedgerIfHigher(ctx, u.ID, gt, d, score, time.Now())
	}

	top, err := store.TopLedger(ctx, gt, d, 2)
	if err != nil {
		t.Fatalf("TopLedger: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("в топе %d записей, ожидалось 2", len(top))
	}
	if top[0].HighScore != 300 || top[1].HighScore != 200 {
		t.Fatalf("порядок топа: %d, %d", top[0].HighScore, top[1].HighScore)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	old := newSession("old", 1)
	old.StartedAt = time.Now().Add(-3 * time.Hour)
	fresh := newSession("fresh", 1)
	_ = store.CreateSession(ctx, old)
	_ = store.CreateSession(ctx, fresh)

	if err := store.DeleteExpiredSessions(ctx, 1, time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if _, err := store.ReadSession(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("протухшая сессия должна быть удалена")
	}
	if _, err := store.ReadSession(ctx, "fresh"); err != nil {
		t.Fatalf("свежая сессия удалена: %v", err)
	}
}
