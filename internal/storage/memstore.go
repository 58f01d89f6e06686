package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"arcadehub/internal/domain"
)

// MemStore - хранилище в памяти для тестов и одноинстансной разработки.
// Все операции сериализуются одним мьютексом, поэтому InTx атомарна:
// снимок до fn, откат к снимку при ошибке.
type MemStore struct {
	mu sync.Mutex
	st memState
}

type ledgerKey struct {
	UserID     int64
	GameType   domain.GameType
	Difficulty domain.Difficulty
}

type memState struct {
	sessions   map[string]domain.Session
	users      map[int64]domain.User
	ledger     map[ledgerKey]domain.LedgerEntry
	history    []domain.GameRecord
	audits     []domain.AuditLog
	nextUserID int64
	nextRecID  int64
}

func NewMemStore() *MemStore {
	return &MemStore{st: memState{
		sessions:   make(map[string]domain.Session),
		users:      make(map[int64]domain.User),
		ledger:     make(map[ledgerKey]domain.LedgerEntry),
		nextUserID: 1,
		nextRecID:  1,
	}}
}

func (m *memState) clone() memState {
	cp := memState{
		sessions:   make(map[string]domain.Session, len(m.sessions)),
		users:      make(map[int64]domain.User, len(m.users)),
		ledger:     make(map[ledgerKey]domain.LedgerEntry, len(m.ledger)),
		history:    append([]domain.GameRecord(nil), m.history...),
		audits:     append([]domain.AuditLog(nil), m.audits...),
		nextUserID: m.nextUserID,
		nextRecID:  m.nextRecID,
	}
	for k, v := range m.sessions {
		cp.sessions[k] = v
	}
	for k, v := range m.users {
		cp.users[k] = v
	}
	for k, v := range m.ledger {
		cp.ledger[k] = v
	}
	return cp
}

func (m *MemStore) CreateSession(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createSession(s)
}

func (m *MemStore) ReadSession(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.readSession(id)
}

func (m *MemStore) UpdateSessionState(_ context.Context, id string, state json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateSessionState(id, state)
}

func (m *MemStore) ConditionalFinalize(_ context.Context, id string, ownerID int64, score, xp int64, finalizedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.conditionalFinalize(id, ownerID, score, xp, finalizedAt)
}

func (m *MemStore) DeleteExpiredSessions(_ context.Context, ownerID int64, olderThan time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.deleteExpired(ownerID, olderThan)
	return nil
}

func (m *MemStore) CreateUser(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createUser(username)
}

func (m *MemStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getUserByID(id)
}

func (m *MemStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getUserByUsername(username)
}

func (m *MemStore) IncrementUserXP(_ context.Context, id int64, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.incrementXP(id, delta)
}

func (m *MemStore) SetUserRank(_ context.Context, id int64, rank string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.setRank(id, rank)
}

func (m *MemStore) UpsertLedgerIfHigher(_ context.Context, userID int64, gt domain.GameType, d domain.Difficulty, score int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.upsertLedger(userID, gt, d, score, at)
	return nil
}

func (m *MemStore) TopLedger(_ context.Context, gt domain.GameType, d domain.Difficulty, limit int) ([]*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.topLedger(gt, d, limit), nil
}

func (m *MemStore) UserLedger(_ context.Context, userID int64) ([]*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.userLedger(userID), nil
}

func (m *MemStore) CreateGameRecord(_ context.Context, rec *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.createGameRecord(rec)
	return nil
}

func (m *MemStore) RecentGames(_ context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.recentGames(userID, limit), nil
}

func (m *MemStore) CreateAuditLog(_ context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.audits = append(m.st.audits, *log)
	return nil
}

// InTx держит мьютекс на всю единицу работы; при ошибке состояние
// откатывается к снимку, как транзакция
func (m *MemStore) InTx(_ context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(&memTx{st: &m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// memTx - вид хранилища внутри InTx: те же операции без повторного
// захвата мьютекса
type memTx struct {
	st *memState
}

func (t *memTx) CreateSession(_ context.Context, s *domain.Session) error {
	return t.st.createSession(s)
}

func (t *memTx) ReadSession(_ context.Context, id string) (*domain.Session, error) {
	return t.st.readSession(id)
}

func (t *memTx) UpdateSessionState(_ context.Context, id string, state json.RawMessage) error {
	return t.st.updateSessionState(id, state)
}

func (t *memTx) ConditionalFinalize(_ context.Context, id string, ownerID int64, score, xp int64, finalizedAt time.Time) (int64, error) {
	return t.st.conditionalFinalize(id, ownerID, score, xp, finalizedAt)
}

func (t *memTx) DeleteExpiredSessions(_ context.Context, ownerID int64, olderThan time.Time) error {
	t.st.deleteExpired(ownerID, olderThan)
	return nil
}

func (t *memTx) CreateUser(_ context.Context, username string) (*domain.User, error) {
	return t.st.createUser(username)
}

func (t *memTx) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	return t.st.getUserByID(id)
}

func (t *memTx) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	return t.st.getUserByUsername(username)
}

func (t *memTx) IncrementUserXP(_ context.Context, id int64, delta int64) (int64, error) {
	return t.st.incrementXP(id, delta)
}

func (t *memTx) SetUserRank(_ context.Context, id int64, rank string) error {
	return t.st.setRank(id, rank)
}

func (t *memTx) UpsertLedgerIfHigher(_ context.Context, userID int64, gt domain.GameType, d domain.Difficulty, score int64, at time.Time) error {
	t.st.upsertLedger(userID, gt, d, score, at)
	return nil
}

func (t *memTx) TopLedger(_ context.Context, gt domain.GameType, d domain.Difficulty, limit int) ([]*domain.LedgerEntry, error) {
	return t.st.topLedger(gt, d, limit), nil
}

func (t *memTx) UserLedger(_ context.Context, userID int64) ([]*domain.LedgerEntry, error) {
	return t.st.userLedger(userID), nil
}

func (t *memTx) CreateGameRecord(_ context.Context, rec *domain.GameRecord) error {
	t.st.createGameRecord(rec)
	return nil
}

func (t *memTx) RecentGames(_ context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	return t.st.recentGames(userID, limit), nil
}

func (t *memTx) CreateAuditLog(_ context.Context, log *domain.AuditLog) error {
	t.st.audits = append(t.st.audits, *log)
	return nil
}

// вложенный InTx схлопывается: мьютекс уже удерживается
func (t *memTx) InTx(_ context.Context, fn func(Store) error) error {
	return fn(t)
}

// --- операции над состоянием ---

func (m *memState) createSession(s *domain.Session) error {
	if _, ok := m.sessions[s.ID]; ok {
		return fmt.Errorf("сессия %s уже существует", s.ID)
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *memState) readSession(id string) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (m *memState) updateSessionState(id string, state json.RawMessage) error {
	s, ok := m.sessions[id]
	if !ok || s.Phase != domain.PhaseActive {
		return ErrNotFound
	}
	s.State = state
	m.sessions[id] = s
	return nil
}

func (m *memState) conditionalFinalize(id string, ownerID int64, score, xp int64, finalizedAt time.Time) (int64, error) {
	s, ok := m.sessions[id]
	if !ok || s.OwnerID != ownerID || s.Phase != domain.PhaseActive {
		return 0, nil
	}
	s.Phase = domain.PhaseFinalized
	s.Score = &score
	s.XPEarned = &xp
	s.FinalizedAt = &finalizedAt
	m.sessions[id] = s
	return 1, nil
}

func (m *memState) deleteExpired(ownerID int64, olderThan time.Time) {
	for id, s := range m.sessions {
		if s.OwnerID == ownerID && s.Phase == domain.PhaseActive && s.StartedAt.Before(olderThan) {
			delete(m.sessions, id)
		}
	}
}

func (m *memState) createUser(username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return nil, fmt.Errorf("пользователь %s уже существует", username)
		}
	}
	u := domain.User{
		ID:        m.nextUserID,
		Username:  username,
		CreatedAt: time.Now(),
		Rank:      "bronze",
	}
	m.nextUserID++
	m.users[u.ID] = u
	cp := u
	return &cp, nil
}

func (m *memState) getUserByID(id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memState) getUserByUsername(username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memState) incrementXP(id int64, delta int64) (int64, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, ErrNotFound
	}
	u.XP += delta
	m.users[id] = u
	return u.XP, nil
}

func (m *memState) setRank(id int64, rank string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Rank = rank
	m.users[id] = u
	return nil
}

func (m *memState) upsertLedger(userID int64, gt domain.GameType, d domain.Difficulty, score int64, at time.Time) {
	key := ledgerKey{UserID: userID, GameType: gt, Difficulty: d}
	entry, ok := m.ledger[key]
	if !ok {
		username := ""
		if u, uok := m.users[userID]; uok {
			username = u.Username
		}
		m.ledger[key] = domain.LedgerEntry{
			UserID: userID, Username: username,
			GameType: gt, Difficulty: d,
			HighScore: score, UpdatedAt: at,
		}
		return
	}
	if score > entry.HighScore {
		entry.HighScore = score
		entry.UpdatedAt = at
		m.ledger[key] = entry
	}
}

func (m *memState) topLedger(gt domain.GameType, d domain.Difficulty, limit int) []*domain.LedgerEntry {
	var out []*domain.LedgerEntry
	for key, e := range m.ledger {
		if key.GameType == gt && key.Difficulty == d {
			cp := e
			out = append(out, &cp)
		}
	}
	// сортировка по убыванию счёта
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].HighScore > out[i].HighScore {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memState) userLedger(userID int64) []*domain.LedgerEntry {
	var out []*domain.LedgerEntry
	for key, e := range m.ledger {
		if key.UserID == userID {
			cp := e
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memState) createGameRecord(rec *domain.GameRecord) {
	rec.ID = m.nextRecID
	m.nextRecID++
	m.history = append(m.history, *rec)
}

func (m *memState) recentGames(userID int64, limit int) []*domain.GameRecord {
	var out []*domain.GameRecord
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if m.history[i].UserID == userID {
			cp := m.history[i]
			out = append(out, &cp)
		}
	}
	return out
}
