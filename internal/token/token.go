package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Signer выпускает и проверяет подписанные доказательства сессии для игр,
// чей поток ходов не валидируется посерверно. Токен - неподделываемое
// доказательство что сессия принадлежит владельцу и началась в startedAt;
// квитанция привязывает закоммиченный (score, stage) к сессии.
type Signer struct {
	key []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

func (s *Signer) mac(payload string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// SessionToken возвращает "sessionID.signature"
func (s *Signer) SessionToken(sessionID string, ownerID int64, startedAt time.Time) string {
	payload := fmt.Sprintf("%s|%d|%d", sessionID, ownerID, startedAt.Unix())
	return sessionID + "." + s.mac(payload)
}

// VerifySessionToken пересчитывает MAC и сравнивает за константное время.
// Возвращает sessionID из токена только при валидной подписи.
func (s *Signer) VerifySessionToken(tok string, ownerID int64, startedAt time.Time) (string, bool) {
	sessionID, sig, ok := strings.Cut(tok, ".")
	if !ok || sessionID == "" {
		return "", false
	}
	payload := fmt.Sprintf("%s|%d|%d", sessionID, ownerID, startedAt.Unix())
	if !hmac.Equal([]byte(s.mac(payload)), []byte(sig)) {
		return "", false
	}
	return sessionID, true
}

// TokenSessionID извлекает sessionID из токена без проверки подписи.
// Используется только чтобы найти строку сессии; доверять полям можно
// лишь после VerifySessionToken против сохранённых значений.
func TokenSessionID(tok string) (string, bool) {
	sessionID, _, ok := strings.Cut(tok, ".")
	return sessionID, ok && sessionID != ""
}

// Receipt возвращает подпись закоммиченного результата
func (s *Signer) Receipt(sessionID string, score int64, stage int, committedAt time.Time) string {
	payload := fmt.Sprintf("receipt|%s|%d|%d|%d", sessionID, score, stage, committedAt.Unix())
	return s.mac(payload)
}

// VerifyReceipt сверяет квитанцию с сохранёнными значениями коммита
func (s *Signer) VerifyReceipt(receipt, sessionID string, score int64, stage int, committedAt time.Time) bool {
	expected := s.Receipt(sessionID, score, stage, committedAt)
	return hmac.Equal([]byte(expected), []byte(receipt))
}
