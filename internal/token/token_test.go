package token

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")
	startedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok := signer.SessionToken("sess-1", 42, startedAt)
	sid, ok := signer.VerifySessionToken(tok, 42, startedAt)
	if !ok {
		t.Fatal("валидный токен отклонён")
	}
	if sid != "sess-1" {
		t.Fatalf("sessionID = %q, ожидался sess-1", sid)
	}
}

func TestSessionTokenRejectsTampering(t *testing.T) {
	signer := NewSigner("test-secret")
	startedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok := signer.SessionToken("sess-1", 42, startedAt)

	// другой владелец
	if _, ok := signer.VerifySessionToken(tok, 43, startedAt); ok {
		t.Fatal("токен принят с чужим владельцем")
	}
	// другое время старта
	if _, ok := signer.VerifySessionToken(tok, 42, startedAt.Add(time.Second)); ok {
		t.Fatal("токен принят с другим временем старта")
	}
	// подмена sessionID в токене
	forged := "sess-2." + tok[len("sess-1."):]
	if _, ok := signer.VerifySessionToken(forged, 42, startedAt); ok {
		t.Fatal("токен принят с подменённым sessionID")
	}
	// другой ключ
	other := NewSigner("other-secret")
	if _, ok := other.VerifySessionToken(tok, 42, startedAt); ok {
		t.Fatal("токен принят чужим ключом")
	}
	// мусор
	if _, ok := signer.VerifySessionToken("garbage", 42, startedAt); ok {
		t.Fatal("токен без подписи принят")
	}
}

func TestTokenSessionID(t *testing.T) {
	if sid, ok := TokenSessionID("abc.def"); !ok || sid != "abc" {
		t.Fatalf("TokenSessionID = (%q, %v)", sid, ok)
	}
	if _, ok := TokenSessionID("noseparator"); ok {
		t.Fatal("токен без разделителя принят")
	}
	if _, ok := TokenSessionID(".sig"); ok {
		t.Fatal("пустой sessionID принят")
	}
}

func TestReceiptRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	receipt := signer.Receipt("sess-1", 500, 3, at)
	if !signer.VerifyReceipt(receipt, "sess-1", 500, 3, at) {
		t.Fatal("валидная квитанция отклонена")
	}
	if signer.VerifyReceipt(receipt, "sess-1", 501, 3, at) {
		t.Fatal("квитанция принята с другим счётом")
	}
	if signer.VerifyReceipt(receipt, "sess-1", 500, 4, at) {
		t.Fatal("квитанция принята с другой стадией")
	}
	if signer.VerifyReceipt(receipt, "sess-2", 500, 3, at) {
		t.Fatal("квитанция принята с другой сессией")
	}
	if signer.VerifyReceipt(receipt, "sess-1", 500, 3, at.Add(time.Second)) {
		t.Fatal("квитанция принята с другим временем")
	}
}
