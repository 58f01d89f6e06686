package service

import (
	"context"
	"errors"
	"testing"

	"arcadehub/internal/storage"
)

func newAuthEnv(t *testing.T) *AuthService {
	t.Helper()
	store := storage.NewMemStore()
	return NewAuthService(store, NewAuditService(store), "jwt-test-secret")
}

func TestLoginCreatesAndReusesUser(t *testing.T) {
	auth := newAuthEnv(t)
	ctx := context.Background()

	first, err := auth.Login(ctx, "alice")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if first.User.Username != "alice" || first.Token == "" {
		t.Fatalf("LoginResult = %+v", first)
	}

	// повторный вход не создаёт нового пользователя
	second, err := auth.Login(ctx, "alice")
	if err != nil {
		t.Fatalf("повторный Login: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("id сменился: %d -> %d", first.User.ID, second.User.ID)
	}
}

func TestLoginRejectsBadUsername(t *testing.T) {
	auth := newAuthEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", "ab", "  a  ", string(make([]byte, 40))} {
		if _, err := auth.Login(ctx, name); !errors.Is(err, ErrBadUsername) {
			t.Errorf("Login(%q): err = %v, ожидался ErrBadUsername", name, err)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newAuthEnv(t)

	tok, err := auth.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	id, err := auth.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, ожидалось 42", id)
	}

	if _, err := auth.ParseToken("not-a-jwt"); !errors.Is(err, ErrBadToken) {
		t.Fatalf("мусорный токен: err = %v", err)
	}

	// токен с чужим ключом отклоняется
	other := NewAuthService(storage.NewMemStore(), NewAuditService(storage.NewMemStore()), "other-secret")
	foreign, _ := other.IssueToken(42)
	if _, err := auth.ParseToken(foreign); !errors.Is(err, ErrBadToken) {
		t.Fatalf("чужой токен: err = %v", err)
	}
}
