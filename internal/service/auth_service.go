package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"arcadehub/internal/domain"
	"arcadehub/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadToken    = errors.New("неверный токен")
	ErrBadUsername = errors.New("недопустимое имя пользователя")
)

const authTokenTTL = 24 * time.Hour

// AuthService выпускает и проверяет JWT доступа. Пользователь заводится
// при первом входе по имени.
type AuthService struct {
	store  storage.Store
	audit  *AuditService
	secret []byte
}

func NewAuthService(store storage.Store, audit *AuditService, secret string) *AuthService {
	return &AuthService{store: store, audit: audit, secret: []byte(secret)}
}

// LoginResult - токен и профиль после входа
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login находит или создаёт пользователя и выпускает токен
func (s *AuthService) Login(ctx context.Context, username string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return nil, ErrBadUsername
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = s.store.CreateUser(ctx, username)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	tok, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	s.audit.LogLogin(ctx, user.ID)
	return &LoginResult{Token: tok, User: user}, nil
}

// IssueToken подписывает JWT с идентификатором пользователя
func (s *AuthService) IssueToken(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(authTokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ParseToken проверяет подпись и срок токена, возвращает id пользователя
func (s *AuthService) ParseToken(tok string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrBadToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrBadToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrBadToken
	}
	return id, nil
}
