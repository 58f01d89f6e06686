package handlers

import (
	"errors"
	"net/http"

	"arcadehub/internal/http/middleware"
	"arcadehub/internal/service"
	"arcadehub/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler содержит зависимости всех HTTP обработчиков
type Handler struct {
	Store      storage.Store
	Auth       *service.AuthService
	Sessions   *service.SessionService
	TicTacToe  *service.TicTacToeService
	Memory     *service.MemoryService
	WordSearch *service.WordSearchService
	Arcade     *service.ArcadeService
}

func NewHandler(store storage.Store, auth *service.AuthService, sessions *service.SessionService, ttt *service.TicTacToeService, memory *service.MemoryService, ws *service.WordSearchService, arcade *service.ArcadeService) *Handler {
	return &Handler{
		Store:      store,
		Auth:       auth,
		Sessions:   sessions,
		TicTacToe:  ttt,
		Memory:     memory,
		WordSearch: ws,
		Arcade:     arcade,
	}
}

// id пользователя из контекста, установленный middleware.Auth
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// единая трансляция ошибок сервисов в HTTP статусы. Неизвестные ошибки
// не протекают к клиенту текстом.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "сессия не найдена"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "сессия принадлежит другому пользователю"})
	case errors.Is(err, service.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "сессия уже финализирована"})
	case errors.Is(err, service.ErrNotFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "сессия ещё не финализирована"})
	case errors.Is(err, service.ErrNotCommitted):
		c.JSON(http.StatusConflict, gin.H{"error": "результат ещё не закоммичен"})
	case errors.Is(err, service.ErrGameNotOver):
		c.JSON(http.StatusConflict, gin.H{"error": "игра ещё не завершена"})
	case errors.Is(err, service.ErrGameOver):
		c.JSON(http.StatusConflict, gin.H{"error": "игра уже завершена"})
	case errors.Is(err, service.ErrInvalidClaim):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid claim"})
	case errors.Is(err, service.ErrBadSessionToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "невалидный токен сессии"})
	case errors.Is(err, service.ErrBadGameType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный тип игры"})
	case errors.Is(err, service.ErrBadUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "недопустимое имя пользователя"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
