package handlers

import (
	"net/http"

	"arcadehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// карточка игры каталога. Пороги анти-чита сюда не попадают.
type catalogEntry struct {
	Game   domain.GameType `json:"game"`
	Title  string          `json:"title"`
	Server bool            `json:"server_validated"` // ходы валидируются посерверно
}

var catalog = []catalogEntry{
	{Game: domain.GameTicTacToe, Title: "Крестики-нолики", Server: true},
	{Game: domain.GameMemory, Title: "Мемори", Server: true},
	{Game: domain.GameWordSearch, Title: "Поиск слов", Server: true},
	{Game: domain.GameSnake, Title: "Змейка"},
	{Game: domain.GamePacman, Title: "Пакман"},
	{Game: domain.GameBreakout, Title: "Арканоид"},
	{Game: domain.GameRunner, Title: "Раннер"},
}

// GetCatalog - список игр платформы
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": catalog})
}
