package handlers

import (
	"net/http"
	"strconv"

	"arcadehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard - топ рекордов по игре и сложности
func (h *Handler) GetLeaderboard(c *gin.Context) {
	gt := domain.GameType(c.Param("game"))
	d := domain.Difficulty(c.DefaultQuery("difficulty", string(domain.DifficultyMedium)))
	if !d.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная сложность"})
		return
	}

	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	top, err := h.Store.TopLedger(c.Request.Context(), gt, d, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":        gt,
		"difficulty":  d,
		"leaderboard": top,
	})
}

// GetMyRecords - личные рекорды пользователя по всем играм
func (h *Handler) GetMyRecords(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	records, err := h.Store.UserLedger(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
