package handlers

import (
	"net/http"

	"arcadehub/internal/game"

	"github.com/gin-gonic/gin"
)

// MyProfile - текущий профиль: опыт, ранг, прогресс до следующего ранга
// и последние игры
func (h *Handler) MyProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// история не критична для профиля, её ошибка не роняет ответ
	recent, _ := h.Store.RecentGames(ctx, userID, 20)
	var history []map[string]any
	for _, rec := range recent {
		history = append(history, map[string]any{
			"game":       rec.GameType,
			"difficulty": rec.Difficulty,
			"outcome":    rec.Outcome,
			"score":      rec.Score,
			"xp_earned":  rec.XPEarned,
			"duration":   rec.Duration,
			"date":       rec.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"created_at":    user.CreatedAt,
		"xp":            user.XP,
		"rank":          user.Rank,
		"xp_to_next":    game.XPToNextTier(user.XP),
		"rank_progress": game.TierProgress(user.XP),
		"history":       history,
	})
}
