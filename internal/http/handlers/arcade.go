package handlers

import (
	"net/http"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"

	"github.com/gin-gonic/gin"
)

// ArcadeStartRequest - старт аркадной игры (тип игры в пути)
type ArcadeStartRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// ArcadeCommitRequest - коммит результата по одноразовому токену сессии
type ArcadeCommitRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
	Score        int64  `json:"score" binding:"min=0"`
	Units        int64  `json:"units" binding:"min=0"`
	Length       int64  `json:"length"`
	Stage        int    `json:"stage" binding:"min=1"`
	Duration     int64  `json:"duration_sec" binding:"min=0"`
}

// ArcadeStart создаёт сессию и выдаёт подписанный токен
func (h *Handler) ArcadeStart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ArcadeStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	gt := domain.GameType(c.Param("game"))
	view, err := h.Arcade.Start(c.Request.Context(), userID, gt, domain.Difficulty(req.Difficulty))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ArcadeCommit принимает заявленный результат
func (h *Handler) ArcadeCommit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ArcadeCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	claim := game.ArcadeClaim{
		Score:    req.Score,
		Units:    req.Units,
		Length:   req.Length,
		Stage:    req.Stage,
		Duration: req.Duration,
	}
	view, err := h.Arcade.Commit(c.Request.Context(), userID, req.SessionToken, claim)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ArcadeFinish финализирует закоммиченный результат
func (h *Handler) ArcadeFinish(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.Arcade.Finish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ArcadeResult возвращает сохранённый результат
func (h *Handler) ArcadeResult(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.Arcade.Result(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
