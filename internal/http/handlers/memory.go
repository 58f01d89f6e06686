package handlers

import (
	"net/http"

	"arcadehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// FlipRequest - открытие карты в игре на память
type FlipRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Card      int    `json:"card" binding:"min=0"`
}

// MemoryStart раздаёт колоду пар
func (h *Handler) MemoryStart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	view, err := h.Memory.Start(c.Request.Context(), userID, domain.Difficulty(req.Difficulty))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MemoryFlip открывает карту
func (h *Handler) MemoryFlip(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req FlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	view, err := h.Memory.Flip(c.Request.Context(), userID, req.SessionID, req.Card)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MemoryFinish финализирует собранную колоду
func (h *Handler) MemoryFinish(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.Memory.Finish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// MemoryResult возвращает сохранённый результат
func (h *Handler) MemoryResult(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.Memory.Result(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
