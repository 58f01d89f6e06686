package handlers

import (
	"net/http"

	"arcadehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// StartRequest - общий запрос старта сессии
type StartRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// MoveRequest - ход игрока в крестики-нолики
type MoveRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Cell      int    `json:"cell" binding:"min=0,max=8"`
}

// TicTacToeStart начинает партию против ИИ
func (h *Handler) TicTacToeStart(c *gin.Context) {
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

	view, err := h.TicTacToe.Start(c.Request.Context(), userID, domain.Difficulty(req.Difficulty))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TicTacToeMove применяет ход игрока и отвечает ходом ИИ
func (h *Handler) TicTacToeMove(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	view, err := h.TicTacToe.Move(c.Request.Context(), userID, req.SessionID, req.Cell)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TicTacToeFinish финализирует завершённую партию
func (h *Handler) TicTacToeFinish(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.TicTacToe.Finish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// TicTacToeResult возвращает сохранённый результат
func (h *Handler) TicTacToeResult(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.TicTacToe.Result(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
