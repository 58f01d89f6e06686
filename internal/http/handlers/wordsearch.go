package handlers

import (
	"net/http"

	"arcadehub/internal/domain"
	"arcadehub/internal/game"

	"github.com/gin-gonic/gin"
)

// ClaimRequest - заявка на найденное слово с путём по сетке
type ClaimRequest struct {
	SessionID string      `json:"session_id" binding:"required"`
	Word      string      `json:"word" binding:"required"`
	Path      []game.Cell `json:"path" binding:"required"`
}

// WordSearchStart генерирует головоломку
func (h *Handler) WordSearchStart(c *gin.Context) {
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

	view, err := h.WordSearch.Start(c.Request.Context(), userID, domain.Difficulty(req.Difficulty))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// WordSearchClaim проверяет заявку на слово. Невалидная заявка - это
// обычный ответ valid:false, не ошибка.
func (h *Handler) WordSearchClaim(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	view, err := h.WordSearch.Claim(c.Request.Context(), userID, req.SessionID, req.Word, req.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// WordSearchFinish финализирует головоломку
func (h *Handler) WordSearchFinish(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.WordSearch.Finish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// WordSearchResult возвращает сохранённый результат
func (h *Handler) WordSearchResult(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.WordSearch.Result(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
