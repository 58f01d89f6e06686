package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequest - вход по имени, пользователь создаётся при первом входе
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login выдаёт JWT доступа
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}
