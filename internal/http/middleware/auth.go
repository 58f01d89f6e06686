package middleware

import (
	"net/http"
	"strings"

	"arcadehub/internal/service"

	"github.com/gin-gonic/gin"
)

// ключ контекста с id аутентифицированного пользователя
const UserIDKey = "user_id"

// Auth проверяет Bearer токен и кладёт id пользователя в контекст запроса
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tok, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен обязателен"})
			return
		}

		userID, err := auth.ParseToken(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "неверный токен"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
