package http

import (
	"time"

	"arcadehub/internal/http/handlers"
	"arcadehub/internal/http/middleware"
	"arcadehub/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает все маршруты API на роутер
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, auth *service.AuthService, loginLimit, apiLimit int) {
	api := r.Group("/api")

	// вход ограничивается по IP: токена ещё нет
	api.POST("/auth/login", middleware.RateLimit("login", loginLimit, time.Minute), h.Login)
	api.GET("/catalog", h.GetCatalog)

	authed := api.Group("")
	authed.Use(middleware.Auth(auth))
	authed.Use(middleware.RateLimit("api", apiLimit, time.Minute))

	authed.GET("/profile", h.MyProfile)
	authed.GET("/leaderboard/:game", h.GetLeaderboard)
	authed.GET("/records", h.GetMyRecords)

	ttt := authed.Group("/games/tictactoe")
	ttt.POST("/start", h.TicTacToeStart)
	ttt.POST("/move", h.TicTacToeMove)
	ttt.POST("/:id/finish", h.TicTacToeFinish)
	ttt.GET("/:id/result", h.TicTacToeResult)

	memory := authed.Group("/games/memory")
	memory.POST("/start", h.MemoryStart)
	memory.POST("/flip", h.MemoryFlip)
	memory.POST("/:id/finish", h.MemoryFinish)
	memory.GET("/:id/result", h.MemoryResult)

	ws := authed.Group("/games/wordsearch")
	ws.POST("/start", h.WordSearchStart)
	ws.POST("/claim", h.WordSearchClaim)
	ws.POST("/:id/finish", h.WordSearchFinish)
	ws.GET("/:id/result", h.WordSearchResult)

	arcade := authed.Group("/games/arcade")
	arcade.POST("/:game/start", h.ArcadeStart)
	arcade.POST("/commit", h.ArcadeCommit)
	arcade.POST("/:game/:id/finish", h.ArcadeFinish)
	arcade.GET("/:game/:id/result", h.ArcadeResult)
}
