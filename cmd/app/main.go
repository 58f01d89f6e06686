package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcadehub/internal/config"
	"arcadehub/internal/db"
	httpServer "arcadehub/internal/http"
	"arcadehub/internal/http/handlers"
	"arcadehub/internal/http/middleware"
	"arcadehub/internal/logger"
	"arcadehub/internal/service"
	"arcadehub/internal/storage"
	"arcadehub/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	cfg := config.Load()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()
	db.Migrate(context.Background(), dbPool)

	store := storage.NewPgStore(dbPool)
	audit := service.NewAuditService(store)
	sessions := service.NewSessionService(store, audit)
	auth := service.NewAuthService(store, audit, cfg.JWTSecret)
	signer := token.NewSigner(cfg.TokenSecret)

	h := handlers.NewHandler(
		store,
		auth,
		sessions,
		service.NewTicTacToeService(sessions),
		service.NewMemoryService(sessions),
		service.NewWordSearchService(sessions),
		service.NewArcadeService(sessions, signer),
	)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, h, auth, cfg.LoginRateLimit, cfg.APIRateLimit)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
