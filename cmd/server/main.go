package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"golang.org/x/time/rate"

	"github.com/toto789520/atugame/config"
	"github.com/toto789520/atugame/game"
	"github.com/toto789520/atugame/middleware"
	"github.com/toto789520/atugame/news"
	"github.com/toto789520/atugame/quizgen"
)

const ollamaWaitAttempts = 30

func main() {
	cfg := config.Load()

	var handler slog.Handler
	if cfg.Debug {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	gin.SetMode(cfg.GinMode)

	scraper := news.NewScraper(news.DefaultFeeds, logger)
	ollama := quizgen.NewClient(cfg.OllamaURL, cfg.OllamaModel, logger)
	registry := game.NewRegistry(logger)

	ctx := context.Background()
	scraper.Update(ctx)
	go scraper.Run(ctx, cfg.ScrapeInterval)

	logger.Info("waiting for ollama", "url", cfg.OllamaURL)
	if ollama.WaitReady(ctx, ollamaWaitAttempts) {
		logger.Info("ollama is ready")
	} else {
		logger.Warn("ollama not ready, quiz generation will use fallbacks")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))

	if !slices.Contains(cfg.AllowedOrigins, "*") {
		allowed := cfg.AllowedOrigins
		r.Use(func(ctx *gin.Context) {
			origin := ctx.Request.Header.Get("Origin")
			if origin == "" || slices.Contains(allowed, origin) {
				ctx.Next()
				return
			}
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden-origin"})
		})
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "X-Request-Id"},
	}))
	r.Use(middleware.RateLimit(rate.Limit(10), 20))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/health", func(ctx *gin.Context) {
		articles, _ := scraper.Articles()
		ollamaStatus := "not_ready"
		if ollama.Ready(ctx.Request.Context()) {
			ollamaStatus = "ready"
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"ollama":         ollamaStatus,
			"articles_count": len(articles),
			"rooms_count":    registry.Count(),
		})
	})
	r.GET("/api/news", func(ctx *gin.Context) {
		articles, lastUpdate := scraper.Articles()
		ctx.JSON(http.StatusOK, gin.H{
			"articles":    articles,
			"last_update": lastUpdate,
		})
	})

	game.NewHandler(registry, scraper, ollama, ollama, logger).RegisterRoutes(r)

	addr := ":" + cfg.Port
	logger.Info("api listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
