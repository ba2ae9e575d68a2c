package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/config"
	"github.com/JairoProDev/mitube-go/internal/db"
	"github.com/JairoProDev/mitube-go/internal/handler"
	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/realtime"
	"github.com/JairoProDev/mitube-go/internal/repository"
	"github.com/JairoProDev/mitube-go/internal/router"
	"github.com/JairoProDev/mitube-go/internal/service"
)

const maintenanceInterval = 15 * time.Minute

// countingPublisher forwards to the hub and counts deliveries for Prometheus.
type countingPublisher struct {
	hub *realtime.Hub
}

func (p *countingPublisher) Publish(topic string, payload any) {
	p.hub.Publish(topic, payload)
	if handler.Metrics.RealtimeDelivered != nil {
		handler.Metrics.RealtimeDelivered.Inc()
	}
}

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "mitube-api")
	logger := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	playlistRepo := repository.NewPlaylistRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	hub := realtime.NewHub(authSvc, logger)
	notificationSvc := service.NewNotificationService(notificationRepo, &countingPublisher{hub: hub}, logger)
	statsSvc := service.NewStatsService(statsRepo, videoRepo, userRepo, logger)
	videoSvc := service.NewVideoService(videoRepo, statsSvc, cache)
	userSvc := service.NewUserService(userRepo, statsSvc, notificationSvc, logger)
	commentSvc := service.NewCommentService(commentRepo, videoRepo, notificationSvc, logger)
	playlistSvc := service.NewPlaylistService(playlistRepo, videoRepo)

	// Background maintenance
	worker := service.NewMaintenanceWorker(notificationSvc, videoSvc, cache, maintenanceInterval)
	go worker.Start(ctx)
	defer worker.Stop()

	// HTTP API
	app := fiber.New(fiber.Config{
		AppName:      "MiTube API",
		ServerHeader: "MiTube",
	})

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		User:         handler.NewUserHandler(userSvc),
		Video:        handler.NewVideoHandler(videoSvc, userSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Playlist:     handler.NewPlaylistHandler(playlistSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Stats:        handler.NewStatsHandler(statsSvc, videoSvc, cache),
		Health:       handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, handlers, authSvc, cfg.CORSOrigins)

	// Realtime hub on its own listener
	realtimeSrv := hub.Server(":" + cfg.RealtimePort)
	go func() {
		log.Printf("realtime hub listening on :%s", cfg.RealtimePort)
		if err := realtimeSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("realtime hub error: %v", err)
		}
	}()

	go func() {
		log.Printf("MiTube backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
	if err := realtimeSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("realtime shutdown error: %v", err)
	}
}
