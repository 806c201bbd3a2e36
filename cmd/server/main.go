package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/config"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/db"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/handler"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/router"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "civicrezo-backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		middleware.Logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// External collaborators; unconfigured ones degrade the dependent path.
	sentiment := client.NewSentimentClient(cfg.SentimentAPIURL, cfg.SentimentAPIKey, cfg.SentimentTimeout)
	vision := client.NewVisionClient(cfg.VisionAPIURL, cfg.VisionAPIKey, cfg.VisionTimeout)
	places := client.NewPlacesClient(cfg.PlacesAPIURL, cfg.PlacesAPIKey, cfg.PlacesTimeout)
	speech := client.NewSpeechClient(cfg.SpeechAPIURL, cfg.SpeechAPIKey, cfg.SpeechTimeout)

	// Repositories
	workflowRepo := repository.NewWorkflowRepo(pool)
	complaintRepo := repository.NewComplaintRepo(pool, workflowRepo)
	voteRepo := repository.NewVoteRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)

	// Services
	emotionSvc := service.NewEmotionService(sentiment)
	locationSvc := service.NewLocationService(places)
	prioritySvc := service.NewPriorityService(locationSvc, emotionSvc)
	complaintSvc := service.NewComplaintService(complaintRepo, prioritySvc, vision, cache)
	voteSvc := service.NewVoteService(voteRepo, cache, cfg.GuestVotesTrackable)
	workflowSvc := service.NewWorkflowService(workflowRepo, cache)
	statsSvc := service.NewStatsService(statsRepo, cache)
	chatSvc := service.NewChatService(sentiment, service.NewSessionCache(cfg.ChatSessionCapacity))

	// Background priority recalculation
	worker := service.NewPriorityWorker(complaintSvc, voteRepo, complaintRepo, cfg.RecalcInterval)
	go worker.Start(ctx)

	h := &router.Handlers{
		Complaint: handler.NewComplaintHandler(complaintSvc, voteSvc, workflowRepo),
		Vote:      handler.NewVoteHandler(voteSvc),
		Workflow:  handler.NewWorkflowHandler(workflowSvc, complaintSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Chat:      handler.NewChatHandler(chatSvc),
		Voice:     handler.NewVoiceHandler(speech),
		Health:    handler.NewHealthHandler(pool, cache.Client(), sentiment),
	}

	app := fiber.New(fiber.Config{
		AppName:      "CivicRezo API",
		ServerHeader: "CivicRezo",
	})
	router.Setup(app, h, cfg.CORSOrigins, cfg.JWTSecret)

	go func() {
		middleware.Logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Msg("civicrezo backend starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			middleware.Logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.Logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		middleware.Logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
