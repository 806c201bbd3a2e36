package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/handler"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Complaint *handler.ComplaintHandler
	Vote      *handler.VoteHandler
	Workflow  *handler.WorkflowHandler
	Stats     *handler.StatsHandler
	Chat      *handler.ChatHandler
	Voice     *handler.VoiceHandler
	Health    *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins, jwtSecret string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics sit outside the API group
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	requireAdmin := middleware.RequireAdmin(jwtSecret)

	submitLimit := middleware.NewSubmitRateLimiter()
	voteLimit := middleware.NewVoteRateLimiter()
	guestVoteLimit := middleware.NewGuestVoteRateLimiter()
	statsLimit := middleware.NewStatsRateLimiter()
	chatLimit := middleware.NewChatRateLimiter()
	transcribeLimit := middleware.NewTranscribeRateLimiter()

	api := app.Group("/api")

	// Complaint routes. Literal paths register before the :id wildcard.
	api.Post("/complaints/submit", h.Complaint.Submit, submitLimit.Handler())
	api.Post("/complaints/calculate-priority", h.Complaint.CalculatePriority, submitLimit.Handler())
	api.Post("/complaints/vote", h.Vote.Toggle, voteLimit.Handler())
	api.Get("/complaints/categories", h.Complaint.Categories)
	api.Get("/complaints", h.Complaint.List)
	api.Get("/complaints/:id", h.Complaint.Get)
	api.Delete("/complaints/:id", h.Complaint.Delete, requireAdmin)

	// Workflow routes
	api.Put("/complaints/:id/stage/:stageOrder", h.Workflow.UpdateStage)
	api.Post("/complaints/:id/stage/next", h.Workflow.AdvanceStage)
	api.Post("/complaints/:id/status-override", h.Workflow.OverrideStatus, requireAdmin)
	api.Get("/complaints/:id/timeline", h.Workflow.Timeline)

	// Guest voting
	api.Post("/guest-votes", h.Vote.ToggleGuest, guestVoteLimit.Handler())

	// Transparency / statistics
	api.Get("/transparency/dashboard", h.Stats.Dashboard, statsLimit.Handler())
	api.Get("/statistics/summary", h.Stats.Summary, statsLimit.Handler())

	// Assistant and voice complaints
	api.Post("/chat", h.Chat.Respond, chatLimit.Handler())
	api.Get("/chat/:sessionId", h.Chat.History)
	api.Post("/voice-complaints/transcribe", h.Voice.Transcribe, transcribeLimit.Handler())
}
