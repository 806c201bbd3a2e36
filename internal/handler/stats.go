package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Dashboard handles GET /api/transparency/dashboard
func (h *StatsHandler) Dashboard(c fiber.Ctx) error {
	stats, err := h.svc.Dashboard(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build dashboard")
	}
	return c.JSON(stats)
}

// Summary handles GET /api/statistics/summary
func (h *StatsHandler) Summary(c fiber.Ctx) error {
	stats, err := h.svc.Summary(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build summary")
	}
	return c.JSON(stats)
}
