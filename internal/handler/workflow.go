package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

type WorkflowHandler struct {
	svc        *service.WorkflowService
	complaints *service.ComplaintService
}

func NewWorkflowHandler(svc *service.WorkflowService, complaints *service.ComplaintService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc, complaints: complaints}
}

// UpdateStage handles PUT /api/complaints/:id/stage/:stageOrder
func (h *WorkflowHandler) UpdateStage(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	stageOrder, err := strconv.Atoi(c.Params("stageOrder"))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "stageOrder must be an integer")
	}

	var req model.UpdateStageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	req.Notes = middleware.ValidateNotes(req.Notes)

	current, err := h.currentStatus(c, id)
	if err != nil {
		return h.lookupError(c, err)
	}

	resp, err := h.svc.UpdateStage(c.Context(), id, stageOrder, req, current)
	if err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(resp)
}

// AdvanceStage handles POST /api/complaints/:id/stage/next. It completes the
// earliest unfinished stage and starts the following one.
func (h *WorkflowHandler) AdvanceStage(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req struct {
		Actor string `json:"actor,omitempty"`
	}
	// Body is optional here.
	_ = c.Bind().JSON(&req)

	current, err := h.currentStatus(c, id)
	if err != nil {
		return h.lookupError(c, err)
	}

	resp, err := h.svc.AdvanceStage(c.Context(), id, req.Actor, current)
	if err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(resp)
}

// OverrideStatus handles POST /api/complaints/:id/status-override (admin only).
func (h *WorkflowHandler) OverrideStatus(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.OverrideStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	req.Notes = middleware.ValidateNotes(req.Notes)

	actor := middleware.AdminSubject(c)
	resp, err := h.svc.OverrideStatus(c.Context(), id, req.Status, actor, req.Notes)
	if err != nil {
		return h.mutationError(c, err)
	}

	middleware.Logger.Info().
		Str("complaint_id", id).
		Str("status", string(req.Status)).
		Str("admin", actor).
		Msg("complaint status overridden")

	return c.JSON(resp)
}

// Timeline handles GET /api/complaints/:id/timeline
func (h *WorkflowHandler) Timeline(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	entries, err := h.svc.Timeline(c.Context(), id)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch timeline")
	}
	if entries == nil {
		entries = []model.TimelineEntry{}
	}

	return c.JSON(fiber.Map{"timeline": entries})
}

func (h *WorkflowHandler) currentStatus(c fiber.Ctx, id string) (model.ComplaintStatus, error) {
	detail, err := h.complaints.Get(c.Context(), id, h.svc.Repo())
	if err != nil {
		return "", err
	}
	return detail.Complaint.Status, nil
}

func (h *WorkflowHandler) lookupError(c fiber.Ctx, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
	}
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch complaint")
}

func (h *WorkflowHandler) mutationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update workflow")
	}
}
