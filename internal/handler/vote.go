package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Toggle handles POST /api/complaints/vote
func (h *VoteHandler) Toggle(c fiber.Ctx) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	complaintID, errMsg := middleware.ValidateComplaintID(req.ComplaintID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ComplaintID = complaintID

	userID, errMsg := middleware.ValidateUserID(req.UserID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.UserID = userID

	resp, err := h.svc.Toggle(c.Context(), req.ComplaintID, req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process vote")
	}

	Metrics.VotesTotal.WithLabelValues(string(resp.Action)).Inc()
	return c.JSON(resp)
}

// ToggleGuest handles POST /api/guest-votes. Device ids are optional; without
// one the vote is anonymous and cannot be toggled back later.
func (h *VoteHandler) ToggleGuest(c fiber.Ctx) error {
	var req model.GuestVoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	complaintID, errMsg := middleware.ValidateComplaintID(req.ComplaintID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ComplaintID = complaintID

	req.DeviceID = middleware.ValidateDeviceID(req.DeviceID)

	resp, err := h.svc.ToggleGuest(c.Context(), req.ComplaintID, req.DeviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process vote")
	}

	Metrics.VotesTotal.WithLabelValues(string(resp.Action)).Inc()
	return c.JSON(resp)
}
