package handler

import (
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/service"
)

type ComplaintHandler struct {
	svc      *service.ComplaintService
	votes    *service.VoteService
	workflow *repository.WorkflowRepo
}

func NewComplaintHandler(svc *service.ComplaintService, votes *service.VoteService,
	workflow *repository.WorkflowRepo) *ComplaintHandler {
	return &ComplaintHandler{svc: svc, votes: votes, workflow: workflow}
}

// Submit handles POST /api/complaints/submit
func (h *ComplaintHandler) Submit(c fiber.Ctx) error {
	var req model.SubmitComplaintRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	title, errMsg := middleware.ValidateTitle(req.Title)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Title = title

	desc, errMsg := middleware.ValidateDescription(req.Description)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Description = desc

	if req.Category == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "title, description, and category are required")
	}
	if !model.ValidCategories[req.Category] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_CATEGORY",
			"Invalid category. See /api/complaints/categories for the accepted values")
	}

	if req.LocationData != nil {
		if errMsg := middleware.ValidateCoordinates(req.LocationData.Latitude, req.LocationData.Longitude); errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_COORDINATES", errMsg)
		}
	}

	start := time.Now()
	resp, err := h.svc.Submit(c.Context(), req)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit complaint")
	}
	Metrics.PriorityCalcDuration.Observe(time.Since(start).Seconds())
	Metrics.ComplaintsTotal.WithLabelValues(resp.Complaint.Category).Inc()

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CalculatePriority handles POST /api/complaints/calculate-priority. It runs
// the same analysis as Submit without persisting anything, so clients can
// preview urgency before filing.
func (h *ComplaintHandler) CalculatePriority(c fiber.Ctx) error {
	var req model.CalculatePriorityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.Category == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "category is required")
	}
	if req.LocationData != nil {
		if errMsg := middleware.ValidateCoordinates(req.LocationData.Latitude, req.LocationData.Longitude); errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_COORDINATES", errMsg)
		}
	}

	start := time.Now()
	analysis := h.svc.Preview(c.Context(), req)
	Metrics.PriorityCalcDuration.Observe(time.Since(start).Seconds())

	return c.JSON(analysis)
}

// Get handles GET /api/complaints/:id
func (h *ComplaintHandler) Get(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Get(c.Context(), id, h.workflow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch complaint")
	}

	// Toggle state for the requesting user, when they identify themselves.
	if userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID")); errMsg == "" {
		if voted, verr := h.votes.HasVoted(c.Context(), id, userID); verr == nil {
			resp.UserVoted = &voted
		} else {
			middleware.Logger.Warn().Err(verr).Str("complaint_id", id).
				Msg("complaint: vote state lookup failed")
		}
	}

	return c.JSON(resp)
}

// List handles GET /api/complaints?status=&category=&limit=&offset=
func (h *ComplaintHandler) List(c fiber.Ctx) error {
	f := repository.ListFilter{
		Status:   fiber.Query[string](c, "status"),
		Category: fiber.Query[string](c, "category"),
		Limit:    fiber.Query[int](c, "limit"),
		Offset:   fiber.Query[int](c, "offset"),
	}

	if f.Status != "" {
		switch model.ComplaintStatus(f.Status) {
		case model.StatusPending, model.StatusInProgress, model.StatusResolved, model.StatusCancelled:
		default:
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Unknown status filter")
		}
	}
	if f.Category != "" && !model.ValidCategories[f.Category] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "Unknown category filter")
	}

	resp, err := h.svc.List(c.Context(), f)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list complaints")
	}

	return c.JSON(resp)
}

// Categories handles GET /api/complaints/categories
func (h *ComplaintHandler) Categories(c fiber.Ctx) error {
	categories := make([]string, 0, len(model.ValidCategories))
	for cat := range model.ValidCategories {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return c.JSON(fiber.Map{"categories": categories})
}

// Delete handles DELETE /api/complaints/:id (admin only).
func (h *ComplaintHandler) Delete(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateComplaintID(c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	deleted, err := h.svc.Delete(c.Context(), id)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete complaint")
	}
	if !deleted {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Complaint not found")
	}

	middleware.Logger.Info().
		Str("complaint_id", id).
		Str("admin", middleware.AdminSubject(c)).
		Msg("complaint deleted")

	return c.JSON(fiber.Map{"success": true})
}
