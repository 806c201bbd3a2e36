package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
)

// ComplaintService orchestrates submission: priority analysis at write time,
// persistence with seeded workflow stages, and cached reads.
type ComplaintService struct {
	repo     *repository.ComplaintRepo
	priority *PriorityService
	vision   client.VisionValidator
	cache    *CacheService
}

func NewComplaintService(repo *repository.ComplaintRepo, priority *PriorityService,
	vision client.VisionValidator, cache *CacheService) *ComplaintService {
	return &ComplaintService{repo: repo, priority: priority, vision: vision, cache: cache}
}

// Submit computes priority once at creation time and persists the complaint.
func (s *ComplaintService) Submit(ctx context.Context, req model.SubmitComplaintRequest) (*model.SubmitComplaintResponse, error) {
	imageValidation := req.ImageValidation
	if imageValidation == nil && req.ImageURL != "" && s.vision != nil && s.vision.Available() {
		if res, err := s.vision.ValidateImage(ctx, req.ImageURL, req.Category); err == nil {
			imageValidation = res
		} else {
			middleware.Logger.Warn().Err(err).Msg("complaint: image validation degraded")
		}
	}

	analysis := s.priority.Compute(ctx, model.CalculatePriorityRequest{
		Description:     req.Description,
		Category:        req.Category,
		LocationData:    req.LocationData,
		ImageValidation: imageValidation,
	})

	verification := "unverified"
	if imageValidation != nil && imageValidation.IsValidCivicIssue {
		verification = "image_verified"
	}

	c := model.Complaint{
		ID:                 uuid.NewString(),
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		Category:           normalizeCategory(req.Category),
		Status:             model.StatusPending,
		PriorityScore:      StorageScore(analysis.TotalScore),
		PriorityLevel:      string(analysis.Level),
		VerificationStatus: verification,
	}
	if req.LocationData != nil {
		c.Latitude = req.LocationData.Latitude
		c.Longitude = req.LocationData.Longitude
		c.Address = req.LocationData.Address
	}
	if req.ImageURL != "" {
		c.ImageURL = &req.ImageURL
	}
	if req.CreatedBy != "" {
		c.CreatedBy = &req.CreatedBy
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}

	return &model.SubmitComplaintResponse{Complaint: c, Priority: analysis}, nil
}

// Preview runs the same analysis as Submit without persisting anything.
func (s *ComplaintService) Preview(ctx context.Context, req model.CalculatePriorityRequest) model.PriorityAnalysis {
	return s.priority.Compute(ctx, req)
}

// Get returns the complaint with its workflow stages, cache-aside.
func (s *ComplaintService) Get(ctx context.Context, id string, workflow *repository.WorkflowRepo) (*model.ComplaintDetailResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetComplaint(ctx, id); err != nil {
			middleware.Logger.Warn().Err(err).Msg("complaint: cache get failed")
		} else if cached != nil {
			var resp model.ComplaintDetailResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stages, err := workflow.GetStages(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &model.ComplaintDetailResponse{Complaint: *c, Stages: stages}
	if s.cache != nil {
		if err := s.cache.SetComplaint(ctx, id, resp); err != nil {
			middleware.Logger.Warn().Err(err).Msg("complaint: cache set failed")
		}
	}
	return resp, nil
}

// List returns a filtered, paginated complaint listing.
func (s *ComplaintService) List(ctx context.Context, f repository.ListFilter) (*model.ComplaintListResponse, error) {
	complaints, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []model.Complaint{}
	}
	return &model.ComplaintListResponse{
		Complaints: complaints,
		Total:      total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

// Delete performs the admin cascade delete. Returns false when the complaint
// does not exist.
func (s *ComplaintService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.CascadeDelete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted > 0 && s.cache != nil {
		if cerr := s.cache.InvalidateComplaint(ctx, id); cerr != nil {
			middleware.Logger.Warn().Err(cerr).Msg("complaint: cache invalidate failed after delete")
		}
	}
	return deleted > 0, nil
}

// Recalculate reruns the comprehensive blend for an existing complaint and
// persists the clamped score.
func (s *ComplaintService) Recalculate(ctx context.Context, id string) (*model.PriorityAnalysis, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var imageScore float64
	if c.VerificationStatus == "image_verified" {
		imageScore = 0.8
	}

	analysis := s.priority.ComputeComprehensive(ctx, c, imageScore)
	score := StorageScore(analysis.TotalScore)

	// The recalc tick revisits every recently voted complaint; most scores
	// settle, and an unchanged one needs no write or cache purge.
	if ScoreToFloat(score) == ScoreToFloat(c.PriorityScore) && string(analysis.Level) == c.PriorityLevel {
		return &analysis, nil
	}

	if err := s.repo.UpdatePriority(ctx, id, score, analysis.Level); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cerr := s.cache.InvalidateComplaint(ctx, id); cerr != nil {
			middleware.Logger.Warn().Err(cerr).Msg("complaint: cache invalidate failed after recalc")
		}
	}
	return &analysis, nil
}

// ScoreToFloat exposes a stored decimal score as float for comparisons and
// aggregations.
func ScoreToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
