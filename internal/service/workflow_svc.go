package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
)

// ErrInvalidTransition marks stage updates the state machine refuses.
var ErrInvalidTransition = errors.New("invalid stage transition")

// WorkflowService keeps a complaint's aggregate status consistent with its
// three ordered stage statuses. The complaint status is always write-derived;
// only the explicit admin override sets it directly, and even that rewrites
// the stage view to match.
type WorkflowService struct {
	repo  *repository.WorkflowRepo
	cache *CacheService
}

func NewWorkflowService(repo *repository.WorkflowRepo, cache *CacheService) *WorkflowService {
	return &WorkflowService{repo: repo, cache: cache}
}

// Repo exposes the underlying stage repository for read paths that join
// complaints with their stages.
func (s *WorkflowService) Repo() *repository.WorkflowRepo {
	return s.repo
}

// DeriveStatus computes the aggregate complaint status from the stage
// statuses. latestIdx is the index of the most recently updated stage.
//
//	all completed                                → resolved
//	any in_progress (and not all completed)      → in_progress
//	latest update cancelled, nothing completed   → cancelled
//	otherwise                                    → pending
func DeriveStatus(statuses []model.StageStatus, latestIdx int) model.ComplaintStatus {
	if len(statuses) == 0 {
		return model.StatusPending
	}

	allCompleted := true
	anyInProgress := false
	anyCompleted := false
	for _, st := range statuses {
		if st != model.StageCompleted {
			allCompleted = false
		} else {
			anyCompleted = true
		}
		if st == model.StageInProgress {
			anyInProgress = true
		}
	}

	switch {
	case allCompleted:
		return model.StatusResolved
	case anyInProgress:
		return model.StatusInProgress
	case latestIdx >= 0 && latestIdx < len(statuses) &&
		statuses[latestIdx] == model.StageCancelled && !anyCompleted:
		return model.StatusCancelled
	default:
		return model.StatusPending
	}
}

// UpdateStage applies one stage transition, appends the audit entry, and
// writes the reconciled complaint status in the same logical operation.
func (s *WorkflowService) UpdateStage(ctx context.Context, complaintID string, stageOrder int,
	req model.UpdateStageRequest, currentComplaintStatus model.ComplaintStatus) (*model.StageUpdateResponse, error) {

	if !model.ValidStageStatuses[req.Status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.Status)
	}
	if stageOrder < model.StageOrderInitialReview || stageOrder > model.StageOrderResolution {
		return nil, fmt.Errorf("%w: stage %d does not exist", ErrInvalidTransition, stageOrder)
	}

	stages, err := s.repo.GetStages(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("complaint %s has no workflow stages", complaintID)
	}

	var current *model.WorkflowStage
	for i := range stages {
		if stages[i].StageOrder == stageOrder {
			current = &stages[i]
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("%w: stage %d not found", ErrInvalidTransition, stageOrder)
	}

	if err := validateStageTransition(current.Status, req.Status); err != nil {
		return nil, err
	}

	// Project the update and reconcile the aggregate.
	statuses := make([]model.StageStatus, len(stages))
	latestIdx := 0
	for i, st := range stages {
		statuses[i] = st.Status
		if st.StageOrder == stageOrder {
			statuses[i] = req.Status
			latestIdx = i
		}
	}
	derived := DeriveStatus(statuses, latestIdx)

	// Terminal complaints are never un-resolved implicitly: stage edits are
	// accepted but the aggregate only moves off resolved/cancelled via the
	// explicit override.
	if isTerminal(currentComplaintStatus) && !isTerminal(derived) {
		derived = currentComplaintStatus
	}

	if err := s.repo.UpdateStage(ctx, complaintID, stageOrder, req, current.Status, derived); err != nil {
		return nil, err
	}

	s.invalidate(ctx, complaintID)
	return s.stageResponse(ctx, complaintID, derived)
}

// AdvanceStage completes the earliest non-completed stage and starts the
// next one, driving the happy path without per-stage bookkeeping by callers.
func (s *WorkflowService) AdvanceStage(ctx context.Context, complaintID, actor string,
	currentComplaintStatus model.ComplaintStatus) (*model.StageUpdateResponse, error) {

	stages, err := s.repo.GetStages(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("complaint %s has no workflow stages", complaintID)
	}

	for _, st := range stages {
		if st.Status == model.StageCompleted || st.Status == model.StageCancelled {
			continue
		}
		req := model.UpdateStageRequest{
			Status: model.StageCompleted,
			Actor:  actor,
			Notes:  "stage advanced",
		}
		resp, err := s.UpdateStage(ctx, complaintID, st.StageOrder, req, currentComplaintStatus)
		if err != nil {
			return nil, err
		}

		// Start the following stage unless the complaint just resolved.
		if st.StageOrder < model.StageOrderResolution && resp.ComplaintStatus != model.StatusResolved {
			next := model.UpdateStageRequest{
				Status: model.StageInProgress,
				Actor:  actor,
				Notes:  "stage started",
			}
			return s.UpdateStage(ctx, complaintID, st.StageOrder+1, next, resp.ComplaintStatus)
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w: all stages already finished", ErrInvalidTransition)
}

// OverrideStatus is the admin resolve/reject shortcut.
func (s *WorkflowService) OverrideStatus(ctx context.Context, complaintID string,
	status model.ComplaintStatus, actor, notes string) (*model.StageUpdateResponse, error) {

	if status != model.StatusResolved && status != model.StatusCancelled {
		return nil, fmt.Errorf("%w: override only supports resolved or cancelled", ErrInvalidTransition)
	}

	if err := s.repo.OverrideStatus(ctx, complaintID, status, actor, notes); err != nil {
		return nil, err
	}

	s.invalidate(ctx, complaintID)
	return s.stageResponse(ctx, complaintID, status)
}

// Timeline returns the complaint's audit trail.
func (s *WorkflowService) Timeline(ctx context.Context, complaintID string) ([]model.TimelineEntry, error) {
	return s.repo.GetTimeline(ctx, complaintID)
}

// validateStageTransition enforces forward-only stage movement with explicit
// cancellation. A completed stage may be reopened for rework, but the
// aggregate clamp in UpdateStage keeps a resolved complaint resolved;
// cancelled stages are terminal.
func validateStageTransition(from, to model.StageStatus) error {
	if from == to {
		return nil // idempotent re-apply
	}
	allowed := map[model.StageStatus][]model.StageStatus{
		model.StagePending:    {model.StageInProgress, model.StageCompleted, model.StageCancelled},
		model.StageInProgress: {model.StageCompleted, model.StageCancelled},
		model.StageCompleted:  {model.StageInProgress},
	}
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
}

func isTerminal(status model.ComplaintStatus) bool {
	return status == model.StatusResolved || status == model.StatusCancelled
}

func (s *WorkflowService) stageResponse(ctx context.Context, complaintID string,
	status model.ComplaintStatus) (*model.StageUpdateResponse, error) {
	stages, err := s.repo.GetStages(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	// Most recently touched stage, so clients can focus their stage view.
	current, err := s.repo.LatestStageUpdate(ctx, complaintID)
	if err != nil {
		current = 0
	}

	return &model.StageUpdateResponse{
		Stages:          stages,
		ComplaintStatus: status,
		CurrentStage:    current,
	}, nil
}

func (s *WorkflowService) invalidate(ctx context.Context, complaintID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateComplaint(ctx, complaintID); err != nil {
		middleware.Logger.Warn().Err(err).
			Str("complaint_id", complaintID).
			Msg("workflow: cache invalidate failed")
	}
}
