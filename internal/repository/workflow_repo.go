package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

type WorkflowRepo struct {
	pool *pgxpool.Pool
}

func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// SeedStages creates the three ordered stages for a new complaint inside the
// caller's transaction.
func (r *WorkflowRepo) SeedStages(ctx context.Context, tx pgx.Tx, complaintID string) error {
	for order := model.StageOrderInitialReview; order <= model.StageOrderResolution; order++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO workflow_stages (complaint_id, stage_order, stage_name, status)
			VALUES ($1, $2, $3, 'pending')`,
			complaintID, order, model.StageNames[order])
		if err != nil {
			return err
		}
	}
	return nil
}

// GetStages returns the complaint's stages in order.
func (r *WorkflowRepo) GetStages(ctx context.Context, complaintID string) ([]model.WorkflowStage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, complaint_id, stage_order, stage_name, status,
		       assignee, cost_estimate, started_at, completed_at, updated_at
		FROM workflow_stages
		WHERE complaint_id = $1
		ORDER BY stage_order ASC`, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.WorkflowStage
	for rows.Next() {
		var st model.WorkflowStage
		err := rows.Scan(&st.ID, &st.ComplaintID, &st.StageOrder, &st.StageName, &st.Status,
			&st.Assignee, &st.CostEstimate, &st.StartedAt, &st.CompletedAt, &st.UpdatedAt)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

// UpdateStage persists one stage transition plus its audit entry and the
// derived complaint status, all in one transaction. newComplaintStatus is the
// reconciled aggregate computed by the service.
func (r *WorkflowRepo) UpdateStage(ctx context.Context, complaintID string, stageOrder int,
	req model.UpdateStageRequest, oldStatus model.StageStatus, newComplaintStatus model.ComplaintStatus) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var startedAt, completedAt *time.Time
	if req.Status == model.StageInProgress {
		startedAt = &now
	}
	if req.Status == model.StageCompleted {
		completedAt = &now
	}

	_, err = tx.Exec(ctx, `
		UPDATE workflow_stages SET
			status = $1,
			assignee = COALESCE($2, assignee),
			cost_estimate = COALESCE($3, cost_estimate),
			started_at = COALESCE($4, started_at),
			completed_at = COALESCE($5, completed_at),
			updated_at = NOW()
		WHERE complaint_id = $6 AND stage_order = $7`,
		req.Status, req.Assignee, req.CostEstimate, startedAt, completedAt,
		complaintID, stageOrder)
	if err != nil {
		return err
	}

	if err := r.appendTimeline(ctx, tx, complaintID, stageOrder, oldStatus, req.Status, req.Actor, req.Notes); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE complaints SET status = $1, updated_at = NOW() WHERE id = $2`,
		newComplaintStatus, complaintID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// OverrideStatus applies an explicit admin resolve/reject: the complaint
// status is set directly and the stage view is rewritten to stay consistent
// with it (resolved completes every stage, cancelled cancels pending ones).
func (r *WorkflowRepo) OverrideStatus(ctx context.Context, complaintID string,
	status model.ComplaintStatus, actor, notes string) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	switch status {
	case model.StatusResolved:
		_, err = tx.Exec(ctx, `
			UPDATE workflow_stages SET status = 'completed',
				completed_at = COALESCE(completed_at, NOW()), updated_at = NOW()
			WHERE complaint_id = $1 AND status <> 'completed'`, complaintID)
	case model.StatusCancelled:
		_, err = tx.Exec(ctx, `
			UPDATE workflow_stages SET status = 'cancelled', updated_at = NOW()
			WHERE complaint_id = $1 AND status IN ('pending', 'in_progress')`, complaintID)
	}
	if err != nil {
		return err
	}

	if err := r.appendTimeline(ctx, tx, complaintID, 0, "", model.StageStatus(status), actor, notes); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `
		UPDATE complaints SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, complaintID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// GetTimeline returns the immutable audit trail, newest first.
func (r *WorkflowRepo) GetTimeline(ctx context.Context, complaintID string) ([]model.TimelineEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, complaint_id, stage_order, old_status, new_status, actor, notes, created_at
		FROM stage_timeline
		WHERE complaint_id = $1
		ORDER BY created_at DESC`, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimelineEntry
	for rows.Next() {
		var e model.TimelineEntry
		err := rows.Scan(&e.ID, &e.ComplaintID, &e.StageOrder, &e.OldStatus, &e.NewStatus,
			&e.Actor, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestStageUpdate returns the stage order of the most recently updated
// stage; stage mutation responses report it as the current stage.
func (r *WorkflowRepo) LatestStageUpdate(ctx context.Context, complaintID string) (int, error) {
	var order int
	err := r.pool.QueryRow(ctx, `
		SELECT stage_order FROM workflow_stages
		WHERE complaint_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`, complaintID).Scan(&order)
	return order, err
}

func (r *WorkflowRepo) appendTimeline(ctx context.Context, tx pgx.Tx, complaintID string,
	stageOrder int, oldStatus, newStatus model.StageStatus, actor, notes string) error {
	if actor == "" {
		actor = "system"
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO stage_timeline (complaint_id, stage_order, old_status, new_status, actor, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		complaintID, stageOrder, oldStatus, newStatus, actor, notes)
	return err
}
