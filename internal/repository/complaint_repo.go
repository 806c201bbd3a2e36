package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

type ComplaintRepo struct {
	pool     *pgxpool.Pool
	workflow *WorkflowRepo
}

func NewComplaintRepo(pool *pgxpool.Pool, workflow *WorkflowRepo) *ComplaintRepo {
	return &ComplaintRepo{pool: pool, workflow: workflow}
}

const complaintColumns = `
	id, title, description, category, status, latitude, longitude, address,
	image_url, priority_score, priority_level, vote_count, verification_status,
	created_by, created_at, updated_at`

// Create inserts the complaint and seeds its three workflow stages in one
// transaction.
func (r *ComplaintRepo) Create(ctx context.Context, c *model.Complaint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO complaints (
			id, title, description, category, status, latitude, longitude,
			address, image_url, priority_score, priority_level,
			verification_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		c.ID, c.Title, c.Description, c.Category, c.Status, c.Latitude, c.Longitude,
		c.Address, c.ImageURL, c.PriorityScore, c.PriorityLevel,
		c.VerificationStatus, c.CreatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	if err := r.workflow.SeedStages(ctx, tx, c.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByID returns a single complaint.
func (r *ComplaintRepo) FindByID(ctx context.Context, id string) (*model.Complaint, error) {
	var c model.Complaint
	err := r.pool.QueryRow(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Status,
		&c.Latitude, &c.Longitude, &c.Address, &c.ImageURL,
		&c.PriorityScore, &c.PriorityLevel, &c.VoteCount, &c.VerificationStatus,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListFilter controls the paginated listing.
type ListFilter struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// List returns complaints ordered by priority score then recency, with
// optional status/category filters and range pagination.
func (r *ComplaintRepo) List(ctx context.Context, f ListFilter) ([]model.Complaint, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := "WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM complaints `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM complaints %s
		ORDER BY priority_score DESC, created_at DESC
		LIMIT $%d OFFSET $%d`,
		complaintColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var complaints []model.Complaint
	for rows.Next() {
		var c model.Complaint
		err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Category, &c.Status,
			&c.Latitude, &c.Longitude, &c.Address, &c.ImageURL,
			&c.PriorityScore, &c.PriorityLevel, &c.VoteCount, &c.VerificationStatus,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, c)
	}
	return complaints, total, rows.Err()
}

// UpdatePriority rewrites the stored score and level, e.g. after a
// comprehensive recalculation. The caller clamps the score before the write.
func (r *ComplaintRepo) UpdatePriority(ctx context.Context, id string,
	score decimal.Decimal, level model.PriorityLevel) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE complaints SET priority_score = $1, priority_level = $2, updated_at = NOW()
		WHERE id = $3`, score, level, id)
	return err
}

// CascadeDelete removes a complaint and every dependent row in dependency
// order (votes, timeline, stages, then the complaint) inside one transaction.
// Returns the number of complaint rows deleted.
func (r *ComplaintRepo) CascadeDelete(ctx context.Context, id string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM complaint_votes WHERE complaint_id = $1`,
		`DELETE FROM stage_timeline WHERE complaint_id = $1`,
		`DELETE FROM workflow_stages WHERE complaint_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return 0, err
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), tx.Commit(ctx)
}

// IDsWithRecentVotes returns complaint ids whose votes changed since the
// cutoff, feeding the priority recalculation worker.
func (r *ComplaintRepo) IDsWithRecentVotes(ctx context.Context, cutoff string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT complaint_id FROM complaint_votes
		WHERE created_at > NOW() - $1::interval`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
