package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// DashboardStats is the transparency dashboard aggregate.
type DashboardStats struct {
	TotalComplaints int               `json:"totalComplaints"`
	ByStatus        map[string]int    `json:"byStatus"`
	ByCategory      map[string]int    `json:"byCategory"`
	ByPriorityLevel map[string]int    `json:"byPriorityLevel"`
	ResolutionRate  float64           `json:"resolutionRate"`
	TotalVotes      int               `json:"totalVotes"`
	TopVoted        []model.Complaint `json:"topVoted"`
}

// SummaryStats is the lightweight statistics summary.
type SummaryStats struct {
	TotalComplaints  int     `json:"totalComplaints"`
	Pending          int     `json:"pending"`
	InProgress       int     `json:"inProgress"`
	Resolved         int     `json:"resolved"`
	Cancelled        int     `json:"cancelled"`
	ResolutionRate   float64 `json:"resolutionRate"`
	AvgPriorityScore float64 `json:"avgPriorityScore"`
	Complaints24h    int     `json:"complaints24h"`
}

// GetSummary returns headline counters in one round trip.
func (r *StatsRepo) GetSummary(ctx context.Context) (*SummaryStats, error) {
	var s SummaryStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(AVG(priority_score), 0),
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours')
		FROM complaints`).Scan(
		&s.TotalComplaints, &s.Pending, &s.InProgress, &s.Resolved, &s.Cancelled,
		&s.AvgPriorityScore, &s.Complaints24h)
	if err != nil {
		return nil, err
	}

	if s.TotalComplaints > 0 {
		s.ResolutionRate = float64(s.Resolved) / float64(s.TotalComplaints)
	}
	return &s, nil
}

// GetDashboard returns the full transparency dashboard aggregates.
func (r *StatsRepo) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	summary, err := r.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalComplaints: summary.TotalComplaints,
		ResolutionRate:  summary.ResolutionRate,
		ByStatus: map[string]int{
			"pending":     summary.Pending,
			"in_progress": summary.InProgress,
			"resolved":    summary.Resolved,
			"cancelled":   summary.Cancelled,
		},
		ByCategory:      make(map[string]int),
		ByPriorityLevel: make(map[string]int),
	}

	if err := r.groupCount(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category`, stats.ByCategory); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT priority_level, COUNT(*) FROM complaints GROUP BY priority_level`, stats.ByPriorityLevel); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM complaint_votes`).Scan(&stats.TotalVotes); err != nil {
		return nil, err
	}

	topVoted, err := r.topVoted(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopVoted = topVoted

	return stats, nil
}

func (r *StatsRepo) topVoted(ctx context.Context, limit int) ([]model.Complaint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE status IN ('pending', 'in_progress')
		ORDER BY vote_count DESC, priority_score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
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
			return nil, err
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (r *StatsRepo) groupCount(ctx context.Context, query string, dest map[string]int) error {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}
