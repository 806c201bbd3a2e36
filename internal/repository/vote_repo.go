package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// ErrAlreadyVoted is returned when a concurrent insert hits the
// (complaint_id, voter_id) unique constraint. Callers treat it as "the vote
// already exists", never as a request failure.
var ErrAlreadyVoted = errors.New("vote already recorded for this voter")

const uniqueViolationCode = "23505"

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// Toggle flips the voter's state on a complaint inside one transaction:
// no row → insert upvote and increment the denormalized count; existing row →
// delete it and decrement. The authoritative count is re-read from the
// complaint row after the mutation rather than derived in memory.
func (r *VoteRepo) Toggle(ctx context.Context, complaintID, voterID string) (model.VoteAction, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback(ctx)

	// Complaint must exist; also locks the row for the counter update.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM complaints WHERE id = $1)`, complaintID).Scan(&exists)
	if err != nil {
		return "", 0, err
	}
	if !exists {
		return "", 0, pgx.ErrNoRows
	}

	var voteType string
	err = tx.QueryRow(ctx, `
		SELECT vote_type FROM complaint_votes
		WHERE complaint_id = $1 AND voter_id = $2`,
		complaintID, voterID).Scan(&voteType)
	hasVote := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", 0, err
	}

	var action model.VoteAction
	if hasVote {
		// Canonical un-vote policy: delete the row, never persist downvotes.
		_, err = tx.Exec(ctx, `
			DELETE FROM complaint_votes
			WHERE complaint_id = $1 AND voter_id = $2`,
			complaintID, voterID)
		if err != nil {
			return "", 0, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE complaints SET vote_count = vote_count - 1, updated_at = NOW()
			WHERE id = $1 AND vote_count > 0`, complaintID)
		if err != nil {
			return "", 0, err
		}
		action = model.VoteRemoved
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO complaint_votes (complaint_id, voter_id, vote_type)
			VALUES ($1, $2, 'upvote')`,
			complaintID, voterID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				// A concurrent toggle won the insert race. Report the
				// current state instead of failing.
				count, countErr := r.VoteCount(ctx, complaintID)
				if countErr != nil {
					count = 0
				}
				return model.VoteAdded, count, ErrAlreadyVoted
			}
			return "", 0, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE complaints SET vote_count = vote_count + 1, updated_at = NOW()
			WHERE id = $1`, complaintID)
		if err != nil {
			// Counter and vote row move in the same tx; a failed update
			// aborts both rather than committing a stale count.
			return "", 0, err
		}
		action = model.VoteAdded
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, err
	}

	count, err := r.VoteCount(ctx, complaintID)
	if err != nil {
		middleware.Logger.Warn().Err(err).
			Str("complaint_id", complaintID).
			Msg("vote: count re-read failed after toggle")
		return action, 0, nil
	}
	return action, count, nil
}

// VoteCount reads the denormalized counter from the complaint row.
func (r *VoteRepo) VoteCount(ctx context.Context, complaintID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT vote_count FROM complaints WHERE id = $1`, complaintID).Scan(&count)
	return count, err
}

// HasVoted reports whether the voter currently has a vote on the complaint.
func (r *VoteRepo) HasVoted(ctx context.Context, complaintID, voterID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM complaint_votes
			WHERE complaint_id = $1 AND voter_id = $2)`,
		complaintID, voterID).Scan(&exists)
	return exists, err
}

// ReconcileCount rewrites vote_count from the actual upvote rows. Used by
// the recalculation worker to repair accepted drift.
func (r *VoteRepo) ReconcileCount(ctx context.Context, complaintID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE complaints SET vote_count = (
			SELECT COUNT(*) FROM complaint_votes
			WHERE complaint_id = $1 AND vote_type = 'upvote')
		WHERE id = $1`, complaintID)
	return err
}
