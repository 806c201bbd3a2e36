package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
)

// PriorityWorker is a periodic background job that re-runs the comprehensive
// priority blend for complaints whose votes changed recently, and repairs any
// accepted vote-count drift while it is at it.
type PriorityWorker struct {
	complaints    *ComplaintService
	votes         *repository.VoteRepo
	complaintRepo *repository.ComplaintRepo
	interval      time.Duration
	stopCh        chan struct{}
}

// NewPriorityWorker creates a worker that ticks every interval.
func NewPriorityWorker(complaints *ComplaintService, votes *repository.VoteRepo,
	complaintRepo *repository.ComplaintRepo, interval time.Duration) *PriorityWorker {
	return &PriorityWorker{
		complaints:    complaints,
		votes:         votes,
		complaintRepo: complaintRepo,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic recalculation loop. It runs one tick
// immediately, then every interval.
func (w *PriorityWorker) Start(ctx context.Context) {
	middleware.Logger.Info().Dur("interval", w.interval).Msg("priority-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			middleware.Logger.Info().Msg("priority-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			middleware.Logger.Info().Msg("priority-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *PriorityWorker) Stop() {
	close(w.stopCh)
}

func (w *PriorityWorker) tick(ctx context.Context) {
	start := time.Now()

	// Postgres reads a bare "m" suffix as months, so spell the cutoff out.
	cutoff := fmt.Sprintf("%d seconds", int(w.interval.Seconds()))
	ids, err := w.complaintRepo.IDsWithRecentVotes(ctx, cutoff)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("priority-worker: fetch failed")
		return
	}

	recalculated := 0
	for _, id := range ids {
		if err := w.votes.ReconcileCount(ctx, id); err != nil {
			middleware.Logger.Warn().Err(err).Str("complaint_id", id).
				Msg("priority-worker: count reconcile failed")
		}
		if _, err := w.complaints.Recalculate(ctx, id); err != nil {
			middleware.Logger.Warn().Err(err).Str("complaint_id", id).
				Msg("priority-worker: recalculation failed")
			continue
		}
		recalculated++
	}

	if recalculated > 0 {
		middleware.Logger.Info().
			Int("recalculated", recalculated).
			Int("candidates", len(ids)).
			Dur("elapsed", time.Since(start)).
			Msg("priority-worker: tick complete")
	}
}
