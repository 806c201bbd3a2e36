package service

import (
	"errors"
	"testing"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	p, ip, co, ca := model.StagePending, model.StageInProgress, model.StageCompleted, model.StageCancelled

	tests := []struct {
		name      string
		statuses  []model.StageStatus
		latestIdx int
		want      model.ComplaintStatus
	}{
		{"no stages", nil, -1, model.StatusPending},
		{"all pending", []model.StageStatus{p, p, p}, 0, model.StatusPending},
		{"all completed", []model.StageStatus{co, co, co}, 2, model.StatusResolved},
		{"first stage running", []model.StageStatus{ip, p, p}, 0, model.StatusInProgress},
		{"middle stage running", []model.StageStatus{co, ip, p}, 1, model.StatusInProgress},
		{"last stage running", []model.StageStatus{co, co, ip}, 2, model.StatusInProgress},
		{"latest cancelled with nothing completed", []model.StageStatus{ca, p, p}, 0, model.StatusCancelled},
		{"cancelled but work already done", []model.StageStatus{co, ca, p}, 1, model.StatusPending},
		{"cancelled stage not the latest update", []model.StageStatus{ca, p, p}, 1, model.StatusPending},
		{"in_progress outranks a cancelled latest", []model.StageStatus{ip, ca, p}, 1, model.StatusInProgress},
		{"two completed one pending", []model.StageStatus{co, co, p}, 1, model.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.statuses, tt.latestIdx); got != tt.want {
				t.Errorf("DeriveStatus(%v, %d) = %s, want %s",
					tt.statuses, tt.latestIdx, got, tt.want)
			}
		})
	}
}

// Every combination of three stage statuses must derive a valid aggregate and
// honor the all-completed and any-in-progress rules.
func TestDeriveStatus_Exhaustive(t *testing.T) {
	all := []model.StageStatus{
		model.StagePending, model.StageInProgress, model.StageCompleted, model.StageCancelled,
	}

	for _, s1 := range all {
		for _, s2 := range all {
			for _, s3 := range all {
				for latest := 0; latest < 3; latest++ {
					statuses := []model.StageStatus{s1, s2, s3}
					got := DeriveStatus(statuses, latest)

					switch got {
					case model.StatusPending, model.StatusInProgress,
						model.StatusResolved, model.StatusCancelled:
					default:
						t.Fatalf("DeriveStatus(%v, %d) produced unknown status %q", statuses, latest, got)
					}

					allCompleted := s1 == model.StageCompleted &&
						s2 == model.StageCompleted && s3 == model.StageCompleted
					if allCompleted && got != model.StatusResolved {
						t.Errorf("DeriveStatus(%v, %d) = %s, want resolved", statuses, latest, got)
					}

					anyInProgress := s1 == model.StageInProgress ||
						s2 == model.StageInProgress || s3 == model.StageInProgress
					if !allCompleted && anyInProgress && got != model.StatusInProgress {
						t.Errorf("DeriveStatus(%v, %d) = %s, want in_progress", statuses, latest, got)
					}
				}
			}
		}
	}
}

func TestValidateStageTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    model.StageStatus
		to      model.StageStatus
		allowed bool
	}{
		{"pending to in_progress", model.StagePending, model.StageInProgress, true},
		{"pending straight to completed", model.StagePending, model.StageCompleted, true},
		{"pending to cancelled", model.StagePending, model.StageCancelled, true},
		{"in_progress to completed", model.StageInProgress, model.StageCompleted, true},
		{"in_progress to cancelled", model.StageInProgress, model.StageCancelled, true},
		{"in_progress back to pending", model.StageInProgress, model.StagePending, false},
		{"completed reopened for rework", model.StageCompleted, model.StageInProgress, true},
		{"completed back to pending", model.StageCompleted, model.StagePending, false},
		{"completed to cancelled", model.StageCompleted, model.StageCancelled, false},
		{"cancelled is terminal", model.StageCancelled, model.StageInProgress, false},
		{"cancelled to completed", model.StageCancelled, model.StageCompleted, false},
		{"idempotent re-apply", model.StageInProgress, model.StageInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStageTransition(tt.from, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("transition %s -> %s should be allowed, got %v", tt.from, tt.to, err)
			}
			if !tt.allowed {
				if err == nil {
					t.Errorf("transition %s -> %s should be rejected", tt.from, tt.to)
				} else if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("rejection should wrap ErrInvalidTransition, got %v", err)
				}
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if !isTerminal(model.StatusResolved) || !isTerminal(model.StatusCancelled) {
		t.Error("resolved and cancelled are terminal")
	}
	if isTerminal(model.StatusPending) || isTerminal(model.StatusInProgress) {
		t.Error("pending and in_progress are not terminal")
	}
}
