package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/pkg/hash"
)

// voteToggler is the slice of VoteRepo the service depends on; tests swap in
// an in-memory implementation.
type voteToggler interface {
	Toggle(ctx context.Context, complaintID, voterID string) (model.VoteAction, int, error)
	HasVoted(ctx context.Context, complaintID, voterID string) (bool, error)
}

// VoteService implements the toggle state machine over the vote ledger.
// Per-voter states are NoVote and Upvoted; toggling an existing vote deletes
// the row (delete-on-unvote is the sole policy, downvote rows are never
// written).
type VoteService struct {
	repo  voteToggler
	cache *CacheService

	// When false, guest votes always get one-shot anonymous ids and can
	// never be toggled back.
	guestTrackable bool
}

func NewVoteService(repo voteToggler, cache *CacheService, guestTrackable bool) *VoteService {
	return &VoteService{repo: repo, cache: cache, guestTrackable: guestTrackable}
}

// Toggle flips an authenticated user's vote.
func (s *VoteService) Toggle(ctx context.Context, complaintID, userID string) (*model.VoteResponse, error) {
	return s.toggle(ctx, complaintID, userID)
}

// ToggleGuest flips an anonymous device's vote. The voter id is derived
// deterministically from the device id so repeat calls from the same device
// toggle the same ledger row.
func (s *VoteService) ToggleGuest(ctx context.Context, complaintID, deviceID string) (*model.VoteResponse, error) {
	return s.toggle(ctx, complaintID, s.GuestVoterID(deviceID))
}

// HasVoted reports whether the user currently holds a vote on the complaint.
// Detail reads use it to render the toggle state without mutating anything.
func (s *VoteService) HasVoted(ctx context.Context, complaintID, userID string) (bool, error) {
	return s.repo.HasVoted(ctx, complaintID, userID)
}

// GuestVoterID maps a device id to its ledger identity. A missing device id
// (or untrackable-guests deployments) yields a fresh one-shot id: the vote
// still counts but cannot be toggled later.
func (s *VoteService) GuestVoterID(deviceID string) string {
	if deviceID == "" || !s.guestTrackable {
		return "anon_" + uuid.NewString()
	}
	return hash.GuestVoterID(deviceID)
}

func (s *VoteService) toggle(ctx context.Context, complaintID, voterID string) (*model.VoteResponse, error) {
	action, count, err := s.repo.Toggle(ctx, complaintID, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyVoted) {
			// Lost an insert race: the voter's vote is already on record.
			return &model.VoteResponse{Action: model.VoteAdded, VoteCount: count, UserVoted: true}, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if cerr := s.cache.InvalidateComplaint(ctx, complaintID); cerr != nil {
			middleware.Logger.Warn().Err(cerr).
				Str("complaint_id", complaintID).
				Msg("vote: cache invalidate failed")
		}
	}

	return &model.VoteResponse{
		Action:    action,
		VoteCount: count,
		UserVoted: action == model.VoteAdded,
	}, nil
}
