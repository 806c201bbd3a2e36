package model

import "time"

// VoteAction describes the outcome of a toggle.
type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
)

// Vote represents an individual vote record. The (ComplaintID, VoterID) pair
// is unique; the database constraint is the concurrency safety net.
type Vote struct {
	ComplaintID string    `json:"complaintId"`
	VoterID     string    `json:"voterId"`
	VoteType    string    `json:"voteType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VoteRequest is the API request body for an authenticated vote toggle.
type VoteRequest struct {
	ComplaintID string `json:"complaintId"`
	UserID      string `json:"userId"`
}

// GuestVoteRequest is the API request body for an anonymous vote toggle.
// DeviceID, when present, maps deterministically to a pseudo voter id so the
// same device can later un-vote.
type GuestVoteRequest struct {
	ComplaintID string `json:"complaintId"`
	DeviceID    string `json:"deviceId,omitempty"`
}

// VoteResponse is the API response after a toggle.
type VoteResponse struct {
	Action    VoteAction `json:"action"`
	VoteCount int        `json:"voteCount"`
	UserVoted bool       `json:"userVoted"`
}
