package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComplaintStatus is the aggregate lifecycle state of a complaint. It is
// derived from the workflow stages and never set directly by clients except
// through the explicit admin override endpoint.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusCancelled  ComplaintStatus = "cancelled"
)

// ValidCategories are the allowed civic issue categories.
var ValidCategories = map[string]bool{
	"fire_hazard":        true,
	"electrical_danger":  true,
	"gas_leak":           true,
	"sewage_overflow":    true,
	"flooding":           true,
	"water_supply":       true,
	"broken_streetlight": true,
	"pothole":            true,
	"garbage_collection": true,
	"road_damage":        true,
	"tree_fall":          true,
	"stray_animals":      true,
	"noise_pollution":    true,
	"air_pollution":      true,
	"traffic_signal":     true,
	"street_cleaning":    true,
	"others":             true,
}

// Complaint represents a citizen-reported civic issue.
type Complaint struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Status             ComplaintStatus `json:"status"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
	Address            *string         `json:"address,omitempty"`
	ImageURL           *string         `json:"imageUrl,omitempty"`
	PriorityScore      decimal.Decimal `json:"priorityScore"`
	PriorityLevel      string          `json:"priorityLevel"`
	VoteCount          int             `json:"voteCount"`
	VerificationStatus string          `json:"verificationStatus"`
	CreatedBy          *string         `json:"createdBy,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// LocationData carries the optional coordinates of a submission.
type LocationData struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address,omitempty"`
}

// ImageValidation is the result of the external image validation service.
type ImageValidation struct {
	IsValidCivicIssue bool     `json:"isValidCivicIssue"`
	Confidence        float64  `json:"confidence"`
	PriorityScore     *float64 `json:"priorityScore,omitempty"`
}

// SubmitComplaintRequest is the API request body for creating a complaint.
type SubmitComplaintRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	LocationData    *LocationData    `json:"locationData,omitempty"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	ImageValidation *ImageValidation `json:"imageValidation,omitempty"`
	CreatedBy       string           `json:"createdBy,omitempty"`
}

// SubmitComplaintResponse is returned after a successful submission.
type SubmitComplaintResponse struct {
	Complaint Complaint        `json:"complaint"`
	Priority  PriorityAnalysis `json:"priority"`
}

// ComplaintDetailResponse is the full read view of a complaint. UserVoted is
// per-requester and filled after any cache read, never stored.
type ComplaintDetailResponse struct {
	Complaint Complaint       `json:"complaint"`
	Stages    []WorkflowStage `json:"stages"`
	UserVoted *bool           `json:"userVoted,omitempty"`
}

// ComplaintListResponse is a paginated complaint listing.
type ComplaintListResponse struct {
	Complaints []Complaint `json:"complaints"`
	Total      int         `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}
