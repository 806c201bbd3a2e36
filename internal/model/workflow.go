package model

import "time"

// StageStatus is the lifecycle state of a single workflow stage.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageCancelled  StageStatus = "cancelled"
)

// ValidStageStatuses are the accepted stage status values.
var ValidStageStatuses = map[StageStatus]bool{
	StagePending:    true,
	StageInProgress: true,
	StageCompleted:  true,
	StageCancelled:  true,
}

// Stage orders. Every complaint carries exactly these three stages.
const (
	StageOrderInitialReview = 1
	StageOrderAssessment    = 2
	StageOrderResolution    = 3
)

// StageNames maps stage order to its display name.
var StageNames = map[int]string{
	StageOrderInitialReview: "Initial Review",
	StageOrderAssessment:    "Assessment",
	StageOrderResolution:    "Resolution",
}

// WorkflowStage is one of the three ordered sub-phases of complaint handling.
type WorkflowStage struct {
	ID           int64       `json:"id"`
	ComplaintID  string      `json:"complaintId"`
	StageOrder   int         `json:"stageOrder"`
	StageName    string      `json:"stageName"`
	Status       StageStatus `json:"status"`
	Assignee     *string     `json:"assignee,omitempty"`
	CostEstimate *float64    `json:"costEstimate,omitempty"`
	StartedAt    *time.Time  `json:"startedAt,omitempty"`
	CompletedAt  *time.Time  `json:"completedAt,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TimelineEntry is an immutable audit record of a stage transition.
type TimelineEntry struct {
	ID          int64       `json:"id"`
	ComplaintID string      `json:"complaintId"`
	StageOrder  int         `json:"stageOrder"`
	OldStatus   StageStatus `json:"oldStatus"`
	NewStatus   StageStatus `json:"newStatus"`
	Actor       string      `json:"actor"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// UpdateStageRequest is the API request body for a stage status update.
type UpdateStageRequest struct {
	Status       StageStatus `json:"status"`
	Assignee     *string     `json:"assignee,omitempty"`
	CostEstimate *float64    `json:"costEstimate,omitempty"`
	Actor        string      `json:"actor,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// OverrideStatusRequest is the admin shortcut for resolve/reject.
type OverrideStatusRequest struct {
	Status ComplaintStatus `json:"status"`
	Notes  string          `json:"notes,omitempty"`
}

// StageUpdateResponse is returned after any stage mutation.
type StageUpdateResponse struct {
	Stages          []WorkflowStage `json:"stages"`
	ComplaintStatus ComplaintStatus `json:"complaintStatus"`
	CurrentStage    int             `json:"currentStage,omitempty"`
}
