package model

// PriorityLevel is the discrete triage bucket derived from the total score.
type PriorityLevel string

const (
	PriorityLow      PriorityLevel = "LOW"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityCritical PriorityLevel = "CRITICAL"
)

// PriorityBreakdown exposes the individual signal contributions.
type PriorityBreakdown struct {
	LocationScore      float64 `json:"locationScore"`
	ImageScore         float64 `json:"imageScore"`
	EmotionScore       float64 `json:"emotionScore"`
	CategoryMultiplier float64 `json:"categoryMultiplier"`
}

// PriorityAnalysis is the ephemeral result of a priority computation.
// It is recomputed fresh for every submission or preview and never mutated.
type PriorityAnalysis struct {
	TotalScore float64           `json:"totalScore"`
	Level      PriorityLevel     `json:"level"`
	Breakdown  PriorityBreakdown `json:"breakdown"`
	Reasoning  string            `json:"reasoning"`
	Degraded   bool              `json:"degraded"`
}

// CalculatePriorityRequest is the pre-submission preview request: the same
// inputs as a submission, minus persistence.
type CalculatePriorityRequest struct {
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	LocationData    *LocationData    `json:"locationData,omitempty"`
	ImageValidation *ImageValidation `json:"imageValidation,omitempty"`
}

// LocationResult is the output of the location priority evaluator.
type LocationResult struct {
	Score           float64 `json:"score"`
	FacilitiesCount int     `json:"facilitiesCount"`
	Reasoning       string  `json:"reasoning"`
	Degraded        bool    `json:"degraded"`
}
