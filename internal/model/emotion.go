package model

// EmotionScores holds the per-axis emotion intensities, each in [0,1].
type EmotionScores struct {
	Anger       float64 `json:"anger"`
	Urgency     float64 `json:"urgency"`
	Frustration float64 `json:"frustration"`
	Concern     float64 `json:"concern"`
}

// Analysis methods reported by the emotion analyzer so callers can tell
// full-confidence results from degraded ones.
const (
	EmotionMethodAIAssisted  = "ai-assisted"
	EmotionMethodKeywordOnly = "keyword-only"
	EmotionMethodNoInput     = "no-input"
	EmotionMethodNeutral     = "fallback-neutral"
)

// EmotionResult is the output of the emotion/urgency analyzer.
type EmotionResult struct {
	Score      float64       `json:"score"`
	PerEmotion EmotionScores `json:"perEmotion"`
	Language   string        `json:"language"`
	Method     string        `json:"method"`
}

// SentimentResult is the uniform result shape shared by every sentiment
// classification strategy.
type SentimentResult struct {
	Label      string  `json:"label"` // negative | neutral | positive
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy"`
}
