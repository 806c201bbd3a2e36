package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// Canonical two-factor blend. The comprehensive five-factor blend is used
// only for recalculation of existing complaints, where age and vote history
// exist.
const (
	locationBlendWeight = 0.60
	imageBlendWeight    = 0.40

	// Five-factor weights for ComputeComprehensive.
	comprehensiveInfraWeight  = 0.35
	comprehensiveImageWeight  = 0.25
	comprehensiveAgeWeight    = 0.15
	comprehensiveVoteWeight   = 0.15
	comprehensiveStatusWeight = 0.10

	// Level thresholds over the [0,1] total.
	criticalThreshold = 0.80
	highThreshold     = 0.60
	mediumThreshold   = 0.40

	// Hard storage ceiling for NUMERIC(4,2): anything at or above 10.00
	// would overflow, so the persisted score is clamped to 9.99.
	maxStoredScore = 9.99
)

// categoryDefaultScores is the pure-category fallback used when scoring
// itself fails. Values mirror the severity classes of the multiplier table.
var categoryDefaultScores = map[string]float64{
	"fire_hazard":        0.90,
	"gas_leak":           0.90,
	"electrical_danger":  0.85,
	"flooding":           0.80,
	"sewage_overflow":    0.75,
	"tree_fall":          0.70,
	"water_supply":       0.65,
	"road_damage":        0.60,
	"traffic_signal":     0.60,
	"pothole":            0.55,
	"broken_streetlight": 0.50,
	"stray_animals":      0.50,
	"garbage_collection": 0.45,
	"air_pollution":      0.45,
	"noise_pollution":    0.40,
	"street_cleaning":    0.40,
	"others":             0.40,
}

// categoryImportance feeds the reasoning string.
var categoryImportance = map[string]string{
	"fire_hazard":        "Fire hazards threaten lives and property.",
	"gas_leak":           "Gas leaks are an immediate life-safety risk.",
	"electrical_danger":  "Electrical faults can be lethal and spark fires.",
	"flooding":           "Flooding endangers residents and disrupts essential services.",
	"sewage_overflow":    "Sewage overflow is a serious public health hazard.",
	"tree_fall":          "Fallen trees can block roads and damage infrastructure.",
	"water_supply":       "Water supply issues affect daily life for many households.",
	"road_damage":        "Road damage risks accidents and vehicle damage.",
	"traffic_signal":     "Faulty signals create accident-prone intersections.",
	"pothole":            "Potholes are a persistent road safety issue.",
	"broken_streetlight": "Dark streets reduce safety at night.",
	"stray_animals":      "Stray animals can pose safety and health risks.",
	"garbage_collection": "Uncollected garbage degrades sanitation.",
	"air_pollution":      "Air quality issues affect community health.",
	"noise_pollution":    "Noise issues affect quality of life.",
	"street_cleaning":    "Street cleanliness is a civic maintenance concern.",
	"others":             "General civic issue.",
}

// PriorityService fuses image validation confidence, location proximity and
// emotion signals into one bounded priority analysis. Compute never returns
// an error and never panics past its boundary: every failure path lands on
// the category default score.
type PriorityService struct {
	location *LocationService
	emotion  *EmotionService
}

func NewPriorityService(location *LocationService, emotion *EmotionService) *PriorityService {
	return &PriorityService{location: location, emotion: emotion}
}

// Compute runs the canonical submission-time analysis.
func (s *PriorityService) Compute(ctx context.Context, req model.CalculatePriorityRequest) (analysis model.PriorityAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			middleware.Logger.Error().Interface("panic", r).
				Str("category", req.Category).
				Msg("priority: computation panicked, using category default")
			analysis = s.categoryFallback(req.Category)
		}
	}()

	var locResult model.LocationResult
	if req.LocationData != nil && req.LocationData.Latitude != nil && req.LocationData.Longitude != nil {
		locResult = s.location.Evaluate(ctx, *req.LocationData.Latitude, *req.LocationData.Longitude, req.Category)
	} else {
		locResult = model.LocationResult{Reasoning: "No coordinates provided."}
	}

	var imageScore float64
	imageNote := "No image validation available."
	if req.ImageValidation != nil {
		imageScore = clamp01(req.ImageValidation.Confidence)
		if req.ImageValidation.IsValidCivicIssue {
			imageNote = fmt.Sprintf("Image verified as a civic issue (%.0f%% confidence).", imageScore*100)
		} else {
			imageNote = fmt.Sprintf("Image not verified as a civic issue (%.0f%% confidence).", imageScore*100)
		}
	}

	emotionResult := s.emotion.Analyze(ctx, req.Description)
	emotionScore := ApplyCategoryMultiplier(emotionResult.Score, req.Category)

	// Without an image the location signal carries the full blend weight:
	// a complaint next to a hospital must not lose priority for a signal
	// the reporter never supplied.
	locWeight, imgWeight := locationBlendWeight, imageBlendWeight
	if req.ImageValidation == nil {
		locWeight, imgWeight = 1.0, 0
	}
	total := clamp01(locWeight*locResult.Score + imgWeight*imageScore)

	return model.PriorityAnalysis{
		TotalScore: total,
		Level:      LevelForScore(total),
		Breakdown: model.PriorityBreakdown{
			LocationScore:      locResult.Score,
			ImageScore:         imageScore,
			EmotionScore:       emotionScore,
			CategoryMultiplier: CategoryMultipliers[normalizeCategory(req.Category)],
		},
		Reasoning: buildReasoning(locResult.Reasoning, imageNote, req.Category),
		Degraded:  locResult.Degraded || emotionResult.Method == model.EmotionMethodNeutral,
	}
}

// ComputeComprehensive is the richer blend used when recalculating an
// existing complaint: infrastructure, image, report age, community votes and
// the current status each contribute independently.
func (s *PriorityService) ComputeComprehensive(ctx context.Context, c *model.Complaint, imageScore float64) model.PriorityAnalysis {
	var locResult model.LocationResult
	if c.Latitude != nil && c.Longitude != nil {
		locResult = s.location.Evaluate(ctx, *c.Latitude, *c.Longitude, c.Category)
	} else {
		locResult = model.LocationResult{Reasoning: "No coordinates on record."}
	}

	ageScore := AgeScore(c.CreatedAt)
	voteScore := VoteScore(c.VoteCount)
	statusMult := statusMultiplier(c.Status)

	total := clamp01(comprehensiveInfraWeight*locResult.Score +
		comprehensiveImageWeight*imageScore +
		comprehensiveAgeWeight*ageScore +
		comprehensiveVoteWeight*voteScore +
		comprehensiveStatusWeight*statusMult)

	emotionResult := s.emotion.Analyze(ctx, c.Description)
	emotionScore := ApplyCategoryMultiplier(emotionResult.Score, c.Category)

	return model.PriorityAnalysis{
		TotalScore: total,
		Level:      LevelForScore(total),
		Breakdown: model.PriorityBreakdown{
			LocationScore:      locResult.Score,
			ImageScore:         imageScore,
			EmotionScore:       emotionScore,
			CategoryMultiplier: CategoryMultipliers[normalizeCategory(c.Category)],
		},
		Reasoning: buildReasoning(locResult.Reasoning,
			fmt.Sprintf("%d community votes; reported %s.", c.VoteCount, c.CreatedAt.Format("2006-01-02")),
			c.Category),
		Degraded: locResult.Degraded,
	}
}

// LevelForScore maps a [0,1] total to the discrete priority level.
func LevelForScore(total float64) model.PriorityLevel {
	switch {
	case total >= criticalThreshold:
		return model.PriorityCritical
	case total >= highThreshold:
		return model.PriorityHigh
	case total >= mediumThreshold:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// StorageScore converts a [0,1] analysis total to the persisted decimal:
// scaled to [0,10), rounded to 2 places, clamped below the NUMERIC(4,2)
// ceiling. The clamp runs before every write, not after a failed one.
func StorageScore(total float64) decimal.Decimal {
	scaled := total * 10
	if scaled < 0 {
		scaled = 0
	}
	d := decimal.NewFromFloat(scaled).Round(2)
	ceiling := decimal.NewFromFloat(maxStoredScore)
	if d.GreaterThan(ceiling) {
		return ceiling
	}
	return d
}

// AgeScore grows with unresolved report age: 0 at creation, 1.0 at 30 days.
func AgeScore(createdAt time.Time) float64 {
	days := time.Since(createdAt).Hours() / 24
	return clamp01(days / 30)
}

// VoteScore saturates at 50 votes.
func VoteScore(votes int) float64 {
	return clamp01(float64(votes) / 50)
}

func statusMultiplier(status model.ComplaintStatus) float64 {
	switch status {
	case model.StatusPending:
		return 1.0
	case model.StatusInProgress:
		return 0.6
	default: // resolved, cancelled
		return 0.1
	}
}

func (s *PriorityService) categoryFallback(category string) model.PriorityAnalysis {
	cat := normalizeCategory(category)
	score, ok := categoryDefaultScores[cat]
	if !ok {
		score = categoryDefaultScores["others"]
	}
	return model.PriorityAnalysis{
		TotalScore: score,
		Level:      LevelForScore(score),
		Breakdown:  model.PriorityBreakdown{CategoryMultiplier: CategoryMultipliers[cat]},
		Reasoning: fmt.Sprintf("Degraded analysis: category-based default applied. %s",
			categoryImportance[cat]),
		Degraded: true,
	}
}

func buildReasoning(locationNote, imageNote, category string) string {
	importance, ok := categoryImportance[normalizeCategory(category)]
	if !ok {
		importance = categoryImportance["others"]
	}
	parts := []string{locationNote, imageNote, importance}
	return strings.Join(parts, " ")
}

func normalizeCategory(category string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	if !model.ValidCategories[cat] {
		return "others"
	}
	return cat
}
