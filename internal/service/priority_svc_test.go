package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

func newTestPriorityService(places client.FacilityLookup) *PriorityService {
	return NewPriorityService(NewLocationService(places), NewEmotionService(nil))
}

func ptrFloat(v float64) *float64 { return &v }

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  model.PriorityLevel
	}{
		{0.0, model.PriorityLow},
		{0.39, model.PriorityLow},
		{0.40, model.PriorityMedium},
		{0.59, model.PriorityMedium},
		{0.60, model.PriorityHigh},
		{0.79, model.PriorityHigh},
		{0.80, model.PriorityCritical},
		{1.0, model.PriorityCritical},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestStorageScore(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  string
	}{
		{"zero", 0, "0"},
		{"midpoint scales by ten", 0.5, "5"},
		{"rounds to two places", 0.8555, "8.56"},
		{"full score clamps below the column ceiling", 1.0, "9.99"},
		{"overshoot clamps too", 1.2, "9.99"},
		{"negative clamps to zero", -0.1, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StorageScore(tt.total).String(); got != tt.want {
				t.Errorf("StorageScore(%f) = %s, want %s", tt.total, got, tt.want)
			}
		})
	}
}

func TestCompute_FloodingNearHospital(t *testing.T) {
	svc := newTestPriorityService(&stubFacilityLookup{
		available: true,
		facilities: []client.Facility{
			{Name: "General Hospital", Type: "hospital", DistanceMeter: 200},
		},
	})

	analysis := svc.Compute(context.Background(), model.CalculatePriorityRequest{
		Description: "Street is flooding fast, water entering homes",
		Category:    "flooding",
		LocationData: &model.LocationData{
			Latitude:  ptrFloat(17.4),
			Longitude: ptrFloat(78.5),
		},
		ImageValidation: &model.ImageValidation{IsValidCivicIssue: true, Confidence: 0.9},
	})

	// hospital weight 1.0 at 200m decay 0.8 → location 0.8; blend 0.6*0.8 + 0.4*0.9
	if math.Abs(analysis.TotalScore-0.84) > 1e-9 {
		t.Errorf("total = %f, want 0.84", analysis.TotalScore)
	}
	if analysis.Level != model.PriorityCritical {
		t.Errorf("level = %s, want CRITICAL", analysis.Level)
	}
	if math.Abs(analysis.Breakdown.LocationScore-0.8) > 1e-9 {
		t.Errorf("location score = %f, want 0.8", analysis.Breakdown.LocationScore)
	}
	if analysis.Degraded {
		t.Error("full-signal analysis should not be degraded")
	}
}

func TestScoreToFloat(t *testing.T) {
	tests := []struct {
		total float64
		want  float64
	}{
		{0, 0},
		{0.5, 5},
		{0.84, 8.4},
		{1.0, 9.99},
	}
	for _, tt := range tests {
		if got := ScoreToFloat(StorageScore(tt.total)); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScoreToFloat(StorageScore(%f)) = %f, want %f", tt.total, got, tt.want)
		}
	}
}

func TestCompute_FloodingNearHospitalWithoutImage(t *testing.T) {
	svc := newTestPriorityService(&stubFacilityLookup{
		available: true,
		facilities: []client.Facility{
			{Name: "General Hospital", Type: "hospital", DistanceMeter: 200},
		},
	})

	analysis := svc.Compute(context.Background(), model.CalculatePriorityRequest{
		Description: "Street is flooding fast, water entering homes",
		Category:    "flooding",
		LocationData: &model.LocationData{
			Latitude:  ptrFloat(17.4),
			Longitude: ptrFloat(78.5),
		},
	})

	// No image, so location carries the full blend: hospital at 200m → 0.8.
	if math.Abs(analysis.TotalScore-0.8) > 1e-9 {
		t.Errorf("total = %f, want 0.8", analysis.TotalScore)
	}
	if analysis.Level != model.PriorityHigh && analysis.Level != model.PriorityCritical {
		t.Errorf("level = %s, want HIGH or CRITICAL near a hospital", analysis.Level)
	}
	if analysis.Breakdown.LocationScore <= 0 {
		t.Errorf("location score = %f, want > 0", analysis.Breakdown.LocationScore)
	}
}

func TestCompute_MinorIssueWithoutSignals(t *testing.T) {
	svc := newTestPriorityService(nil)

	analysis := svc.Compute(context.Background(), model.CalculatePriorityRequest{
		Description: "just a bit annoying in the evenings",
		Category:    "noise_pollution",
	})

	if analysis.Level != model.PriorityLow {
		t.Errorf("level = %s, want LOW", analysis.Level)
	}
	if analysis.TotalScore != 0 {
		t.Errorf("total = %f, want 0 with no location or image signal", analysis.TotalScore)
	}
}

func TestCompute_ImageConfidenceClamped(t *testing.T) {
	svc := newTestPriorityService(nil)

	analysis := svc.Compute(context.Background(), model.CalculatePriorityRequest{
		Description:     "broken signal",
		Category:        "traffic_signal",
		ImageValidation: &model.ImageValidation{IsValidCivicIssue: true, Confidence: 1.7},
	})

	if analysis.Breakdown.ImageScore != 1.0 {
		t.Errorf("image score = %f, want clamp at 1.0", analysis.Breakdown.ImageScore)
	}
	// blend is 0.4 * 1.0 with no location signal
	if math.Abs(analysis.TotalScore-0.4) > 1e-9 {
		t.Errorf("total = %f, want 0.4", analysis.TotalScore)
	}
}

func TestCompute_DegradedLocationStillScores(t *testing.T) {
	svc := newTestPriorityService(&stubFacilityLookup{available: false})

	analysis := svc.Compute(context.Background(), model.CalculatePriorityRequest{
		Description: "pipe burst near the crossing",
		Category:    "water_supply",
		LocationData: &model.LocationData{
			Latitude:  ptrFloat(17.4),
			Longitude: ptrFloat(78.5),
		},
		ImageValidation: &model.ImageValidation{IsValidCivicIssue: true, Confidence: 0.8},
	})

	if !analysis.Degraded {
		t.Error("analysis should be flagged degraded when the location signal is unavailable")
	}
	// Image signal alone still drives the score.
	if math.Abs(analysis.TotalScore-0.32) > 1e-9 {
		t.Errorf("total = %f, want 0.32 from the image signal", analysis.TotalScore)
	}
}

func TestComputeComprehensive(t *testing.T) {
	svc := newTestPriorityService(&stubFacilityLookup{
		available: true,
		facilities: []client.Facility{
			{Type: "school", DistanceMeter: 0},
		},
	})

	c := &model.Complaint{
		ID:          "c-1",
		Description: "deep pothole on the main road",
		Category:    "pothole",
		Status:      model.StatusPending,
		Latitude:    ptrFloat(17.4),
		Longitude:   ptrFloat(78.5),
		VoteCount:   25,
		CreatedAt:   time.Now().Add(-15 * 24 * time.Hour),
	}

	analysis := svc.ComputeComprehensive(context.Background(), c, 0.8)

	// infra 0.35*0.9 + image 0.25*0.8 + age 0.15*0.5 + votes 0.15*0.5 + status 0.10*1.0
	want := 0.35*0.9 + 0.25*0.8 + 0.15*0.5 + 0.15*0.5 + 0.10*1.0
	if math.Abs(analysis.TotalScore-want) > 0.01 {
		t.Errorf("total = %f, want about %f", analysis.TotalScore, want)
	}
	if analysis.Level != model.PriorityHigh {
		t.Errorf("level = %s, want HIGH", analysis.Level)
	}
}

func TestAgeScore(t *testing.T) {
	if got := AgeScore(time.Now()); got > 0.01 {
		t.Errorf("fresh report age score = %f, want about 0", got)
	}
	if got := AgeScore(time.Now().Add(-15 * 24 * time.Hour)); math.Abs(got-0.5) > 0.01 {
		t.Errorf("15-day age score = %f, want about 0.5", got)
	}
	if got := AgeScore(time.Now().Add(-90 * 24 * time.Hour)); got != 1.0 {
		t.Errorf("90-day age score = %f, want saturation at 1.0", got)
	}
}

func TestVoteScore(t *testing.T) {
	tests := []struct {
		votes int
		want  float64
	}{
		{0, 0},
		{25, 0.5},
		{50, 1.0},
		{120, 1.0},
	}
	for _, tt := range tests {
		if got := VoteScore(tt.votes); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("VoteScore(%d) = %f, want %f", tt.votes, got, tt.want)
		}
	}
}

func TestCategoryFallback(t *testing.T) {
	svc := newTestPriorityService(nil)

	t.Run("known category", func(t *testing.T) {
		analysis := svc.categoryFallback("gas_leak")
		if analysis.TotalScore != 0.9 {
			t.Errorf("total = %f, want 0.9", analysis.TotalScore)
		}
		if analysis.Level != model.PriorityCritical {
			t.Errorf("level = %s, want CRITICAL", analysis.Level)
		}
		if !analysis.Degraded {
			t.Error("fallback analysis must be flagged degraded")
		}
	})

	t.Run("unknown category maps to others", func(t *testing.T) {
		analysis := svc.categoryFallback("weird")
		if analysis.TotalScore != 0.4 {
			t.Errorf("total = %f, want 0.4", analysis.TotalScore)
		}
	})
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"POTHOLE", "pothole"},
		{"  flooding  ", "flooding"},
		{"unknown_thing", "others"},
		{"", "others"},
	}
	for _, tt := range tests {
		if got := normalizeCategory(tt.in); got != tt.want {
			t.Errorf("normalizeCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
