package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
)

// stubFacilityLookup is an in-memory FacilityLookup for tests.
type stubFacilityLookup struct {
	facilities []client.Facility
	err        error
	available  bool
}

func (s *stubFacilityLookup) NearbyFacilities(_ context.Context, _, _ float64, _ int) ([]client.Facility, error) {
	return s.facilities, s.err
}

func (s *stubFacilityLookup) Available() bool { return s.available }

func TestDistanceDecay(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		want   float64
	}{
		{"at the facility", 0, 1.0},
		{"negative distance clamps to full weight", -5, 1.0},
		{"halfway to the radius", 500, 0.5},
		{"quarter of the radius", 250, 0.75},
		{"at the radius", 1000, 0},
		{"beyond the radius", 2500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceDecay(tt.meters); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistanceDecay(%f) = %f, want %f", tt.meters, got, tt.want)
			}
		})
	}
}

func TestScoreFacilities(t *testing.T) {
	t.Run("hospital at the site dominates", func(t *testing.T) {
		score, byType := ScoreFacilities([]client.Facility{
			{Name: "City Hospital", Type: "hospital", DistanceMeter: 0},
		})
		if score != 1.0 {
			t.Errorf("score = %f, want 1.0", score)
		}
		if byType["hospital"] != 1 {
			t.Errorf("byType = %v, want one hospital", byType)
		}
	})

	t.Run("weight scales with distance", func(t *testing.T) {
		score, _ := ScoreFacilities([]client.Facility{
			{Name: "Primary School", Type: "school", DistanceMeter: 500},
		})
		// 0.90 weight at half decay
		if math.Abs(score-0.45) > 1e-9 {
			t.Errorf("score = %f, want 0.45", score)
		}
	})

	t.Run("contributions add up and clamp", func(t *testing.T) {
		score, byType := ScoreFacilities([]client.Facility{
			{Type: "hospital", DistanceMeter: 100},
			{Type: "school", DistanceMeter: 100},
			{Type: "fire_station", DistanceMeter: 100},
		})
		if score != 1.0 {
			t.Errorf("score = %f, want clamp at 1.0", score)
		}
		if len(byType) != 3 {
			t.Errorf("byType = %v, want three types", byType)
		}
	})

	t.Run("unknown type gets default weight", func(t *testing.T) {
		score, _ := ScoreFacilities([]client.Facility{
			{Type: "carwash", DistanceMeter: 0},
		})
		if math.Abs(score-0.25) > 1e-9 {
			t.Errorf("score = %f, want default weight 0.25", score)
		}
	})

	t.Run("out-of-radius facilities contribute nothing", func(t *testing.T) {
		score, byType := ScoreFacilities([]client.Facility{
			{Type: "hospital", DistanceMeter: 1500},
		})
		if score != 0 {
			t.Errorf("score = %f, want 0", score)
		}
		if len(byType) != 0 {
			t.Errorf("byType = %v, want empty", byType)
		}
	})
}

func TestEvaluate_Degraded(t *testing.T) {
	t.Run("no collaborator configured", func(t *testing.T) {
		svc := NewLocationService(nil)
		res := svc.Evaluate(context.Background(), 17.4, 78.5, "pothole")
		if !res.Degraded {
			t.Error("expected degraded result without a collaborator")
		}
		if res.Score != 0 {
			t.Errorf("degraded score = %f, want 0", res.Score)
		}
	})

	t.Run("lookup error degrades to zero", func(t *testing.T) {
		svc := NewLocationService(&stubFacilityLookup{available: true, err: errors.New("timeout")})
		res := svc.Evaluate(context.Background(), 17.4, 78.5, "pothole")
		if !res.Degraded {
			t.Error("expected degraded result on lookup error")
		}
		if res.Score != 0 {
			t.Errorf("degraded score = %f, want 0", res.Score)
		}
	})

	t.Run("coordinates without distance still decay", func(t *testing.T) {
		// Facility roughly 200m north of the query point, no distance given.
		svc := NewLocationService(&stubFacilityLookup{
			available: true,
			facilities: []client.Facility{
				{Type: "hospital", Latitude: 17.4018, Longitude: 78.5},
			},
		})
		res := svc.Evaluate(context.Background(), 17.4, 78.5, "flooding")
		if math.Abs(res.Score-0.8) > 0.01 {
			t.Errorf("score = %f, want about 0.8 via derived distance", res.Score)
		}
	})

	t.Run("successful lookup reports facility counts", func(t *testing.T) {
		svc := NewLocationService(&stubFacilityLookup{
			available: true,
			facilities: []client.Facility{
				{Type: "hospital", DistanceMeter: 200},
				{Type: "market", DistanceMeter: 400},
			},
		})
		res := svc.Evaluate(context.Background(), 17.4, 78.5, "flooding")
		if res.Degraded {
			t.Error("unexpected degraded result")
		}
		if res.FacilitiesCount != 2 {
			t.Errorf("facilities count = %d, want 2", res.FacilitiesCount)
		}
		if !strings.Contains(res.Reasoning, "hospital") {
			t.Errorf("reasoning %q should mention the hospital", res.Reasoning)
		}
		if res.Score <= 0 || res.Score > 1 {
			t.Errorf("score %f out of (0,1]", res.Score)
		}
	})
}

func TestHaversineMeters(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		if d := HaversineMeters(17.4, 78.5, 17.4, 78.5); d != 0 {
			t.Errorf("distance = %f, want 0", d)
		}
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		d := HaversineMeters(17.0, 78.5, 18.0, 78.5)
		if d < 110000 || d > 112500 {
			t.Errorf("distance = %f, want roughly 111 km", d)
		}
	})
}
