package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// Proximity scoring radius: facilities beyond this contribute nothing.
const facilityRadiusMeters = 1000

// facilityTypeWeights ranks infrastructure by how much a nearby civic issue
// matters to it. Hospitals outrank generic retail by a wide margin.
var facilityTypeWeights = map[string]float64{
	"hospital":      1.00,
	"school":        0.90,
	"water_utility": 0.85,
	"power_utility": 0.85,
	"fire_station":  0.80,
	"transit_hub":   0.60,
	"government":    0.50,
	"market":        0.40,
	"retail":        0.30,
}

const defaultFacilityWeight = 0.25

// LocationService scores a coordinate by proximity to critical
// infrastructure. A geospatial collaborator failure yields a zero, degraded
// score; it never blocks complaint submission.
type LocationService struct {
	places client.FacilityLookup
}

func NewLocationService(places client.FacilityLookup) *LocationService {
	return &LocationService{places: places}
}

// Evaluate returns a proximity score in [0,1] plus human-readable reasoning.
func (s *LocationService) Evaluate(ctx context.Context, lat, lon float64, category string) model.LocationResult {
	if s.places == nil || !s.places.Available() {
		return degradedLocationResult("facility lookup not configured")
	}

	facilities, err := s.places.NearbyFacilities(ctx, lat, lon, facilityRadiusMeters)
	if err != nil {
		middleware.Logger.Warn().Err(err).
			Float64("lat", lat).Float64("lon", lon).
			Msg("location: facility lookup degraded to zero score")
		return degradedLocationResult("facility lookup unavailable")
	}

	// Some backends return coordinates without a distance; derive it so
	// those facilities still decay correctly instead of scoring as 0 m.
	for i := range facilities {
		f := &facilities[i]
		if f.DistanceMeter == 0 && (f.Latitude != 0 || f.Longitude != 0) {
			f.DistanceMeter = HaversineMeters(lat, lon, f.Latitude, f.Longitude)
		}
	}

	score, byType := ScoreFacilities(facilities)
	return model.LocationResult{
		Score:           score,
		FacilitiesCount: len(facilities),
		Reasoning:       facilityReasoning(byType, len(facilities)),
	}
}

// ScoreFacilities aggregates per-facility contributions: each facility
// contributes its type weight scaled by linear distance decay, and the sum is
// clamped to [0,1]. The per-type counts feed the reasoning string.
func ScoreFacilities(facilities []client.Facility) (float64, map[string]int) {
	byType := make(map[string]int)
	var total float64
	for _, f := range facilities {
		decay := DistanceDecay(f.DistanceMeter)
		if decay == 0 {
			continue
		}
		weight, ok := facilityTypeWeights[f.Type]
		if !ok {
			weight = defaultFacilityWeight
		}
		total += weight * decay
		byType[f.Type]++
	}
	return math.Min(total, 1.0), byType
}

// DistanceDecay maps distance to a [0,1] factor: 1.0 at the facility itself,
// decaying linearly to zero at the scoring radius.
func DistanceDecay(meters float64) float64 {
	if meters <= 0 {
		return 1.0
	}
	if meters >= facilityRadiusMeters {
		return 0
	}
	return 1.0 - meters/facilityRadiusMeters
}

// HaversineMeters returns the great-circle distance between two coordinates.
// Used when the collaborator returns raw facility coordinates instead of
// precomputed distances.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func facilityReasoning(byType map[string]int, total int) string {
	if total == 0 {
		return "No critical infrastructure within 1 km."
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	// Highest-weighted types lead the sentence.
	sort.Slice(types, func(i, j int) bool {
		wi, wj := facilityTypeWeights[types[i]], facilityTypeWeights[types[j]]
		if wi != wj {
			return wi > wj
		}
		return types[i] < types[j]
	})

	parts := make([]string, 0, len(types))
	for _, t := range types {
		label := strings.ReplaceAll(t, "_", " ")
		parts = append(parts, fmt.Sprintf("%d %s", byType[t], label))
	}
	return fmt.Sprintf("%d facilities within 1 km (%s).", total, strings.Join(parts, ", "))
}

func degradedLocationResult(note string) model.LocationResult {
	return model.LocationResult{
		Reasoning: "Location score unavailable: " + note + ".",
		Degraded:  true,
	}
}
