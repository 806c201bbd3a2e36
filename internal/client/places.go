package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Facility is one piece of nearby critical infrastructure. Some lookup
// backends return raw coordinates instead of a precomputed distance; callers
// derive the missing one.
type Facility struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"` // hospital, school, water_utility, ...
	DistanceMeter float64 `json:"distanceMeters"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
}

// FacilityLookup is the contract for the geospatial collaborator.
type FacilityLookup interface {
	NearbyFacilities(ctx context.Context, lat, lon float64, radiusMeters int) ([]Facility, error)
	Available() bool
}

// PlacesClient queries the geospatial facility lookup service for critical
// infrastructure around a coordinate.
type PlacesClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPlacesClient(baseURL, apiKey string, timeout time.Duration) *PlacesClient {
	return &PlacesClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PlacesClient) Available() bool {
	return c != nil && c.baseURL != ""
}

// NearbyFacilities returns infrastructure within radiusMeters of the point.
func (c *PlacesClient) NearbyFacilities(ctx context.Context, lat, lon float64, radiusMeters int) ([]Facility, error) {
	if !c.Available() {
		return nil, fmt.Errorf("places: no endpoint configured")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("radius", strconv.Itoa(radiusMeters))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/nearby?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places: lookup returned %d", resp.StatusCode)
	}

	var out struct {
		Facilities []Facility `json:"facilities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}
	return out.Facilities, nil
}
