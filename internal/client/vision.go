package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// VisionValidator is the contract for the external image validation service.
type VisionValidator interface {
	ValidateImage(ctx context.Context, imageURL, category string) (*model.ImageValidation, error)
	Available() bool
}

// VisionClient calls the image validation collaborator, which judges whether
// a photo depicts a genuine civic issue and how confident it is.
type VisionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewVisionClient(baseURL, apiKey string, timeout time.Duration) *VisionClient {
	return &VisionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *VisionClient) Available() bool {
	return c != nil && c.baseURL != ""
}

// ValidateImage submits an image URL for validation. Callers treat any error
// as "no image signal" and let the priority engine degrade.
func (c *VisionClient) ValidateImage(ctx context.Context, imageURL, category string) (*model.ImageValidation, error) {
	if !c.Available() {
		return nil, fmt.Errorf("vision: no endpoint configured")
	}

	body, err := json.Marshal(map[string]string{
		"imageUrl": imageURL,
		"category": category,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: validation returned %d", resp.StatusCode)
	}

	var out model.ImageValidation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vision: decode response: %w", err)
	}
	return &out, nil
}
