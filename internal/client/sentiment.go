// Package client holds the thin HTTP clients for the external collaborators:
// sentiment classification, image validation, geospatial facility lookup and
// speech-to-text. Every client carries a fixed timeout and reports failures
// as errors; the calling service decides the degraded fallback.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// SentimentClassifier is the contract the emotion analyzer depends on.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (*model.SentimentResult, error)
	Available() bool
}

// SentimentStrategy names one hosted model endpoint. Strategies are tried in
// order with the same timeout and result contract; the first success wins.
type SentimentStrategy struct {
	Name  string
	Model string
}

// DefaultSentimentStrategies is the ordered fallback chain. The multilingual
// model leads because complaint text is frequently not English.
var DefaultSentimentStrategies = []SentimentStrategy{
	{Name: "multilingual-sentiment", Model: "nlptown/bert-base-multilingual-uncased-sentiment"},
	{Name: "roberta-sentiment", Model: "cardiffnlp/twitter-roberta-base-sentiment-latest"},
	{Name: "distilbert-sst2", Model: "distilbert-base-uncased-finetuned-sst-2-english"},
}

// SentimentClient calls a hosted text-classification inference API.
type SentimentClient struct {
	baseURL    string
	apiKey     string
	strategies []SentimentStrategy
	httpClient *http.Client
}

// NewSentimentClient builds a classifier. An empty baseURL yields a disabled
// client; the analyzer then runs keyword-only.
func NewSentimentClient(baseURL, apiKey string, timeout time.Duration) *SentimentClient {
	return &SentimentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		strategies: DefaultSentimentStrategies,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Available reports whether the collaborator is configured at all.
func (c *SentimentClient) Available() bool {
	return c != nil && c.baseURL != ""
}

// Classify tries each strategy in order and returns the first usable result.
func (c *SentimentClient) Classify(ctx context.Context, text string) (*model.SentimentResult, error) {
	if !c.Available() {
		return nil, fmt.Errorf("sentiment: no endpoint configured")
	}

	var lastErr error
	for _, strat := range c.strategies {
		res, err := c.classifyWith(ctx, strat, text)
		if err != nil {
			lastErr = err
			continue
		}
		return res, nil
	}
	return nil, fmt.Errorf("sentiment: all strategies failed: %w", lastErr)
}

func (c *SentimentClient) classifyWith(ctx context.Context, strat SentimentStrategy, text string) (*model.SentimentResult, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/models/" + strat.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
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
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sentiment: %s returned %d: %s", strat.Name, resp.StatusCode, string(b))
	}

	// Inference APIs answer [[{"label":..,"score":..}, ...]] — take the top
	// label of the first sequence.
	var out [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sentiment: decode %s response: %w", strat.Name, err)
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return nil, fmt.Errorf("sentiment: %s returned empty result", strat.Name)
	}

	top := out[0][0]
	for _, cand := range out[0][1:] {
		if cand.Score > top.Score {
			top = cand
		}
	}

	return &model.SentimentResult{
		Label:      normalizeLabel(top.Label),
		Confidence: top.Score,
		Strategy:   strat.Name,
	}, nil
}

// normalizeLabel collapses model-specific label schemes (LABEL_0/1/2, star
// ratings, NEGATIVE/POSITIVE) onto negative|neutral|positive.
func normalizeLabel(label string) string {
	switch l := strings.ToLower(strings.TrimSpace(label)); l {
	case "label_0", "negative", "1 star", "2 stars":
		return "negative"
	case "label_1", "neutral", "3 stars":
		return "neutral"
	case "label_2", "positive", "4 stars", "5 stars":
		return "positive"
	default:
		return "neutral"
	}
}
