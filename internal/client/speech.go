package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Transcript is the result of a speech-to-text call.
type Transcript struct {
	Text        string  `json:"text"`
	Language    string  `json:"language,omitempty"`
	Translation string  `json:"translation,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// SpeechTranscriber is the contract for the speech-to-text collaborator.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audioURL, targetLanguage string) (*Transcript, error)
	Available() bool
}

// SpeechClient calls the external speech-to-text / translation service used
// for voice complaints. Audio transcoding stays entirely on the collaborator.
type SpeechClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewSpeechClient(baseURL, apiKey string, timeout time.Duration) *SpeechClient {
	return &SpeechClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *SpeechClient) Available() bool {
	return c != nil && c.baseURL != ""
}

// Transcribe sends an audio URL for transcription plus optional translation.
func (c *SpeechClient) Transcribe(ctx context.Context, audioURL, targetLanguage string) (*Transcript, error) {
	if !c.Available() {
		return nil, fmt.Errorf("speech: no endpoint configured")
	}

	body, err := json.Marshal(map[string]string{
		"audioUrl":       audioURL,
		"targetLanguage": targetLanguage,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", bytes.NewReader(body))
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
		return nil, fmt.Errorf("speech: transcription returned %d", resp.StatusCode)
	}

	var out Transcript
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("speech: decode response: %w", err)
	}
	return &out, nil
}
