package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
)

// VoiceHandler fronts the speech-to-text collaborator for voice complaints.
// The transcript comes back to the client, which then files a regular
// complaint with the text.
type VoiceHandler struct {
	speech client.SpeechTranscriber
}

func NewVoiceHandler(speech client.SpeechTranscriber) *VoiceHandler {
	return &VoiceHandler{speech: speech}
}

// Transcribe handles POST /api/voice-complaints/transcribe
func (h *VoiceHandler) Transcribe(c fiber.Ctx) error {
	if h.speech == nil || !h.speech.Available() {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "TRANSCRIPTION_DISABLED",
			"Voice transcription is not configured")
	}

	var req struct {
		AudioURL       string `json:"audioUrl"`
		TargetLanguage string `json:"targetLanguage,omitempty"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	req.AudioURL = strings.TrimSpace(req.AudioURL)
	if req.AudioURL == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "audioUrl is required")
	}
	if !strings.HasPrefix(req.AudioURL, "https://") && !strings.HasPrefix(req.AudioURL, "http://") {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "audioUrl must be an http(s) URL")
	}

	transcript, err := h.speech.Transcribe(c.Context(), req.AudioURL, req.TargetLanguage)
	if err != nil {
		middleware.Logger.Warn().Err(err).Msg("voice: transcription failed")
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "TRANSCRIPTION_FAILED",
			"Transcription service error")
	}

	return c.JSON(transcript)
}
