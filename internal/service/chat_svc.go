package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// ChatService backs the civic assistant endpoint. It keeps per-session
// history in the bounded cache and uses the sentiment classifier to steer a
// canned-response policy: distressed users get escalation guidance.
type ChatService struct {
	sentiment client.SentimentClassifier
	sessions  *SessionCache
}

func NewChatService(sentiment client.SentimentClassifier, sessions *SessionCache) *ChatService {
	return &ChatService{sentiment: sentiment, sessions: sessions}
}

// ChatReply is the assistant's answer for one turn.
type ChatReply struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Respond records the user turn, classifies its tone and answers. A missing
// session id starts a fresh conversation.
func (s *ChatService) Respond(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	if message == "" {
		return nil, fmt.Errorf("chat: empty message")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	s.sessions.Append(sessionID, ChatMessage{Role: "user", Content: message, CreatedAt: now})

	label := "neutral"
	if s.sentiment != nil && s.sentiment.Available() {
		if res, err := s.sentiment.Classify(ctx, message); err == nil {
			label = res.Label
		}
	}

	reply := s.composeReply(sessionID, label)
	s.sessions.Append(sessionID, ChatMessage{Role: "assistant", Content: reply, CreatedAt: time.Now()})

	return &ChatReply{SessionID: sessionID, Reply: reply, Sentiment: label}, nil
}

// History exposes the conversation so clients can rehydrate UI state.
func (s *ChatService) History(sessionID string) []ChatMessage {
	return s.sessions.History(sessionID)
}

func (s *ChatService) composeReply(sessionID, sentiment string) string {
	turns := len(s.sessions.History(sessionID))

	switch sentiment {
	case "negative":
		return "I understand this is frustrating. For dangerous situations (" +
			string(model.PriorityCritical) + " issues like gas leaks or live wires) please also call emergency services. " +
			"You can submit a complaint with a photo and location and it will be prioritized automatically."
	case "positive":
		return "Glad to help! You can track your complaint's workflow stages and vote on issues in your area from the dashboard."
	default:
		if turns <= 2 {
			return "Hi! I can help you report civic issues like potholes, flooding or streetlight outages. " +
				"Describe the problem, attach a photo if you have one, and share the location for faster triage."
		}
		return "You can check a complaint's status anytime via its timeline, or use the transparency dashboard for area-wide statistics."
	}
}
