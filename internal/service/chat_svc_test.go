package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// stubClassifier returns canned sentiment labels for tests.
type stubClassifier struct {
	label     string
	conf      float64
	err       error
	available bool
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (*model.SentimentResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.SentimentResult{Label: s.label, Confidence: s.conf, Strategy: "stub"}, nil
}

func (s *stubClassifier) Available() bool { return s.available }

func TestChatRespond_EmptyMessage(t *testing.T) {
	svc := NewChatService(nil, NewSessionCache(10))
	if _, err := svc.Respond(context.Background(), "", ""); err == nil {
		t.Error("empty message should be rejected")
	}
}

func TestChatRespond_StartsSession(t *testing.T) {
	svc := NewChatService(nil, NewSessionCache(10))

	reply, err := svc.Respond(context.Background(), "", "my street is flooded")
	if err != nil {
		t.Fatal(err)
	}
	if reply.SessionID == "" {
		t.Error("a missing session id should start a fresh session")
	}
	if reply.Reply == "" {
		t.Error("reply should not be empty")
	}

	// Both turns are on record.
	history := svc.History(reply.SessionID)
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want user + assistant", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "assistant" {
		t.Errorf("history roles = %s, %s", history[0].Role, history[1].Role)
	}
}

func TestChatRespond_SentimentSteering(t *testing.T) {
	t.Run("negative tone gets escalation guidance", func(t *testing.T) {
		svc := NewChatService(&stubClassifier{label: "negative", conf: 0.9, available: true}, NewSessionCache(10))
		reply, err := svc.Respond(context.Background(), "", "nothing ever gets fixed here")
		if err != nil {
			t.Fatal(err)
		}
		if reply.Sentiment != "negative" {
			t.Errorf("sentiment = %s, want negative", reply.Sentiment)
		}
		if !strings.Contains(reply.Reply, "emergency") {
			t.Errorf("negative-tone reply should point at emergency escalation, got %q", reply.Reply)
		}
	})

	t.Run("classifier failure falls back to neutral", func(t *testing.T) {
		svc := NewChatService(&stubClassifier{err: errors.New("boom"), available: true}, NewSessionCache(10))
		reply, err := svc.Respond(context.Background(), "", "hello")
		if err != nil {
			t.Fatal(err)
		}
		if reply.Sentiment != "neutral" {
			t.Errorf("sentiment = %s, want neutral fallback", reply.Sentiment)
		}
	})
}

func TestChatRespond_ContinuesSession(t *testing.T) {
	svc := NewChatService(nil, NewSessionCache(10))

	first, err := svc.Respond(context.Background(), "", "hello")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Respond(context.Background(), first.SessionID, "what about my complaint?")
	if err != nil {
		t.Fatal(err)
	}
	if second.SessionID != first.SessionID {
		t.Error("an explicit session id should be preserved")
	}
	if len(svc.History(first.SessionID)) != 4 {
		t.Errorf("history = %d messages, want 4 after two turns",
			len(svc.History(first.SessionID)))
	}
}
