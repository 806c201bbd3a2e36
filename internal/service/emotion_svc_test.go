package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

var errAny = errors.New("classifier unavailable")

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "the streetlight is broken", "en"},
		{"hindi", "सड़क पर गड्ढा है", "hi"},
		{"telugu", "వీధి దీపం పనిచేయడం లేదు", "te"},
		{"tamil", "சாலையில் பள்ளம் உள்ளது", "ta"},
		{"mixed latin first still detects script", "urgent तुरंत", "hi"},
		{"numbers only", "12345", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	svc := NewEmotionService(nil)

	res := svc.Analyze(context.Background(), "   ")
	if res.Score != 0 {
		t.Errorf("empty input should score 0, got %f", res.Score)
	}
	if res.Method != model.EmotionMethodNoInput {
		t.Errorf("method = %s, want %s", res.Method, model.EmotionMethodNoInput)
	}
}

func TestAnalyze_KeywordScoring(t *testing.T) {
	svc := NewEmotionService(nil)

	tests := []struct {
		name    string
		text    string
		checkFn func(t *testing.T, res model.EmotionResult)
	}{
		{
			name: "urgency keywords accumulate",
			text: "urgent emergency, please fix immediately",
			checkFn: func(t *testing.T, res model.EmotionResult) {
				// Three urgency hits at 0.25 each
				if math.Abs(res.PerEmotion.Urgency-0.75) > 1e-9 {
					t.Errorf("urgency = %f, want 0.75", res.PerEmotion.Urgency)
				}
			},
		},
		{
			name: "keyword axis caps at 1.0",
			text: "urgent emergency critical danger now immediately",
			checkFn: func(t *testing.T, res model.EmotionResult) {
				if res.PerEmotion.Urgency != 1.0 {
					t.Errorf("urgency = %f, want cap 1.0", res.PerEmotion.Urgency)
				}
			},
		},
		{
			name: "critical phrase outweighs single keyword",
			text: "there is a gas smell near the junction",
			checkFn: func(t *testing.T, res model.EmotionResult) {
				if math.Abs(res.PerEmotion.Urgency-0.5) > 1e-9 {
					t.Errorf("urgency = %f, want 0.5 from critical phrase", res.PerEmotion.Urgency)
				}
			},
		},
		{
			name: "safety concern boost caps at 0.75",
			text: "children kids elderly women at night near the school zone",
			checkFn: func(t *testing.T, res model.EmotionResult) {
				if res.PerEmotion.Concern != 0.75 {
					t.Errorf("concern = %f, want 0.75 cap", res.PerEmotion.Concern)
				}
			},
		},
		{
			name: "calm text scores near zero",
			text: "the park bench could use a new coat of paint sometime",
			checkFn: func(t *testing.T, res model.EmotionResult) {
				if res.Score > 0.1 {
					t.Errorf("score = %f, want near zero for calm text", res.Score)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Analyze(context.Background(), tt.text)
			if res.Method != model.EmotionMethodKeywordOnly {
				t.Errorf("method = %s, want %s without a classifier", res.Method, model.EmotionMethodKeywordOnly)
			}
			if res.Score < 0 || res.Score > 1 {
				t.Errorf("score %f out of [0,1]", res.Score)
			}
			tt.checkFn(t, res)
		})
	}
}

func TestFuseEmotionScores(t *testing.T) {
	tests := []struct {
		name   string
		scores model.EmotionScores
		want   float64
	}{
		{"zero in, zero out", model.EmotionScores{}, 0},
		{
			"weighted blend without amplifier",
			model.EmotionScores{Urgency: 1.0, Anger: 0.5, Concern: 0.2, Frustration: 0.1},
			0.40*1.0 + 0.30*0.5 + 0.20*0.2 + 0.10*0.1,
		},
		{
			"concern above 0.3 amplifies by 1.2",
			model.EmotionScores{Urgency: 0.5, Concern: 0.5},
			(0.40*0.5 + 0.20*0.5) * 1.2,
		},
		{
			"fused score clamps at 1.0",
			model.EmotionScores{Urgency: 1, Anger: 1, Concern: 1, Frustration: 1},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuseEmotionScores(tt.scores)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FuseEmotionScores = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestApplyCategoryMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		category string
		want     float64
	}{
		{"fire hazard scales by 1.9", 0.4, "fire_hazard", 0.76},
		{"noise pollution stays flat", 0.4, "noise_pollution", 0.4},
		{"unknown category gets baseline", 0.4, "made_up", 0.4},
		{"result clamps at 1.0", 0.9, "gas_leak", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyCategoryMultiplier(tt.score, tt.category)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ApplyCategoryMultiplier(%f, %s) = %f, want %f",
					tt.score, tt.category, got, tt.want)
			}
		})
	}
}

func TestSeedFromSentiment(t *testing.T) {
	t.Run("negative high confidence seeds anger", func(t *testing.T) {
		scores := seedFromSentiment(&model.SentimentResult{Label: "negative", Confidence: 0.9})
		if math.Abs(scores.Concern-0.72) > 1e-9 {
			t.Errorf("concern = %f, want 0.72", scores.Concern)
		}
		if math.Abs(scores.Frustration-0.54) > 1e-9 {
			t.Errorf("frustration = %f, want 0.54", scores.Frustration)
		}
		if math.Abs(scores.Anger-0.45) > 1e-9 {
			t.Errorf("anger = %f, want 0.45", scores.Anger)
		}
	})

	t.Run("negative low confidence skips anger", func(t *testing.T) {
		scores := seedFromSentiment(&model.SentimentResult{Label: "negative", Confidence: 0.6})
		if scores.Anger != 0 {
			t.Errorf("anger = %f, want 0 below confidence gate", scores.Anger)
		}
	})

	t.Run("positive retains residual urgency only", func(t *testing.T) {
		scores := seedFromSentiment(&model.SentimentResult{Label: "positive", Confidence: 1.0})
		if math.Abs(scores.Urgency-0.2) > 1e-9 {
			t.Errorf("urgency = %f, want 0.2", scores.Urgency)
		}
		if scores.Anger != 0 || scores.Concern != 0 || scores.Frustration != 0 {
			t.Error("positive sentiment should not seed negative axes")
		}
	})
}

func TestAnalyze_AIAssisted(t *testing.T) {
	svc := NewEmotionService(&stubClassifier{label: "negative", conf: 0.9, available: true})

	res := svc.Analyze(context.Background(), "the drain has been overflowing near our house")
	if res.Method != model.EmotionMethodAIAssisted {
		t.Errorf("method = %s, want %s", res.Method, model.EmotionMethodAIAssisted)
	}
	// The classifier seed alone puts concern at 0.72 and the amplifier fires.
	if res.PerEmotion.Concern < 0.7 {
		t.Errorf("concern = %f, want classifier seed to dominate", res.PerEmotion.Concern)
	}
	if res.Score <= 0 || res.Score > 1 {
		t.Errorf("score %f out of (0,1]", res.Score)
	}
}

func TestAnalyze_ClassifierFailureDegradesToKeywords(t *testing.T) {
	svc := NewEmotionService(&stubClassifier{err: errAny, available: true})

	res := svc.Analyze(context.Background(), "urgent danger near the school")
	if res.Method != model.EmotionMethodKeywordOnly {
		t.Errorf("method = %s, want keyword-only after classifier failure", res.Method)
	}
	if res.PerEmotion.Urgency == 0 {
		t.Error("keyword pass should still score urgency")
	}
}

// faultyClassifier panics instead of returning, exercising the recover path.
type faultyClassifier struct{}

func (faultyClassifier) Classify(_ context.Context, _ string) (*model.SentimentResult, error) {
	panic("malformed classifier payload")
}

func (faultyClassifier) Available() bool { return true }

func TestAnalyze_PanicRecoversToNeutral(t *testing.T) {
	svc := NewEmotionService(faultyClassifier{})

	res := svc.Analyze(context.Background(), "overflowing drain near our house")
	if res.Method != model.EmotionMethodNeutral {
		t.Errorf("method = %s, want %s after panic", res.Method, model.EmotionMethodNeutral)
	}
	if res.Score != 0.5 {
		t.Errorf("score = %f, want neutral 0.5", res.Score)
	}
	if res.Language != "en" {
		t.Errorf("language = %s, want en", res.Language)
	}
}

func TestNeutralEmotionResult(t *testing.T) {
	res := NeutralEmotionResult("")
	if res.Score != 0.5 {
		t.Errorf("neutral score = %f, want 0.5", res.Score)
	}
	if res.Language != "en" {
		t.Errorf("language = %s, want en default", res.Language)
	}
	if res.Method != model.EmotionMethodNeutral {
		t.Errorf("method = %s, want %s", res.Method, model.EmotionMethodNeutral)
	}
}
