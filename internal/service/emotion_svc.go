package service

import (
	"context"
	"math"
	"strings"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/client"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/model"
)

// Emotion fusion weights: urgency dominates because it maps most directly to
// triage ordering.
const (
	urgencyWeight     = 0.40
	angerWeight       = 0.30
	concernWeight     = 0.20
	frustrationWeight = 0.10

	keywordIncrement    = 0.25
	concernAmplifierAt  = 0.30
	concernAmplifier    = 1.20
	neutralDefaultScore = 0.50
)

// emotionKeywords holds the per-language keyword lists for each emotion axis.
type emotionKeywords struct {
	Anger       []string
	Urgency     []string
	Frustration []string
	Concern     []string
}

var keywordTables = map[string]emotionKeywords{
	"en": {
		Anger:       []string{"angry", "furious", "outrage", "disgusting", "shameful", "unacceptable", "ridiculous", "pathetic"},
		Urgency:     []string{"urgent", "emergency", "immediately", "asap", "critical", "now", "danger", "dying", "collapsing"},
		Frustration: []string{"again", "still", "nobody", "ignored", "fed up", "tired of", "always", "every time", "no one"},
		Concern:     []string{"worried", "afraid", "scared", "unsafe", "risk", "concern", "fear", "anxious", "health hazard"},
	},
	"hi": {
		Anger:       []string{"गुस्सा", "नाराज़", "शर्मनाक", "बर्दाश्त"},
		Urgency:     []string{"तुरंत", "जल्दी", "आपातकाल", "खतरा", "अभी"},
		Frustration: []string{"फिर से", "बार बार", "कोई नहीं", "परेशान"},
		Concern:     []string{"चिंता", "डर", "असुरक्षित", "खतरनाक"},
	},
	"te": {
		Anger:       []string{"కోపం", "ఆగ్రహం", "సిగ్గుచేటు"},
		Urgency:     []string{"అత్యవసరం", "వెంటనే", "ప్రమాదం", "తక్షణమే"},
		Frustration: []string{"మళ్ళీ", "ఎవరూ", "విసుగు"},
		Concern:     []string{"ఆందోళన", "భయం", "అసురక్షితం"},
	},
	"ta": {
		Anger:       []string{"கோபம", "வெறுப்பு", "அவமானம்"},
		Urgency:     []string{"அவசரம்", "உடனடியாக", "ஆபத்து"},
		Frustration: []string{"மீண்டும்", "யாரும்", "சோர்வு"},
		Concern:     []string{"கவலை", "பயம்", "பாதுகாப்பற்ற"},
	},
}

// criticalUrgencyPhrases carry a higher weight than single urgency keywords.
var criticalUrgencyPhrases = []string{
	"life threatening", "people could die", "about to collapse", "gas smell",
	"live wire", "children playing near", "major accident", "burst pipe",
	"spreading fast", "since days no action",
}

// safetyConcernKeywords flag vulnerable groups and risky times of day. Their
// contribution is capped so they season rather than dominate the concern axis.
var safetyConcernKeywords = []string{
	"children", "kids", "elderly", "school zone", "pregnant", "disabled",
	"at night", "after dark", "women", "hospital patients",
}

// angerPhrases are multi-word constructions the keyword pass misses.
var angerPhrases = []string{
	"how many times", "what are you doing", "worst department",
	"no one cares", "complete failure", "absolutely useless",
}

// CategoryMultipliers scales the fused emotion score by issue severity class.
// Administrative nuisances sit near 1.0, life-safety issues near 1.9.
var CategoryMultipliers = map[string]float64{
	"fire_hazard":        1.9,
	"gas_leak":           1.9,
	"electrical_danger":  1.8,
	"flooding":           1.7,
	"sewage_overflow":    1.6,
	"tree_fall":          1.5,
	"water_supply":       1.4,
	"road_damage":        1.3,
	"traffic_signal":     1.3,
	"pothole":            1.2,
	"broken_streetlight": 1.2,
	"stray_animals":      1.2,
	"garbage_collection": 1.1,
	"air_pollution":      1.1,
	"noise_pollution":    1.0,
	"street_cleaning":    1.0,
	"others":             1.0,
}

// EmotionService scores free-text complaint descriptions for anger, urgency,
// frustration and concern across languages. It never lets a collaborator
// failure escape: the worst case is a keyword-only or neutral result.
type EmotionService struct {
	sentiment client.SentimentClassifier
}

func NewEmotionService(sentiment client.SentimentClassifier) *EmotionService {
	return &EmotionService{sentiment: sentiment}
}

// Analyze scores the text. The returned score is always in [0,1]; a panic
// anywhere below lands on the neutral default instead of escaping.
func (s *EmotionService) Analyze(ctx context.Context, text string) (result model.EmotionResult) {
	lang := "en"
	defer func() {
		if r := recover(); r != nil {
			middleware.Logger.Error().Interface("panic", r).
				Msg("emotion: analysis panicked, using neutral result")
			result = NeutralEmotionResult(lang)
		}
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.EmotionResult{Language: "en", Method: model.EmotionMethodNoInput}
	}

	lang = DetectLanguage(trimmed)
	lower := strings.ToLower(trimmed)

	method := model.EmotionMethodKeywordOnly
	scores := model.EmotionScores{}

	// Optional AI seed. Failure is logged and the local pass still runs.
	if s.sentiment != nil && s.sentiment.Available() {
		if res, err := s.sentiment.Classify(ctx, trimmed); err == nil {
			scores = seedFromSentiment(res)
			method = model.EmotionMethodAIAssisted
		} else {
			middleware.Logger.Warn().Err(err).Msg("emotion: sentiment classifier degraded to keyword-only")
		}
	}

	// Local keyword pass, max-merged with the AI seed so the same signal is
	// never counted twice.
	table, ok := keywordTables[lang]
	if !ok {
		table = keywordTables["en"]
	}
	scores.Anger = math.Max(scores.Anger, keywordScore(lower, table.Anger))
	scores.Urgency = math.Max(scores.Urgency, keywordScore(lower, table.Urgency))
	scores.Frustration = math.Max(scores.Frustration, keywordScore(lower, table.Frustration))
	scores.Concern = math.Max(scores.Concern, keywordScore(lower, table.Concern))

	// Independent phrase detectors, each with its own cap; per-axis result is
	// the max of keyword score and detector boost.
	scores.Urgency = math.Max(scores.Urgency, urgencyBoost(lower))
	scores.Concern = math.Max(scores.Concern, safetyConcernBoost(lower))
	scores.Anger = math.Max(scores.Anger, angerBoost(lower))

	return model.EmotionResult{
		Score:      FuseEmotionScores(scores),
		PerEmotion: scores,
		Language:   lang,
		Method:     method,
	}
}

// FuseEmotionScores blends the per-axis scores into one scalar, applying the
// concern amplifier when something is clearly wrong.
func FuseEmotionScores(s model.EmotionScores) float64 {
	score := urgencyWeight*s.Urgency + angerWeight*s.Anger +
		concernWeight*s.Concern + frustrationWeight*s.Frustration
	if s.Concern > concernAmplifierAt {
		score *= concernAmplifier
	}
	return clamp01(score)
}

// ApplyCategoryMultiplier scales an emotion score by the category's severity
// class. Unknown categories get the baseline 1.0. The result stays in [0,1].
func ApplyCategoryMultiplier(score float64, category string) float64 {
	mult, ok := CategoryMultipliers[category]
	if !ok {
		mult = 1.0
	}
	return clamp01(score * mult)
}

// NeutralEmotionResult is the degraded default used when analysis itself
// fails: neither alarming nor dismissive.
func NeutralEmotionResult(lang string) model.EmotionResult {
	if lang == "" {
		lang = "en"
	}
	return model.EmotionResult{
		Score:    neutralDefaultScore,
		Language: lang,
		Method:   model.EmotionMethodNeutral,
	}
}

// DetectLanguage guesses the text language from Unicode script blocks.
// Devanagari covers Hindi and Marathi; the first matching script wins and
// Latin text defaults to English.
func DetectLanguage(text string) string {
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			return "hi"
		case r >= 0x0C00 && r <= 0x0C7F:
			return "te"
		case r >= 0x0B80 && r <= 0x0BFF:
			return "ta"
		}
	}
	return "en"
}

func keywordScore(lower string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score += keywordIncrement
		}
	}
	return math.Min(score, 1.0)
}

// urgencyBoost scores the critical-phrase list at double keyword weight.
func urgencyBoost(lower string) float64 {
	var boost float64
	for _, phrase := range criticalUrgencyPhrases {
		if strings.Contains(lower, phrase) {
			boost += 2 * keywordIncrement
		}
	}
	return math.Min(boost, 1.0)
}

// safetyConcernBoost contributes at most 0.75 so vulnerable-group mentions
// raise concern without saturating it on their own.
func safetyConcernBoost(lower string) float64 {
	var boost float64
	for _, kw := range safetyConcernKeywords {
		if strings.Contains(lower, kw) {
			boost += keywordIncrement
		}
	}
	return math.Min(boost, 0.75)
}

func angerBoost(lower string) float64 {
	var boost float64
	for _, phrase := range angerPhrases {
		if strings.Contains(lower, phrase) {
			boost += 2 * keywordIncrement
		}
	}
	return math.Min(boost, 1.0)
}

// seedFromSentiment maps a classifier label onto axis seeds:
// negative text reads as concern plus frustration (and anger when the model
// is confident), positive text retains only residual urgency, neutral text
// gets half-weighted urgency.
func seedFromSentiment(res *model.SentimentResult) model.EmotionScores {
	conf := clamp01(res.Confidence)
	switch res.Label {
	case "negative":
		scores := model.EmotionScores{
			Concern:     conf * 0.8,
			Frustration: conf * 0.6,
		}
		if conf > 0.75 {
			scores.Anger = conf * 0.5
		}
		return scores
	case "positive":
		return model.EmotionScores{Urgency: conf * 0.2}
	default: // neutral
		return model.EmotionScores{Urgency: conf * 0.5}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
