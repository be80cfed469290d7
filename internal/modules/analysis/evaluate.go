package analysis

import (
	"encoding/json"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	baseTokens        = 5
	completenessBonus = 5
	approvalThreshold = 0.6

	// FallbackFeedback is substituted when the oracle's output cannot be
	// parsed; scoring must never fail on output shape alone.
	FallbackFeedback = "Action received. Manual review may be needed for detailed assessment."
	defaultFeedback  = "Action analyzed successfully."
	fallbackScore    = 0.7
	defaultScore     = 0.5
)

// Assessment is the finalized scoring record the caller persists onto the
// action.
type Assessment struct {
	SentimentScore float64 `json:"sentiment_score"`
	RelevanceScore float64 `json:"relevance_score"`
	QualityScore   float64 `json:"quality_score"`
	Feedback       string  `json:"feedback"`
	TokensEarned   int     `json:"tokens_earned"`
	Status         string  `json:"status"`
}

type rawAssessment struct {
	SentimentScore *float64 `json:"sentiment_score"`
	RelevanceScore *float64 `json:"relevance_score"`
	QualityScore   *float64 `json:"quality_score"`
	Feedback       string   `json:"feedback"`
}

// Evaluate turns raw oracle output into a finalized Assessment. Malformed
// output is replaced by the fixed fallback record; individual scores are
// clamped into [0,1] with 0.5 substituted for missing values.
func Evaluate(raw string, hasImage, hasLocation bool) Assessment {
	parsed, ok := parseResponse(raw)
	if !ok {
		log.Warnf("unparseable oracle output, falling back to manual-review record")
		fb := fallbackScore
		parsed = rawAssessment{
			SentimentScore: &fb,
			RelevanceScore: &fb,
			QualityScore:   &fb,
			Feedback:       FallbackFeedback,
		}
	}

	sentiment := clampScore(parsed.SentimentScore)
	relevance := clampScore(parsed.RelevanceScore)
	quality := clampScore(parsed.QualityScore)

	feedback := parsed.Feedback
	if feedback == "" {
		feedback = defaultFeedback
	}

	return Assessment{
		SentimentScore: sentiment,
		RelevanceScore: relevance,
		QualityScore:   quality,
		Feedback:       feedback,
		TokensEarned:   TokensFor(quality, hasImage, hasLocation),
		Status:         StatusFor(quality),
	}
}

// TokensFor computes the token award: a base of 5 scaled 1x-3x by
// quality, plus a completeness bonus when both a proof image and a
// location label were provided.
func TokensFor(quality float64, hasImage, hasLocation bool) int {
	multiplier := 1 + quality*2
	bonus := 0.0
	if hasImage && hasLocation {
		bonus = completenessBonus
	}
	return int(math.Round(baseTokens*multiplier + bonus))
}

// StatusFor derives the lifecycle status from the quality score.
func StatusFor(quality float64) string {
	if quality >= approvalThreshold {
		return "approved"
	}
	return "pending"
}

func parseResponse(raw string) (rawAssessment, bool) {
	text := stripCodeFences(raw)
	if text == "" {
		return rawAssessment{}, false
	}

	var parsed rawAssessment
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return rawAssessment{}, false
	}
	return parsed, true
}

// stripCodeFences removes a markdown code fence wrapper, which models emit
// despite being told not to.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return ""
	}
	endIdx := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[1:endIdx], "\n"))
}

func clampScore(score *float64) float64 {
	if score == nil {
		return defaultScore
	}
	return math.Max(0, math.Min(1, *score))
}
