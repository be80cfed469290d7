package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestEvaluateWellFormedResponse(t *testing.T) {
	raw := `{"sentiment_score": 0.85, "relevance_score": 0.90, "quality_score": 0.88, "feedback": "Strong community impact."}`

	got := Evaluate(raw, true, true)

	if got.SentimentScore != 0.85 || got.RelevanceScore != 0.90 || got.QualityScore != 0.88 {
		t.Errorf("scores not preserved: %+v", got)
	}
	if got.Feedback != "Strong community impact." {
		t.Errorf("feedback = %q", got.Feedback)
	}
	if got.Status != "approved" {
		t.Errorf("status = %q, want approved", got.Status)
	}
	// round(5*(1+2*0.88)) + 5 = round(13.8) + 5 = 19
	if got.TokensEarned != 19 {
		t.Errorf("tokens = %d, want 19", got.TokensEarned)
	}
}

func TestEvaluateStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"sentiment_score\": 0.5, \"relevance_score\": 0.5, \"quality_score\": 0.5, \"feedback\": \"ok\"}\n```"

	got := Evaluate(raw, false, false)
	if got.QualityScore != 0.5 {
		t.Errorf("quality = %v, want 0.5", got.QualityScore)
	}
	if got.Status != "pending" {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestEvaluateMalformedFallsBack(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{truncated", "```"} {
		got := Evaluate(raw, false, false)
		if got.SentimentScore != 0.7 || got.RelevanceScore != 0.7 || got.QualityScore != 0.7 {
			t.Errorf("Evaluate(%q) scores = %+v, want all 0.7", raw, got)
		}
		if got.Feedback != FallbackFeedback {
			t.Errorf("Evaluate(%q) feedback = %q", raw, got.Feedback)
		}
		// 0.7 >= 0.6, fallback records approve
		if got.Status != "approved" {
			t.Errorf("Evaluate(%q) status = %q, want approved", raw, got.Status)
		}
	}
}

func TestEvaluateMissingScoreDefaults(t *testing.T) {
	raw := `{"sentiment_score": 0.9, "feedback": "partial"}`

	got := Evaluate(raw, false, false)
	if got.RelevanceScore != 0.5 || got.QualityScore != 0.5 {
		t.Errorf("missing scores should default to 0.5, got %+v", got)
	}
	if got.SentimentScore != 0.9 {
		t.Errorf("sentiment = %v, want 0.9", got.SentimentScore)
	}
}

func TestEvaluateExplicitZeroIsKept(t *testing.T) {
	raw := `{"sentiment_score": 0, "relevance_score": 0, "quality_score": 0, "feedback": "poor"}`

	got := Evaluate(raw, false, false)
	if got.QualityScore != 0 {
		t.Errorf("explicit zero replaced: quality = %v", got.QualityScore)
	}
	if got.TokensEarned != 5 {
		t.Errorf("tokens = %d, want 5 at zero quality", got.TokensEarned)
	}
	if got.Status != "pending" {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestEvaluateClampsOutOfRangeScores(t *testing.T) {
	raw := `{"sentiment_score": 1.5, "relevance_score": -0.3, "quality_score": 2.0, "feedback": "weird"}`

	got := Evaluate(raw, false, false)
	if got.SentimentScore != 1 || got.RelevanceScore != 0 || got.QualityScore != 1 {
		t.Errorf("clamping failed: %+v", got)
	}
}

func TestEvaluateEmptyFeedbackGetsDefault(t *testing.T) {
	raw := `{"sentiment_score": 0.6, "relevance_score": 0.6, "quality_score": 0.6}`

	got := Evaluate(raw, false, false)
	if got.Feedback != "Action analyzed successfully." {
		t.Errorf("feedback = %q", got.Feedback)
	}
}

func TestTokensFor(t *testing.T) {
	cases := []struct {
		quality     float64
		hasImage    bool
		hasLocation bool
		want        int
	}{
		{1.0, true, true, 20},  // max award
		{1.0, false, false, 15},
		{0.0, false, false, 5}, // floor
		{0.0, true, true, 10},
		{0.5, false, false, 10},
		{0.5, true, false, 10},  // image alone earns no bonus
		{0.5, false, true, 10},  // location alone earns no bonus
		{0.88, true, true, 19},
	}
	for _, c := range cases {
		if got := TokensFor(c.quality, c.hasImage, c.hasLocation); got != c.want {
			t.Errorf("TokensFor(%v, %v, %v) = %d, want %d", c.quality, c.hasImage, c.hasLocation, got, c.want)
		}
	}
}

func TestStatusForThreshold(t *testing.T) {
	if StatusFor(0.6) != "approved" {
		t.Error("0.6 should approve")
	}
	if StatusFor(math.Nextafter(0.6, 0)) != "pending" {
		t.Error("just below 0.6 should stay pending")
	}
}

func TestStripCodeFencesVariants(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"```", ""},
	}
	for _, c := range cases {
		if got := stripCodeFences(c.in); got != c.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildPromptIncludesOptionalContext(t *testing.T) {
	full := BuildPrompt(AssessmentRequest{
		Description:  "Cleaned up the riverbank",
		LocationName: "Riverside Park",
		HasImage:     true,
	})
	if !strings.Contains(full, `Description: "Cleaned up the riverbank"`) {
		t.Errorf("description missing from prompt:\n%s", full)
	}
	if !strings.Contains(full, "Location: Riverside Park") {
		t.Error("location line missing")
	}
	if !strings.Contains(full, "Proof Image Provided: Yes") {
		t.Error("image line missing")
	}
	if !strings.Contains(full, "Return ONLY valid JSON") {
		t.Error("format instruction missing")
	}

	bare := BuildPrompt(AssessmentRequest{Description: "Helped a neighbor"})
	if strings.Contains(bare, "Location:") {
		t.Error("location line should be omitted when absent")
	}
	if strings.Contains(bare, "Proof Image") {
		t.Error("image line should be omitted when absent")
	}
}
