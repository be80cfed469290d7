package analysis

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the assessment prompt. Optional fields are left
// out entirely when absent so the model never sees empty placeholders.
func BuildPrompt(req AssessmentRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this community action submission:\n\nDescription: %q", req.Description)

	if req.LocationName != "" {
		fmt.Fprintf(&b, "\nLocation: %s", req.LocationName)
	}
	if req.HasImage {
		b.WriteString("\nProof Image Provided: Yes")
	}

	b.WriteString(`

Provide a structured analysis with scores (0-1 range) for:
1. Sentiment Score: Measure positivity and constructive nature
2. Relevance Score: Alignment with community values (environmental sustainability, social support, civic engagement)
3. Quality Score: Authenticity, completeness, and verifiable impact
4. Brief Feedback: 2-3 sentences explaining the assessment

Return ONLY valid JSON in this exact format:
{
  "sentiment_score": 0.85,
  "relevance_score": 0.90,
  "quality_score": 0.88,
  "feedback": "Your explanation here"
}`)

	return b.String()
}
