package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/quantummesh/impactview/pkg/apperror"
)

const systemInstruction = "You are an AI ethics and community impact assessor for QuantumMesh, a decentralized trust network. Analyze community actions and provide scores and feedback. Always return valid JSON only, no markdown or extra text."

// GeminiOracle is the production Oracle backed by Google Gemini.
type GeminiOracle struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiOracle(ctx context.Context, modelName string) (*GeminiOracle, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &GeminiOracle{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiOracle) Assess(ctx context.Context, req AssessmentRequest) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return "", mapOracleError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response from model", apperror.ErrOracleUnavailable)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("%w: no text content in response", apperror.ErrOracleUnavailable)
}

func (g *GeminiOracle) Close() {
	g.client.Close()
}

// mapOracleError translates provider status codes into the three failure
// kinds the rest of the system understands.
func mapOracleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %v", apperror.ErrOracleRateLimited, err)
		case apiErr.Code == 402,
			apiErr.Code == 403 && strings.Contains(strings.ToLower(apiErr.Message), "quota"):
			return fmt.Errorf("%w: %v", apperror.ErrOracleQuotaExhausted, err)
		}
	}
	return fmt.Errorf("%w: %v", apperror.ErrOracleUnavailable, err)
}
