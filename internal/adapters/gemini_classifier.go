// Package adapters provides anti-corruption adapters between platform
// clients and the interfaces domain modules consume.
package adapters

import (
	"context"

	"crmdash_backend/internal/scoring/ports"
	"crmdash_backend/platform/ai/gemini"
)

// GeminiClassifier adapts the platform Gemini client to the scoring
// pipeline's Classifier port.
type GeminiClassifier struct {
	client *gemini.Client
}

// NewGeminiClassifier wraps a Gemini client.
func NewGeminiClassifier(client *gemini.Client) *GeminiClassifier {
	return &GeminiClassifier{client: client}
}

// Configured reports whether the underlying client has an API key.
func (a *GeminiClassifier) Configured() bool {
	return a.client.Configured()
}

// Classify scores the minutes text via Gemini.
func (a *GeminiClassifier) Classify(ctx context.Context, text string) (ports.Analysis, error) {
	analysis, err := a.client.AnalyzeMinutes(ctx, text)
	if err != nil {
		return ports.Analysis{}, err
	}

	return ports.Analysis{
		Score:             analysis.Score,
		Status:            analysis.Status,
		Reasoning:         analysis.Reasoning,
		DealBreakersFound: analysis.DealBreakersFound,
	}, nil
}

// Compile-time check that the adapter implements the port.
var _ ports.Classifier = (*GeminiClassifier)(nil)
