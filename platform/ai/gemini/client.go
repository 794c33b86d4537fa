// Package gemini provides a client for scoring meeting minutes text
// with the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const systemPrompt = "Analyze the following Meeting Minutes (MoM) for BANT signals (Budget, Authority, Need, Timeline). " +
	"Return a JSON object with the following keys:\n" +
	"- score: integer (0-100)\n" +
	"- status: string ('HOT', 'WARM', 'COLD', 'LOST')\n" +
	"- reasoning: string (brief explanation)\n" +
	"- deal_breakers_found: boolean\n\n" +
	"Input Text:\n"

// Analysis is the structured result of a minutes classification call.
type Analysis struct {
	Score             int    `json:"score"`
	Status            string `json:"status"`
	Reasoning         string `json:"reasoning"`
	DealBreakersFound bool   `json:"deal_breakers_found"`
}

// Config configures the Gemini client.
type Config struct {
	APIKey string
	Model  string
}

// Client calls the Gemini API to classify meeting minutes.
// A client with an empty API key reports itself as unconfigured and
// never issues requests.
type Client struct {
	apiKey string
	model  string
}

// NewClient creates a new Gemini classifier client.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Client{
		apiKey: cfg.APIKey,
		model:  model,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// AnalyzeMinutes sends the minutes text to Gemini and parses the
// structured analysis from the response.
func (c *Client) AnalyzeMinutes(ctx context.Context, text string) (Analysis, error) {
	if !c.Configured() {
		return Analysis{}, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(systemPrompt+text), nil)
	if err != nil {
		return Analysis{}, fmt.Errorf("gemini request failed: %w", err)
	}

	return parseAnalysis(resp.Text())
}

// parseAnalysis extracts the JSON analysis from a model response,
// tolerating markdown code fences around the payload.
func parseAnalysis(content string) (Analysis, error) {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if analysis.Score < 0 {
		analysis.Score = 0
	}
	if analysis.Score > 100 {
		analysis.Score = 100
	}

	return analysis, nil
}
