/*
Package ai provides functionality to interact with the Gemini API and turn the
daily digest into the briefing prose.
*/
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/zhuwx/dailybrief/internal/digest"
)

// ErrEmptyResponse marks a generation call that returned no text. The cycle
// treats it the same as a hard API error: terminal, no retry.
var ErrEmptyResponse = errors.New("generation returned empty text")

// Generator wraps the Gemini client. One Generate call per cycle.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a generator for the given API key and model name.
func NewGenerator(ctx context.Context, apiKey string, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{client: client, model: model}, nil
}

// Generate renders the digest into the report prompt and makes a single
// generation call. An empty response is an error, never an empty report.
func (g *Generator) Generate(ctx context.Context, d *digest.Digest) (string, error) {
	prompt := BuildPrompt(d)

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: prompt}},
			Role:  "user",
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
