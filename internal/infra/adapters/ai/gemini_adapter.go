package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"apostila-generator/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter generates text through the official Gemini SDK. Each prompt
// is a single-shot generation; the pipeline carries its own context inside
// the prompt, so no chat history is kept.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text += p.Text
		}
	}
	if text == "" {
		return "", errors.New("gemini: no text in candidate")
	}
	return text, nil
}

func (g *GeminiAdapter) ModelName() string { return g.model }
