package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiGenerator struct {
	client   *genai.Client
	settings GenerationSettings
}

func NewGeminiGenerator(ctx context.Context, apiKey string, settings GenerationSettings) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, settings: settings}, nil
}

func (g *GeminiGenerator) Provider() string {
	return ProviderGemini
}

func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (*Response, error) {
	m := g.client.GenerativeModel(model)
	m.SetTemperature(g.settings.Temperature)
	m.SetTopP(g.settings.TopP)
	m.SetTopK(g.settings.TopK)
	m.SetMaxOutputTokens(g.settings.MaxOutputTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	return fromGemini(resp), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func fromGemini(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var parts []string
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
		out.Candidates = append(out.Candidates, Candidate{Parts: parts})
	}
	return out
}
