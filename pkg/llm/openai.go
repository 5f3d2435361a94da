package llm

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions API.
type OpenAIGenerator struct {
	client   *openai.Client
	settings GenerationSettings
}

func NewOpenAIGenerator(apiKey, baseURL string, settings GenerationSettings) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), settings: settings}, nil
}

func (g *OpenAIGenerator) Provider() string {
	return ProviderOpenAI
}

func (g *OpenAIGenerator) Generate(ctx context.Context, model, prompt string) (*Response, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.settings.Temperature,
		TopP:        g.settings.TopP,
		MaxTokens:   int(g.settings.MaxOutputTokens),
	})
	if err != nil {
		return nil, err
	}
	return fromOpenAI(resp), nil
}

func fromOpenAI(resp openai.ChatCompletionResponse) *Response {
	out := &Response{}
	for _, choice := range resp.Choices {
		out.Candidates = append(out.Candidates, Candidate{Parts: []string{choice.Message.Content}})
	}
	if len(resp.Choices) > 0 {
		first := resp.Choices[0].Message.Content
		out.Text = func() string { return first }
	}
	return out
}
