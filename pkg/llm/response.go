package llm

import (
	"context"
	"strings"
)

// Generator is one provider backend. Generate sends prompt to the named
// model and returns whatever came back.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, model, prompt string) (*Response, error)
}

// Candidate is one alternative answer, as plain text parts.
type Candidate struct {
	Parts []string
}

// Response is a provider answer. Backends that offer a direct text
// accessor set Text; all of them fill Candidates.
type Response struct {
	Text       func() string
	Candidates []Candidate
}

// ExtractText returns the response text, preferring the direct accessor
// and falling back to the first candidate that has any text.
func ExtractText(resp *Response) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if resp.Text != nil {
		if text := strings.TrimSpace(resp.Text()); text != "" {
			return text, nil
		}
	}
	for _, c := range resp.Candidates {
		if text := strings.TrimSpace(strings.Join(c.Parts, "")); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}
