package llmclient

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. Retries
// and caching are applied via Middleware, not here.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	// The genai client reads GEMINI_API_KEY from the environment when the
	// config does not carry a key.
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", classifyGenaiErr(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", NewTransientError(ErrEmptyCompletion)
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", NewTransientError(ErrEmptyCompletion)
	}
	return b.String(), nil
}

func classifyGenaiErr(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(msg, "UNAVAILABLE"),
		strings.Contains(msg, "DEADLINE_EXCEEDED"), strings.Contains(msg, "429"):
		return NewTransientError(err)
	case strings.Contains(msg, "INVALID_ARGUMENT"), strings.Contains(msg, "PERMISSION_DENIED"),
		strings.Contains(msg, "FAILED_PRECONDITION"):
		return NewPermanentError(err)
	}
	return NewTransientError(err)
}
