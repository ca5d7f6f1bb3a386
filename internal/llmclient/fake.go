package llmclient

import "context"

// Fake is a deterministic in-process client for offline runs and tests.
// CompleteFunc receives the full prompt and returns the canned response.
type Fake struct {
	CompleteFunc func(prompt string) (string, error)
}

func (f *Fake) Name() string { return "FakeLLM" }
func (f *Fake) Close() error { return nil }

func (f *Fake) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.CompleteFunc == nil {
		return "", nil
	}
	return f.CompleteFunc(prompt)
}
