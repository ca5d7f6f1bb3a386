package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint.
// Works against api.openai.com and drop-in replacements (Groq etc.).
type OpenAIClient struct {
	http        *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	seed        *int
}

// NewOpenAIClient creates a client. If apiKey is empty, it falls back to the
// OPENAI_API_KEY env var. baseURL may be empty for the official endpoint.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	seed := 66
	return &OpenAIClient{
		http:        &http.Client{Timeout: 120 * time.Second},
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: 0.1,
		seed:        &seed,
	}, nil
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.model }
func (c *OpenAIClient) Close() error { return nil }

type openaiChatReq struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	Seed        *int            `json:"seed,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the text of
// the first choice. HTTP status codes are mapped onto the error taxonomy:
// 429 and 5xx are transient, other 4xx are permanent.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := openaiChatReq{
		Model:       c.model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		Seed:        c.seed,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", NewTransientError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		err := fmt.Errorf("openai: unexpected status %s: %s", resp.Status, string(body))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", NewTransientError(err)
		}
		// 4xx covers content rejection and context_length_exceeded.
		return "", NewPermanentError(err)
	}
	var out openaiChatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", NewTransientError(err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", NewTransientError(ErrEmptyCompletion)
	}
	return out.Choices[0].Message.Content, nil
}
