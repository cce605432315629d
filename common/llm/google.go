package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"
)

// googleClient creates a genai.Client per call so the caller's context
// governs the connection and the client is always closed.
type googleClient struct {
	apiKey  string
	baseURL string
	model   string
}

func newGoogleClient(cfg Config) *googleClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &googleClient{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: model}
}

func (c *googleClient) Complete(ctx context.Context, req Request) (*Response, error) {
	opts := []googleoption.ClientOption{googleoption.WithAPIKey(c.apiKey)}
	if c.baseURL != "" {
		opts = append(opts, googleoption.WithEndpoint(c.baseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: genai client: %w", err)
	}
	defer client.Close()

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	m := client.GenerativeModel(c.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemPrompt)},
	}
	maxOut := int32(maxTokens)
	m.MaxOutputTokens = &maxOut
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		m.Temperature = &temp
	}
	if req.WantsJSON() {
		m.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := m.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return nil, fmt.Errorf("google: generate content: %w", err)
	}

	out := &Response{}
	var parts []string
	for _, cand := range resp.Candidates {
		if out.FinishReason == "" {
			out.FinishReason = cand.FinishReason.String()
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	out.Content = strings.Join(parts, "")

	slog.DebugContext(ctx, "llm completion finished",
		"provider", ProviderGoogle,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", out.PromptTokens,
		"completion_tokens", out.CompletionTokens)

	return out, nil
}

func (c *googleClient) Provider() string {
	return ProviderGoogle
}

func (c *googleClient) Model() string {
	return c.model
}
