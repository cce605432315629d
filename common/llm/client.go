package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"google.golang.org/api/googleapi"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// ErrNotConfigured is returned by the disabled client.
var ErrNotConfigured = errors.New("language model is not configured")

// Client sends one system+user exchange and returns the raw text reply.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Provider() string
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any  // structured JSON output when the provider supports it
	JSONMode     bool // JSON object output without a schema
	MaxTokens    int
	Temperature  *float64 // nil = model default
}

// WantsJSON reports whether the caller expects a JSON object back.
func (r Request) WantsJSON() bool {
	return r.JSONMode || r.Schema != nil
}

type Response struct {
	Content          string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// New selects a provider client from cfg.Provider. Defaults to OpenAI.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return newOpenAIClient(cfg), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	case ProviderGoogle:
		return newGoogleClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

type disabledClient struct {
	provider string
	model    string
}

// NewDisabled returns a client whose every call fails with ErrNotConfigured.
// The server uses it when no credential is set so it can still start.
func NewDisabled(provider, model string) Client {
	return &disabledClient{provider: provider, model: model}
}

func (c *disabledClient) Complete(context.Context, Request) (*Response, error) {
	return nil, ErrNotConfigured
}

func (c *disabledClient) Provider() string { return c.provider }
func (c *disabledClient) Model() string    { return c.model }

func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// StatusCode extracts the upstream HTTP status from any provider SDK error.
// It returns 0 when err carries no HTTP response.
func StatusCode(err error) int {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code
	}
	return 0
}
