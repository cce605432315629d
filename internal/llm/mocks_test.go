package llm_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	commonllm "assessmate.app/casenote/common/llm"
	"github.com/openai/openai-go"
)

type mockClient struct {
	completeFn func(ctx context.Context, req commonllm.Request) (*commonllm.Response, error)
	requests   []commonllm.Request
}

func (m *mockClient) Complete(ctx context.Context, req commonllm.Request) (*commonllm.Response, error) {
	m.requests = append(m.requests, req)
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return &commonllm.Response{}, nil
}

func (m *mockClient) Provider() string { return "mock" }
func (m *mockClient) Model() string    { return "mock-model" }

func replying(content string) func(context.Context, commonllm.Request) (*commonllm.Response, error) {
	return func(context.Context, commonllm.Request) (*commonllm.Response, error) {
		return &commonllm.Response{Content: content, FinishReason: "stop"}, nil
	}
}

// apiError builds an SDK error the way the openai client wraps it.
func apiError(status int) error {
	return fmt.Errorf("openai chat: %w", &openai.Error{
		StatusCode: status,
		Request:    httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil),
		Response:   &http.Response{StatusCode: status},
	})
}
