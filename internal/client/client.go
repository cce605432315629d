// Package client calls the case-note HTTP API on behalf of the wizard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"assessmate.app/casenote/internal/http/dto"
	"assessmate.app/casenote/internal/model"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether the server rejected the input (HTTP 400).
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

type Client struct {
	baseURL   string
	http      *http.Client
	sessionID string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request. Without it only the transport's own limits
// apply.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithSessionID sends id in the X-Wizard-Session header of every request.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) AnalyzeObservations(ctx context.Context, observations string) (*dto.AnalyzeObservationsResponse, error) {
	var resp dto.AnalyzeObservationsResponse
	err := c.do(ctx, http.MethodPost, "/api/analyze-observations", dto.AnalyzeObservationsRequest{Observations: observations}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GenerateCaseNote(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (*dto.GenerateCaseNoteResponse, error) {
	var resp dto.GenerateCaseNoteResponse
	err := c.do(ctx, http.MethodPost, "/api/generate-case-note", dto.GenerateCaseNoteRequest{
		Observations: observations,
		Metadata:     metadata,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionID != "" {
		req.Header.Set(dto.SessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &errResp); jsonErr != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
