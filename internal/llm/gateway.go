package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"assessmate.app/casenote/common/llm"
	"assessmate.app/casenote/common/logger"
	"assessmate.app/casenote/internal/model"
)

// Gateway wraps the two completion calls the system makes. Both calls run
// once; failures are reported as *model.UpstreamError and never retried.
type Gateway interface {
	RequestGapAnalysis(ctx context.Context, observations string) (*model.GapAnalysis, error)
	RequestCaseNoteNarrative(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (string, error)
}

// CallSite binds a provider client to the sampling settings of one call.
type CallSite struct {
	Client      llm.Client
	MaxTokens   int
	Temperature float64
}

type gateway struct {
	analysis   CallSite
	generation CallSite
	schema     any
}

func NewGateway(analysis, generation CallSite) Gateway {
	return &gateway{
		analysis:   analysis,
		generation: generation,
		schema:     llm.GenerateSchema[gapAnalysisReply](),
	}
}

func (g *gateway) RequestGapAnalysis(ctx context.Context, observations string) (*model.GapAnalysis, error) {
	if strings.TrimSpace(observations) == "" {
		return nil, &model.EmptyInputError{Message: "observations are required"}
	}

	sc := logger.StartSpan(ctx, "llm.gap_analysis")
	defer sc.End()
	ctx = sc.Context()

	resp, err := g.analysis.Client.Complete(ctx, llm.Request{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   observations,
		SchemaName:   "gap_analysis",
		Schema:       g.schema,
		JSONMode:     true,
		MaxTokens:    g.analysis.MaxTokens,
		Temperature:  llm.Temp(g.analysis.Temperature),
	})
	if err != nil {
		sc.RecordError(err)
		return nil, upstreamError(ctx, "gap analysis", err)
	}

	analysis, err := parseGapAnalysis(resp.Content)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "gap analysis reply rejected",
			"error", err,
			"finish_reason", resp.FinishReason,
			"content_length", len(resp.Content))
		return nil, &model.UpstreamError{Message: "language model returned an invalid analysis", Err: err}
	}

	return analysis, nil
}

func (g *gateway) RequestCaseNoteNarrative(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (string, error) {
	if err := metadata.Validate(); err != nil {
		return "", err
	}
	if !observations.HasContent() {
		return "", &model.EmptyInputError{Message: "observations are required"}
	}

	userPrompt, err := narrativePrompt(observations, metadata)
	if err != nil {
		return "", fmt.Errorf("building narrative prompt: %w", err)
	}

	sc := logger.StartSpan(ctx, "llm.case_note_narrative")
	defer sc.End()
	ctx = sc.Context()

	resp, err := g.generation.Client.Complete(ctx, llm.Request{
		SystemPrompt: generationSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    g.generation.MaxTokens,
		Temperature:  llm.Temp(g.generation.Temperature),
	})
	if err != nil {
		sc.RecordError(err)
		return "", upstreamError(ctx, "case note generation", err)
	}

	narrative := strings.TrimSpace(resp.Content)
	if narrative == "" {
		return "", &model.UpstreamError{Message: "language model returned an empty case note"}
	}

	if resp.FinishReason == "length" || resp.FinishReason == "max_tokens" {
		slog.WarnContext(ctx, "case note narrative truncated at token limit",
			"max_tokens", g.generation.MaxTokens)
	}

	return narrative, nil
}

// narrativePrompt renders metadata and observations as indented JSON blocks.
func narrativePrompt(observations model.DomainObservations, metadata model.CaseNoteMetadata) (string, error) {
	meta, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", err
	}
	obs, err := json.MarshalIndent(observations.Complete(), "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Metadata:\n")
	sb.Write(meta)
	sb.WriteString("\n\nObservations by Domain:\n")
	sb.Write(obs)
	sb.WriteString("\n\n")
	sb.WriteString(generationClosing)
	return sb.String(), nil
}

// upstreamError normalizes a provider failure into a human-readable message.
func upstreamError(ctx context.Context, call string, err error) *model.UpstreamError {
	status := llm.StatusCode(err)

	var message string
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		message = "language model is not configured"
	case status == http.StatusUnauthorized:
		message = "invalid credentials"
	case status == http.StatusTooManyRequests:
		message = "rate limited"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		message = "request cancelled"
	default:
		message = "upstream request failed"
	}

	slog.ErrorContext(ctx, call+" failed",
		"error", err,
		"status_code", status,
		"message", message)

	return &model.UpstreamError{StatusCode: status, Message: message, Err: err}
}
