package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"assessmate.app/casenote/common/logger"
	"assessmate.app/casenote/internal/llm"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/store"
)

type AnalysisResult struct {
	Analysis       model.GapAnalysis
	ProcessingTime time.Duration
}

type AnalysisService interface {
	Analyze(ctx context.Context, observations string) (*AnalysisResult, error)
}

type analysisService struct {
	gateway llm.Gateway
	usage   usageRecorder
}

func NewAnalysisService(gateway llm.Gateway, usageStore store.LLMUsageStore, labels CallLabels) AnalysisService {
	return &analysisService{
		gateway: gateway,
		usage:   usageRecorder{store: usageStore, labels: labels},
	}
}

func (s *analysisService) Analyze(ctx context.Context, observations string) (*AnalysisResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Operation: logger.Ptr(model.OperationAnalyze),
		Component: "casenote.service.analysis",
	})

	if strings.TrimSpace(observations) == "" {
		return nil, model.NewValidationError("observations are required", "observations")
	}

	start := time.Now()
	analysis, err := s.gateway.RequestGapAnalysis(ctx, observations)
	if err == nil {
		if nerr := analysis.Normalize(); nerr != nil {
			slog.WarnContext(ctx, "gap analysis violates domain partition", "error", nerr)
			err = &model.UpstreamError{Message: "language model returned an inconsistent analysis", Err: nerr}
		}
	}
	elapsed := time.Since(start)
	s.usage.record(ctx, model.OperationAnalyze, elapsed, err)

	if err != nil {
		slog.ErrorContext(ctx, "gap analysis failed",
			"error", err,
			"duration_ms", elapsed.Milliseconds())
		return nil, err
	}

	slog.InfoContext(ctx, "gap analysis completed",
		"observations_length", len(observations),
		"covered", len(analysis.CoveredDomains),
		"missing", len(analysis.MissingDomains),
		"duration_ms", elapsed.Milliseconds())

	return &AnalysisResult{Analysis: *analysis, ProcessingTime: elapsed}, nil
}
