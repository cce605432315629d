package service

import (
	"context"
	"log/slog"
	"time"

	"assessmate.app/casenote/common/logger"
	"assessmate.app/casenote/internal/llm"
	"assessmate.app/casenote/internal/markup"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/store"
)

type GenerateResult struct {
	CaseNote       model.CaseNote
	ProcessingTime time.Duration
}

type CaseNoteService interface {
	Generate(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (*GenerateResult, error)
}

type caseNoteService struct {
	gateway llm.Gateway
	usage   usageRecorder
}

func NewCaseNoteService(gateway llm.Gateway, usageStore store.LLMUsageStore, labels CallLabels) CaseNoteService {
	return &caseNoteService{
		gateway: gateway,
		usage:   usageRecorder{store: usageStore, labels: labels},
	}
}

func (s *caseNoteService) Generate(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (*GenerateResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Operation: logger.Ptr(model.OperationGenerate),
		Component: "casenote.service.casenote",
	})

	if !observations.HasContent() {
		return nil, model.NewValidationError("observations are required", "observations")
	}
	if err := metadata.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	narrative, err := s.gateway.RequestCaseNoteNarrative(ctx, observations, metadata)
	elapsed := time.Since(start)
	s.usage.record(ctx, model.OperationGenerate, elapsed, err)

	if err != nil {
		slog.ErrorContext(ctx, "case note generation failed",
			"error", err,
			"duration_ms", elapsed.Milliseconds())
		return nil, err
	}

	note := model.CaseNote{
		CaseNoteMetadata: metadata,
		Domains:          observations.Complete(),
		Summary:          narrative,
		Recommendations:  markup.Parse(narrative).SectionBody("RECOMMENDATIONS"),
	}

	slog.InfoContext(ctx, "case note generated",
		"narrative_length", len(narrative),
		"has_recommendations", note.Recommendations != "",
		"duration_ms", elapsed.Milliseconds())

	return &GenerateResult{CaseNote: note, ProcessingTime: elapsed}, nil
}
