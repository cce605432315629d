package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"assessmate.app/casenote/common/id"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/store"
)

// CallLabels identify the provider and model behind one call site.
type CallLabels struct {
	Provider string
	Model    string
}

type usageRecorder struct {
	store  store.LLMUsageStore
	labels CallLabels
}

// record writes a ledger row. Failures are logged and never surface to the caller.
func (r usageRecorder) record(ctx context.Context, operation string, elapsed time.Duration, callErr error) {
	if r.store == nil {
		return
	}

	usage := &model.LLMUsage{
		ID:         id.New(),
		Operation:  operation,
		Provider:   r.labels.Provider,
		Model:      r.labels.Model,
		Status:     usageStatus(callErr),
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.store.Create(ctx, usage); err != nil {
		slog.WarnContext(ctx, "failed to record llm usage",
			"error", err,
			"operation", operation)
	}
}

func usageStatus(err error) string {
	var ve *model.ValidationError
	switch {
	case err == nil:
		return model.UsageStatusOK
	case errors.As(err, &ve):
		return model.UsageStatusValidation
	default:
		return model.UsageStatusUpstream
	}
}
