package model

import "time"

const (
	OperationAnalyze  = "analyze_observations"
	OperationGenerate = "generate_case_note"
)

const (
	UsageStatusOK         = "ok"
	UsageStatusValidation = "validation_error"
	UsageStatusUpstream   = "upstream_error"
)

// LLMUsage records one completion call. It carries call metadata only, never
// observation or narrative text.
type LLMUsage struct {
	ID         int64
	Operation  string
	Provider   string
	Model      string
	Status     string
	DurationMs int64
	CreatedAt  time.Time
}
