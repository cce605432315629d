package dto

import (
	"time"

	"assessmate.app/casenote/internal/model"
)

// SessionHeader carries the wizard session id for log correlation.
const SessionHeader = "X-Wizard-Session"

type AnalyzeObservationsRequest struct {
	Observations string `json:"observations" binding:"max=50000"`
}

type AnalyzeObservationsResponse struct {
	Analysis       model.GapAnalysis `json:"analysis"`
	ProcessingTime float64           `json:"processingTime"` // seconds
}

func ToAnalyzeObservationsResponse(analysis model.GapAnalysis, elapsed time.Duration) *AnalyzeObservationsResponse {
	return &AnalyzeObservationsResponse{
		Analysis:       analysis,
		ProcessingTime: elapsed.Seconds(),
	}
}

type GenerateCaseNoteRequest struct {
	Observations model.DomainObservations `json:"observations"`
	Metadata     model.CaseNoteMetadata   `json:"metadata"`
}

type GenerateCaseNoteResponse struct {
	CaseNote       model.CaseNote `json:"caseNote"`
	ProcessingTime float64        `json:"processingTime"` // seconds
}

func ToGenerateCaseNoteResponse(note model.CaseNote, elapsed time.Duration) *GenerateCaseNoteResponse {
	return &GenerateCaseNoteResponse{
		CaseNote:       note,
		ProcessingTime: elapsed.Seconds(),
	}
}

type HealthResponse struct {
	Status        string    `json:"status"`
	LLMConfigured bool      `json:"llmConfigured"`
	Timestamp     time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
