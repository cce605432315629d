package model

import (
	"strings"
	"time"
)

// DateLayout is the wire format of CaseNoteMetadata.SessionDate.
const DateLayout = "2006-01-02"

type CaseNoteMetadata struct {
	ChildID         string `json:"childId"`
	SessionDate     string `json:"sessionDate"`
	SessionDuration string `json:"sessionDuration,omitempty"`
	AssessorName    string `json:"assessorName,omitempty"`
}

// Validate requires childId and sessionDate, and a parseable date.
func (m CaseNoteMetadata) Validate() error {
	var missing []string
	if strings.TrimSpace(m.ChildID) == "" {
		missing = append(missing, "childId")
	}
	if strings.TrimSpace(m.SessionDate) == "" {
		missing = append(missing, "sessionDate")
	}
	if len(missing) > 0 {
		return &MissingMetadataError{Fields: missing}
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(m.SessionDate)); err != nil {
		return NewValidationError("sessionDate must be a calendar date (YYYY-MM-DD)", "sessionDate")
	}
	return nil
}

// CaseNote is the generated note. Metadata fields are flattened into the
// top-level JSON object.
type CaseNote struct {
	CaseNoteMetadata
	Domains         DomainObservations `json:"domains"`
	Summary         string             `json:"summary"`
	Recommendations string             `json:"recommendations"`
}
