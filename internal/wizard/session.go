package wizard

import (
	"time"

	"assessmate.app/casenote/internal/model"
)

// DefaultChildID is the placeholder child id of a new session.
const DefaultChildID = "Child A"

// DefaultMetadata returns the metadata a new session starts with.
func DefaultMetadata(now time.Time) model.CaseNoteMetadata {
	return model.CaseNoteMetadata{
		ChildID:     DefaultChildID,
		SessionDate: now.Format(model.DateLayout),
	}
}

// Session is the whole state of one wizard run. It lives in process memory
// only.
type Session struct {
	ID                  string
	Stage               Stage
	InitialObservations string
	Analysis            *model.GapAnalysis
	Supplemental        model.DomainObservations
	Observations        model.DomainObservations
	Metadata            model.CaseNoteMetadata
	CaseNote            *model.CaseNote
	NoteText            string

	defaults model.CaseNoteMetadata
}

func NewSession(id string, metadata model.CaseNoteMetadata) *Session {
	s := &Session{ID: id, defaults: metadata}
	s.Reset()
	return s
}

// Reset returns the session to stage 1 with default metadata. The id is kept.
func (s *Session) Reset() {
	*s = Session{
		ID:           s.ID,
		Stage:        Input{},
		Supplemental: model.DomainObservations{},
		Observations: model.DomainObservations{},
		Metadata:     s.defaults,
		defaults:     s.defaults,
	}
}

func (s *Session) clone() Session {
	out := *s
	out.Supplemental = s.Supplemental.Clone()
	out.Observations = s.Observations.Clone()
	if s.Analysis != nil {
		a := *s.Analysis
		out.Analysis = &a
	}
	if s.CaseNote != nil {
		n := *s.CaseNote
		n.Domains = s.CaseNote.Domains.Clone()
		out.CaseNote = &n
	}
	return out
}
