package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"assessmate.app/casenote/internal/client"
	"assessmate.app/casenote/internal/export"
	"assessmate.app/casenote/internal/http/dto"
	"assessmate.app/casenote/internal/model"
)

// MinObservationLength is the trimmed length stage-1 text must exceed.
const MinObservationLength = 20

const defaultCompletionDelay = time.Second

var (
	ErrInvalidTransition = errors.New("wizard: action not allowed at this stage")
	ErrBusy              = errors.New("wizard: a request is already in flight")
)

// API is the service boundary the wizard drives.
type API interface {
	AnalyzeObservations(ctx context.Context, observations string) (*dto.AnalyzeObservationsResponse, error)
	GenerateCaseNote(ctx context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (*dto.GenerateCaseNoteResponse, error)
}

// Exporter writes note text to a document at path.
type Exporter func(text, path string) error

// Machine drives one Session through the five stages. At most one request
// is in flight; the lock is released while it runs so observers and readers
// on other goroutines see the loading stage.
type Machine struct {
	mu        sync.Mutex
	session   *Session
	api       API
	exporter  Exporter
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration)
	observers []func(Stage)
	inFlight  bool
}

type Option func(*Machine)

// WithCompletionDelay sets how long the success state shows before stage 5.
func WithCompletionDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

// WithSleep replaces the delay implementation.
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(m *Machine) { m.sleep = fn }
}

func WithExporter(e Exporter) Option {
	return func(m *Machine) { m.exporter = e }
}

func New(api API, session *Session, opts ...Option) *Machine {
	m := &Machine{
		session:  session,
		api:      api,
		exporter: export.ToDocument,
		delay:    defaultCompletionDelay,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Observe registers fn to be called after every stage change.
func (m *Machine) Observe(fn func(Stage)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Stage
}

// Snapshot returns a deep copy of the session.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// SetObservations replaces the stage-1 text. After a failed analysis it
// clears the failure.
func (m *Machine) SetObservations(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.session.Stage.(type) {
	case Input, AnalysisFailed:
	default:
		return m.invalid("set observations")
	}
	m.session.InitialObservations = text
	if _, failed := m.session.Stage.(AnalysisFailed); failed {
		m.setStage(Input{})
	}
	return nil
}

// SetMetadata is allowed before generation starts.
func (m *Machine) SetMetadata(metadata model.CaseNoteMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Stage.Number() > 3 {
		return m.invalid("set metadata")
	}
	m.session.Metadata = metadata
	return nil
}

// Analyze moves 1→2 through Analyzing. On failure the session stays at
// stage 1 carrying the reason.
func (m *Machine) Analyze(ctx context.Context) error {
	m.mu.Lock()
	switch m.session.Stage.(type) {
	case Input, AnalysisFailed:
	case Analyzing:
		m.mu.Unlock()
		return ErrBusy
	default:
		defer m.mu.Unlock()
		return m.invalid("analyze")
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	text := m.session.InitialObservations
	if len(strings.TrimSpace(text)) <= MinObservationLength {
		m.mu.Unlock()
		return model.NewValidationError(
			fmt.Sprintf("observations must be longer than %d characters", MinObservationLength), "observations")
	}
	m.inFlight = true
	m.setStage(Analyzing{})
	m.unlockAndNotify()

	resp, err := m.api.AnalyzeObservations(ctx, text)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		slog.WarnContext(ctx, "gap analysis request failed", "error", err, "session_id", m.session.ID)
		m.setStage(AnalysisFailed{Reason: reason(err)})
		m.unlockAndNotify()
		return err
	}

	analysis := resp.Analysis
	m.session.Analysis = &analysis
	// Supplemental text survives re-analysis and is merged again at review.
	m.session.Observations = model.DomainObservations{}
	// The whole text is provisional content for every covered domain; the
	// assessor refines it per domain at review.
	for _, d := range analysis.CoveredDomains {
		m.session.Observations[d] = text
	}
	m.setStage(Analysis{})
	m.unlockAndNotify()
	return nil
}

// SetSupplemental records extra text for a domain at stage 2.
func (m *Machine) SetSupplemental(domain model.DevelopmentalDomain, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.session.Stage.(Analysis); !ok {
		return m.invalid("add supplemental observations")
	}
	if !domain.Valid() {
		return &model.UnknownDomainError{Key: string(domain)}
	}
	m.session.Supplemental[domain] = text
	return nil
}

// ContinueToReview moves 2→3, merging non-blank supplemental text.
func (m *Machine) ContinueToReview() error {
	m.mu.Lock()
	if _, ok := m.session.Stage.(Analysis); !ok {
		defer m.mu.Unlock()
		return m.invalid("continue to review")
	}
	m.session.Observations = m.session.Observations.Merge(m.session.Supplemental)
	m.setStage(Review{})
	m.unlockAndNotify()
	return nil
}

// ReviseObservation edits one domain's text at stage 3.
func (m *Machine) ReviseObservation(domain model.DevelopmentalDomain, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.session.Stage.(Review); !ok {
		return m.invalid("revise observations")
	}
	if !domain.Valid() {
		return &model.UnknownDomainError{Key: string(domain)}
	}
	m.session.Observations[domain] = text
	return nil
}

// Generate moves 3→4 and, on success, 4→5 after the completion delay.
func (m *Machine) Generate(ctx context.Context) error {
	m.mu.Lock()
	if _, ok := m.session.Stage.(Review); !ok {
		defer m.mu.Unlock()
		return m.invalid("generate")
	}
	return m.generateLocked(ctx)
}

// Retry repeats the failed request with the accumulated state unchanged.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	switch m.session.Stage.(type) {
	case AnalysisFailed:
		m.mu.Unlock()
		return m.Analyze(ctx)
	case GenerationFailed:
		return m.generateLocked(ctx)
	default:
		defer m.mu.Unlock()
		return m.invalid("retry")
	}
}

// generateLocked must be called with mu held; it releases it.
func (m *Machine) generateLocked(ctx context.Context) error {
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	m.inFlight = true
	observations := m.session.Observations.Clone()
	metadata := m.session.Metadata
	m.setStage(Generating{})
	m.unlockAndNotify()

	resp, err := m.api.GenerateCaseNote(ctx, observations, metadata)

	m.mu.Lock()
	if err != nil {
		m.inFlight = false
		slog.WarnContext(ctx, "case note request failed", "error", err, "session_id", m.session.ID)
		m.setStage(GenerationFailed{Reason: reason(err)})
		m.unlockAndNotify()
		return err
	}

	note := resp.CaseNote
	m.session.CaseNote = &note
	m.session.NoteText = note.Summary
	m.setStage(GenerationSucceeded{})
	m.unlockAndNotify()

	m.sleep(ctx, m.delay)

	m.mu.Lock()
	m.inFlight = false
	m.setStage(Export{})
	m.unlockAndNotify()
	return nil
}

// Back moves 2→1, 3→2 or 5→3. Accumulated state is kept.
func (m *Machine) Back() error {
	m.mu.Lock()
	var prev Stage
	switch m.session.Stage.(type) {
	case Analysis:
		prev = Input{}
	case Review:
		prev = Analysis{}
	case Export:
		prev = Review{}
	default:
		defer m.mu.Unlock()
		return m.invalid("go back")
	}
	m.setStage(prev)
	m.unlockAndNotify()
	return nil
}

// EditNote replaces the note text at stage 5.
func (m *Machine) EditNote(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.session.Stage.(Export); !ok {
		return m.invalid("edit note")
	}
	m.session.NoteText = text
	return nil
}

// Note returns the current, possibly edited, note text.
func (m *Machine) Note() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.NoteText
}

// Export writes the note to dir and returns the file path.
func (m *Machine) Export(dir string) (string, error) {
	m.mu.Lock()
	if _, ok := m.session.Stage.(Export); !ok {
		defer m.mu.Unlock()
		return "", m.invalid("export")
	}
	text := m.session.NoteText
	path := filepath.Join(dir, export.Filename(m.session.Metadata))
	m.mu.Unlock()

	if err := m.exporter(text, path); err != nil {
		return "", fmt.Errorf("exporting case note: %w", err)
	}
	return path, nil
}

// StartNew resets the session from stage 5.
func (m *Machine) StartNew() error {
	m.mu.Lock()
	if _, ok := m.session.Stage.(Export); !ok {
		defer m.mu.Unlock()
		return m.invalid("start new")
	}
	m.session.Reset()
	m.unlockAndNotify()
	return nil
}

func (m *Machine) setStage(s Stage) {
	m.session.Stage = s
}

// unlockAndNotify releases mu and calls observers with the current stage.
func (m *Machine) unlockAndNotify() {
	stage := m.session.Stage
	observers := append([]func(Stage){}, m.observers...)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(stage)
	}
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, m.session.Stage.Name())
}

func reason(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
