package wizard

// Stage is the wizard's position. Failure reasons live on the failed
// variants, so a stage and its error can never disagree.
type Stage interface {
	Number() int
	Name() string
	stage()
}

// Input is stage 1: free-text observation entry.
type Input struct{}

// AnalysisFailed is stage 1 after a failed gap analysis.
type AnalysisFailed struct {
	Reason string
}

// Analyzing is stage 1 while the gap-analysis request is in flight.
type Analyzing struct{}

// Analysis is stage 2: gap display and supplemental entry.
type Analysis struct{}

// Review is stage 3: per-domain review of the merged observations.
type Review struct{}

// Generating is stage 4 while the narrative request is in flight.
type Generating struct{}

// GenerationFailed is stage 4 after a failed generation.
type GenerationFailed struct {
	Reason string
}

// GenerationSucceeded is stage 4 during the completion display delay.
type GenerationSucceeded struct{}

// Export is stage 5: edit, copy and export.
type Export struct{}

func (Input) Number() int               { return 1 }
func (AnalysisFailed) Number() int      { return 1 }
func (Analyzing) Number() int           { return 1 }
func (Analysis) Number() int            { return 2 }
func (Review) Number() int              { return 3 }
func (Generating) Number() int          { return 4 }
func (GenerationFailed) Number() int    { return 4 }
func (GenerationSucceeded) Number() int { return 4 }
func (Export) Number() int              { return 5 }

func (Input) Name() string               { return "input" }
func (AnalysisFailed) Name() string      { return "analysis_failed" }
func (Analyzing) Name() string           { return "analyzing" }
func (Analysis) Name() string            { return "analysis" }
func (Review) Name() string              { return "review" }
func (Generating) Name() string          { return "generating" }
func (GenerationFailed) Name() string    { return "generation_failed" }
func (GenerationSucceeded) Name() string { return "generation_succeeded" }
func (Export) Name() string              { return "export" }

func (Input) stage()               {}
func (AnalysisFailed) stage()      {}
func (Analyzing) stage()           {}
func (Analysis) stage()            {}
func (Review) stage()              {}
func (Generating) stage()          {}
func (GenerationFailed) stage()    {}
func (GenerationSucceeded) stage() {}
func (Export) stage()              {}
