package wizard_test

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"assessmate.app/casenote/internal/client"
	"assessmate.app/casenote/internal/http/dto"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/wizard"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const walked = "Child walked across room."

var _ = Describe("Machine", func() {
	var (
		ctx      context.Context
		api      *fakeAPI
		session  *wizard.Session
		m        *wizard.Machine
		stages   []wizard.Stage
		sleeps   []time.Duration
		exported map[string]string
	)

	meta := model.CaseNoteMetadata{ChildID: "C-001", SessionDate: "2024-03-01"}

	BeforeEach(func() {
		ctx = context.Background()
		api = &fakeAPI{}
		stages = nil
		sleeps = nil
		exported = map[string]string{}
		session = wizard.NewSession("1", meta)
		m = wizard.New(api, session,
			wizard.WithCompletionDelay(250*time.Millisecond),
			wizard.WithSleep(func(_ context.Context, d time.Duration) { sleeps = append(sleeps, d) }),
			wizard.WithExporter(func(text, path string) error {
				exported[path] = text
				return nil
			}),
		)
		m.Observe(func(s wizard.Stage) { stages = append(stages, s) })
	})

	toReview := func() {
		Expect(m.SetObservations(walked)).To(Succeed())
		Expect(m.Analyze(ctx)).To(Succeed())
		Expect(m.ContinueToReview()).To(Succeed())
	}

	countExport := func() int {
		n := 0
		for _, s := range stages {
			if _, ok := s.(wizard.Export); ok {
				n++
			}
		}
		return n
	}

	It("starts at input with default metadata", func() {
		Expect(m.Stage()).To(Equal(wizard.Input{}))
		Expect(m.Stage().Number()).To(Equal(1))
		Expect(m.Snapshot().Metadata).To(Equal(meta))
	})

	Describe("Analyze", func() {
		It("rejects text of twenty characters or fewer without calling the service", func() {
			Expect(m.SetObservations("   Child ran today.   ")).To(Succeed())

			err := m.Analyze(ctx)

			var verr *model.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(api.analyzeCalls).To(Equal(0))
			Expect(m.Stage()).To(Equal(wizard.Input{}))
		})

		It("moves to analysis and seeds covered domains with the raw text", func() {
			Expect(m.SetObservations(walked)).To(Succeed())

			Expect(m.Analyze(ctx)).To(Succeed())

			snap := m.Snapshot()
			Expect(snap.Stage).To(Equal(wizard.Analysis{}))
			Expect(snap.Analysis.MissingDomains).To(HaveLen(4))
			Expect(snap.Observations).To(Equal(model.DomainObservations{model.GrossMotor: walked}))
			Expect(stages).To(Equal([]wizard.Stage{wizard.Analyzing{}, wizard.Analysis{}}))
		})

		It("shows the analyzing stage while the request is in flight", func() {
			var during wizard.Stage
			api.analyzeFn = func(context.Context, string) (*dto.AnalyzeObservationsResponse, error) {
				during = m.Stage()
				return nil, errors.New("boom")
			}
			Expect(m.SetObservations(walked)).To(Succeed())

			Expect(m.Analyze(ctx)).To(HaveOccurred())

			Expect(during).To(Equal(wizard.Analyzing{}))
			Expect(during.Number()).To(Equal(1))
			Expect(stages).To(Equal([]wizard.Stage{
				wizard.Analyzing{}, wizard.AnalysisFailed{Reason: "boom"},
			}))
		})

		It("refuses a second analysis while one is in flight", func() {
			var second error
			api.analyzeFn = func(ctx context.Context, _ string) (*dto.AnalyzeObservationsResponse, error) {
				second = m.Analyze(ctx)
				return nil, errors.New("boom")
			}
			Expect(m.SetObservations(walked)).To(Succeed())

			Expect(m.Analyze(ctx)).To(HaveOccurred())

			Expect(second).To(MatchError(wizard.ErrBusy))
			Expect(api.analyzeCalls).To(Equal(1))
		})

		It("stays at stage one with the failure reason", func() {
			api.analyzeFn = func(context.Context, string) (*dto.AnalyzeObservationsResponse, error) {
				return nil, &client.APIError{StatusCode: 500, Message: "Failed to analyze observations: rate limited"}
			}
			Expect(m.SetObservations(walked)).To(Succeed())

			Expect(m.Analyze(ctx)).To(HaveOccurred())

			Expect(m.Stage()).To(Equal(wizard.AnalysisFailed{Reason: "Failed to analyze observations: rate limited"}))
			Expect(m.Stage().Number()).To(Equal(1))
		})

		It("retries the analysis with the same text", func() {
			var texts []string
			fail := true
			api.analyzeFn = func(_ context.Context, text string) (*dto.AnalyzeObservationsResponse, error) {
				texts = append(texts, text)
				if fail {
					fail = false
					return nil, errors.New("boom")
				}
				return &dto.AnalyzeObservationsResponse{Analysis: model.GapAnalysis{
					CoveredDomains:   model.AllDomains(),
					MissingDomains:   []model.DevelopmentalDomain{},
					SuggestedPrompts: []model.SuggestedPrompt{},
				}}, nil
			}
			Expect(m.SetObservations(walked)).To(Succeed())
			Expect(m.Analyze(ctx)).To(HaveOccurred())

			Expect(m.Retry(ctx)).To(Succeed())

			Expect(texts).To(Equal([]string{walked, walked}))
			Expect(m.Stage()).To(Equal(wizard.Analysis{}))
		})

		It("clears a failure when the text is edited", func() {
			api.analyzeFn = func(context.Context, string) (*dto.AnalyzeObservationsResponse, error) {
				return nil, errors.New("boom")
			}
			Expect(m.SetObservations(walked)).To(Succeed())
			Expect(m.Analyze(ctx)).To(HaveOccurred())

			Expect(m.SetObservations(walked + " Then sat.")).To(Succeed())
			Expect(m.Stage()).To(Equal(wizard.Input{}))
		})
	})

	Describe("ContinueToReview", func() {
		BeforeEach(func() {
			Expect(m.SetObservations(walked)).To(Succeed())
			Expect(m.Analyze(ctx)).To(Succeed())
		})

		It("merges non-blank supplemental text only", func() {
			Expect(m.SetSupplemental(model.FineMotor, "Stacked four blocks.")).To(Succeed())
			Expect(m.SetSupplemental(model.Cognitive, "   ")).To(Succeed())
			Expect(m.SetSupplemental(model.GrossMotor, "")).To(Succeed())

			Expect(m.ContinueToReview()).To(Succeed())

			Expect(m.Snapshot().Observations).To(Equal(model.DomainObservations{
				model.GrossMotor: walked,
				model.FineMotor:  "Stacked four blocks.",
			}))
			Expect(m.Stage()).To(Equal(wizard.Review{}))
		})

		It("keeps supplemental text across a re-analysis", func() {
			Expect(m.SetSupplemental(model.FineMotor, "Stacked four blocks.")).To(Succeed())
			Expect(m.ContinueToReview()).To(Succeed())
			Expect(m.Back()).To(Succeed())
			Expect(m.Back()).To(Succeed())

			Expect(m.SetObservations(walked + " Then ran quickly.")).To(Succeed())
			Expect(m.Analyze(ctx)).To(Succeed())
			Expect(m.ContinueToReview()).To(Succeed())

			Expect(m.Snapshot().Observations).To(Equal(model.DomainObservations{
				model.GrossMotor: walked + " Then ran quickly.",
				model.FineMotor:  "Stacked four blocks.",
			}))
		})

		It("rejects unknown domains", func() {
			err := m.SetSupplemental(model.DevelopmentalDomain("music"), "x")
			var uerr *model.UnknownDomainError
			Expect(errors.As(err, &uerr)).To(BeTrue())
		})
	})

	Describe("Generate", func() {
		It("runs the walked-across-room scenario end to end", func() {
			toReview()

			Expect(m.Generate(ctx)).To(Succeed())

			Expect(api.generated).To(Equal([]model.DomainObservations{{model.GrossMotor: walked}}))
			Expect(api.metadata).To(Equal([]model.CaseNoteMetadata{meta}))
			Expect(stages).To(Equal([]wizard.Stage{
				wizard.Analyzing{}, wizard.Analysis{}, wizard.Review{},
				wizard.Generating{}, wizard.GenerationSucceeded{}, wizard.Export{},
			}))
			Expect(sleeps).To(Equal([]time.Duration{250 * time.Millisecond}))
			Expect(m.Note()).To(ContainSubstring("Child ID: C-001"))
		})

		It("shows the loading stage while the request is in flight", func() {
			toReview()
			var during wizard.Stage
			api.generateFn = func(_ context.Context, obs model.DomainObservations, md model.CaseNoteMetadata) (*dto.GenerateCaseNoteResponse, error) {
				during = m.Stage()
				return &dto.GenerateCaseNoteResponse{CaseNote: model.CaseNote{CaseNoteMetadata: md, Summary: "note"}}, nil
			}

			Expect(m.Generate(ctx)).To(Succeed())
			Expect(during).To(Equal(wizard.Generating{}))
		})

		It("sends revised observations", func() {
			toReview()
			Expect(m.ReviseObservation(model.GrossMotor, "Walked with support.")).To(Succeed())

			Expect(m.Generate(ctx)).To(Succeed())
			Expect(api.generated[0]).To(HaveKeyWithValue(model.GrossMotor, "Walked with support."))
		})

		It("replays identical data on retry and reaches export once", func() {
			toReview()
			Expect(m.SetSupplemental(model.FineMotor, "x")).To(MatchError(wizard.ErrInvalidTransition))
			fail := true
			api.generateFn = func(_ context.Context, obs model.DomainObservations, md model.CaseNoteMetadata) (*dto.GenerateCaseNoteResponse, error) {
				if fail {
					fail = false
					return nil, &client.APIError{StatusCode: 500, Message: "Failed to generate case note"}
				}
				return &dto.GenerateCaseNoteResponse{CaseNote: model.CaseNote{CaseNoteMetadata: md, Summary: "note"}}, nil
			}

			Expect(m.Generate(ctx)).To(HaveOccurred())
			Expect(m.Stage()).To(Equal(wizard.GenerationFailed{Reason: "Failed to generate case note"}))

			Expect(m.Retry(ctx)).To(Succeed())

			Expect(api.generateCalls).To(Equal(2))
			Expect(api.generated[1]).To(Equal(api.generated[0]))
			Expect(api.metadata[1]).To(Equal(api.metadata[0]))
			Expect(countExport()).To(Equal(1))
			Expect(m.Stage()).To(Equal(wizard.Export{}))
		})

		It("is not allowed before review", func() {
			Expect(m.Generate(ctx)).To(MatchError(wizard.ErrInvalidTransition))
			Expect(api.generateCalls).To(Equal(0))
		})
	})

	Describe("Back", func() {
		It("walks back through review and analysis keeping state", func() {
			toReview()
			Expect(m.Back()).To(Succeed())
			Expect(m.Stage()).To(Equal(wizard.Analysis{}))
			Expect(m.Back()).To(Succeed())
			Expect(m.Stage()).To(Equal(wizard.Input{}))
			Expect(m.Snapshot().InitialObservations).To(Equal(walked))
		})

		It("returns from export to review keeping the note", func() {
			toReview()
			Expect(m.Generate(ctx)).To(Succeed())

			Expect(m.Back()).To(Succeed())

			Expect(m.Stage()).To(Equal(wizard.Review{}))
			Expect(m.Snapshot().CaseNote).NotTo(BeNil())
		})

		It("is not allowed from input", func() {
			Expect(m.Back()).To(MatchError(wizard.ErrInvalidTransition))
		})
	})

	Describe("Export", func() {
		BeforeEach(func() {
			toReview()
			Expect(m.Generate(ctx)).To(Succeed())
		})

		It("writes the edited note under the derived filename", func() {
			Expect(m.EditNote("Edited note")).To(Succeed())

			path, err := m.Export("out")

			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join("out", "case-note-C-001-2024-03-01.docx")))
			Expect(exported).To(HaveKeyWithValue(path, "Edited note"))
		})

		It("wraps exporter failures", func() {
			m = wizard.New(api, session, wizard.WithExporter(func(string, string) error { return errors.New("disk full") }))

			_, err := m.Export("out")
			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})

		It("starts a new assessment from defaults", func() {
			Expect(m.StartNew()).To(Succeed())

			snap := m.Snapshot()
			Expect(snap.Stage).To(Equal(wizard.Input{}))
			Expect(snap.ID).To(Equal("1"))
			Expect(snap.InitialObservations).To(BeEmpty())
			Expect(snap.Observations).To(BeEmpty())
			Expect(snap.CaseNote).To(BeNil())
			Expect(snap.Metadata).To(Equal(meta))
		})
	})

	It("rejects note edits outside export", func() {
		Expect(m.EditNote("x")).To(MatchError(wizard.ErrInvalidTransition))
		_, err := m.Export("out")
		Expect(err).To(MatchError(wizard.ErrInvalidTransition))
		Expect(m.StartNew()).To(MatchError(wizard.ErrInvalidTransition))
		Expect(m.Retry(ctx)).To(MatchError(wizard.ErrInvalidTransition))
	})
})
