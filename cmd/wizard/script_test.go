package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"assessmate.app/casenote/internal/http/dto"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/wizard"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeAPI struct {
	generated model.DomainObservations
	metadata  model.CaseNoteMetadata
}

func (f *fakeAPI) AnalyzeObservations(_ context.Context, observations string) (*dto.AnalyzeObservationsResponse, error) {
	return &dto.AnalyzeObservationsResponse{Analysis: model.GapAnalysis{
		CoveredDomains:   []model.DevelopmentalDomain{model.GrossMotor},
		MissingDomains:   []model.DevelopmentalDomain{model.FineMotor},
		SuggestedPrompts: []model.SuggestedPrompt{{Domain: model.FineMotor, Prompt: "Did the child stack blocks?"}},
	}}, nil
}

func (f *fakeAPI) GenerateCaseNote(_ context.Context, observations model.DomainObservations, metadata model.CaseNoteMetadata) (*dto.GenerateCaseNoteResponse, error) {
	f.generated = observations
	f.metadata = metadata
	return &dto.GenerateCaseNoteResponse{CaseNote: model.CaseNote{
		CaseNoteMetadata: metadata,
		Summary:          "**CHILD INFORMATION**\n\nChild ID: " + metadata.ChildID,
	}}, nil
}

func writeScript(body string) string {
	path := filepath.Join(GinkgoT().TempDir(), "run.yaml")
	Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Script", func() {
	It("loads metadata and domain maps", func() {
		path := writeScript(`
server: http://example.test
metadata:
  childId: C-9
  sessionDate: "2024-05-02"
observations: Child walked across room.
supplemental:
  fine_motor: Stacked four blocks.
`)

		s, err := loadScript(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Server).To(Equal("http://example.test"))
		Expect(s.Supplemental).To(HaveKeyWithValue("fine_motor", "Stacked four blocks."))

		meta := s.applyMetadata(model.CaseNoteMetadata{ChildID: "Child A", SessionDate: "2024-01-01", AssessorName: "Ms Tan"})
		Expect(meta).To(Equal(model.CaseNoteMetadata{ChildID: "C-9", SessionDate: "2024-05-02", AssessorName: "Ms Tan"}))
	})

	It("rejects unknown fields", func() {
		_, err := loadScript(writeScript("observation: typo\n"))
		Expect(err).To(MatchError(ContainSubstring("observation")))
	})

	It("rejects unknown domain keys", func() {
		_, err := loadScript(writeScript("revisions:\n  music: sang\n"))
		Expect(err).To(MatchError(ContainSubstring("music")))
	})

	It("replays a run through to export", func() {
		api := &fakeAPI{}
		var savedText, savedPath string
		meta := model.CaseNoteMetadata{ChildID: "C-9", SessionDate: "2024-05-02"}
		m := wizard.New(api, wizard.NewSession("1", meta),
			wizard.WithCompletionDelay(time.Millisecond),
			wizard.WithExporter(func(text, path string) error {
				savedText, savedPath = text, path
				return nil
			}),
		)
		var out bytes.Buffer

		err := runScript(context.Background(), m, &Script{
			Observations: "Child walked across room.",
			Supplemental: map[string]string{"fine_motor": "Stacked four blocks."},
			Revisions:    map[string]string{"gross_motor": "Walked with support."},
		}, "notes", &out)

		Expect(err).NotTo(HaveOccurred())
		Expect(api.generated).To(Equal(model.DomainObservations{
			model.GrossMotor: "Walked with support.",
			model.FineMotor:  "Stacked four blocks.",
		}))
		Expect(savedPath).To(Equal(filepath.Join("notes", "case-note-C-9-2024-05-02.docx")))
		Expect(savedText).To(ContainSubstring("Child ID: C-9"))
		Expect(out.String()).To(ContainSubstring("missing: Fine Motor"))
		Expect(out.String()).To(ContainSubstring("Analyzing observations..."))
		Expect(out.String()).To(ContainSubstring("Generating case note..."))
	})
})

var _ = Describe("Interactive run", func() {
	It("drives the wizard from typed input", func() {
		api := &fakeAPI{}
		var saved string
		m := wizard.New(api, wizard.NewSession("1", model.CaseNoteMetadata{ChildID: "C-1", SessionDate: "2024-05-02"}),
			wizard.WithCompletionDelay(time.Millisecond),
			wizard.WithExporter(func(_, path string) error {
				saved = path
				return nil
			}),
		)
		in := strings.Join([]string{
			"Too short.", ".",
			"Child walked across room.", ".",
			"Stacked blocks.", ".",
			"c",
			"g",
			"s",
			"q",
		}, "\n") + "\n"
		var out bytes.Buffer

		Expect(runInteractive(context.Background(), m, strings.NewReader(in), &out, "notes")).To(Succeed())

		Expect(out.String()).To(ContainSubstring("must be longer than 20 characters"))
		Expect(api.generated).To(HaveKeyWithValue(model.FineMotor, "Stacked blocks."))
		Expect(saved).To(Equal(filepath.Join("notes", "case-note-C-1-2024-05-02.docx")))
	})
})
