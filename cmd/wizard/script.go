package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/wizard"
)

// Script replays a whole wizard run without prompting. Domain maps are keyed
// by domain key, e.g. fine_motor.
type Script struct {
	Server       string            `yaml:"server"`
	Out          string            `yaml:"out"`
	Metadata     ScriptMetadata    `yaml:"metadata"`
	Observations string            `yaml:"observations"`
	Supplemental map[string]string `yaml:"supplemental"`
	Revisions    map[string]string `yaml:"revisions"`
}

type ScriptMetadata struct {
	ChildID         string `yaml:"childId"`
	SessionDate     string `yaml:"sessionDate"`
	SessionDuration string `yaml:"sessionDuration"`
	AssessorName    string `yaml:"assessorName"`
}

func loadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	var s Script
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return &s, nil
}

func (s *Script) validate() error {
	for _, m := range []map[string]string{s.Supplemental, s.Revisions} {
		for key := range m {
			if _, err := model.ParseDomain(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyMetadata overlays non-empty script fields on base.
func (s *Script) applyMetadata(base model.CaseNoteMetadata) model.CaseNoteMetadata {
	if s.Metadata.ChildID != "" {
		base.ChildID = s.Metadata.ChildID
	}
	if s.Metadata.SessionDate != "" {
		base.SessionDate = s.Metadata.SessionDate
	}
	if s.Metadata.SessionDuration != "" {
		base.SessionDuration = s.Metadata.SessionDuration
	}
	if s.Metadata.AssessorName != "" {
		base.AssessorName = s.Metadata.AssessorName
	}
	return base
}

func runScript(ctx context.Context, m *wizard.Machine, s *Script, outDir string, w io.Writer) error {
	m.Observe(stagePrinter(w))

	if err := m.SetObservations(s.Observations); err != nil {
		return err
	}
	if err := m.Analyze(ctx); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	printAnalysis(w, m.Snapshot().Analysis)

	for key, text := range s.Supplemental {
		d, _ := model.ParseDomain(key)
		if err := m.SetSupplemental(d, text); err != nil {
			return err
		}
	}
	if err := m.ContinueToReview(); err != nil {
		return err
	}
	for key, text := range s.Revisions {
		d, _ := model.ParseDomain(key)
		if err := m.ReviseObservation(d, text); err != nil {
			return err
		}
	}

	if err := m.Generate(ctx); err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	path, err := m.Export(outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "saved %s\n", path)
	return nil
}
