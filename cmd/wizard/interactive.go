package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/wizard"
)

// errQuit ends an interactive run without error.
var errQuit = errors.New("quit")

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// block reads lines until one containing only a dot.
func (p *prompter) block(prompt string) (string, error) {
	fmt.Fprintln(p.out, prompt+" (end with a line containing only \".\")")
	var lines []string
	for p.in.Scan() {
		l := p.in.Text()
		if strings.TrimSpace(l) == "." {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, l)
	}
	if err := p.in.Err(); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errQuit
	}
	return strings.Join(lines, "\n"), nil
}

func runInteractive(ctx context.Context, m *wizard.Machine, in io.Reader, w io.Writer, outDir string) error {
	p := &prompter{in: bufio.NewScanner(in), out: w}
	m.Observe(stagePrinter(w))

	for {
		err := step(ctx, m, p, outDir)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		case failed(m.Stage()):
			// the failure is shown on the next step
		case recoverable(err):
			fmt.Fprintf(w, "! %v\n", err)
		default:
			return err
		}
	}
}

func recoverable(err error) bool {
	var verr *model.ValidationError
	var uerr *model.UnknownDomainError
	return errors.Is(err, wizard.ErrInvalidTransition) || errors.As(err, &verr) || errors.As(err, &uerr)
}

func failed(s wizard.Stage) bool {
	switch s.(type) {
	case wizard.AnalysisFailed, wizard.GenerationFailed:
		return true
	}
	return false
}

func step(ctx context.Context, m *wizard.Machine, p *prompter, outDir string) error {
	switch s := m.Stage().(type) {
	case wizard.Input:
		text, err := p.block("Describe what you observed during the session")
		if err != nil {
			return err
		}
		if err := m.SetObservations(text); err != nil {
			return err
		}
		return m.Analyze(ctx)

	case wizard.AnalysisFailed:
		fmt.Fprintf(p.out, "Analysis failed: %s\n", s.Reason)
		choice, err := p.line("[r]etry, [e]dit observations, [q]uit: ")
		if err != nil {
			return err
		}
		switch choice {
		case "r":
			return m.Retry(ctx)
		case "e":
			return m.SetObservations(m.Snapshot().InitialObservations)
		case "q":
			return errQuit
		}
		return nil

	case wizard.Analysis:
		analysis := m.Snapshot().Analysis
		printAnalysis(p.out, analysis)
		for _, d := range analysis.MissingDomains {
			prompt := fmt.Sprintf("Additional %s observations (blank to skip)", d.Info().Name)
			if prev := m.Snapshot().Supplemental[d]; strings.TrimSpace(prev) != "" {
				prompt = fmt.Sprintf("Additional %s observations (blank keeps %q)", d.Info().Name, prev)
			}
			text, err := p.block(prompt)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := m.SetSupplemental(d, text); err != nil {
				return err
			}
		}
		choice, err := p.line("[c]ontinue to review, [b]ack: ")
		if err != nil {
			return err
		}
		if choice == "b" {
			return m.Back()
		}
		return m.ContinueToReview()

	case wizard.Review:
		printObservations(p.out, m.Snapshot().Observations)
		choice, err := p.line("[g]enerate, [e]dit a domain, [b]ack: ")
		if err != nil {
			return err
		}
		switch choice {
		case "g":
			return m.Generate(ctx)
		case "b":
			return m.Back()
		case "e":
			key, err := p.line("domain key: ")
			if err != nil {
				return err
			}
			d, err := model.ParseDomain(key)
			if err != nil {
				return err
			}
			text, err := p.block("New " + d.Info().Name + " observations")
			if err != nil {
				return err
			}
			return m.ReviseObservation(d, text)
		}
		return nil

	case wizard.GenerationFailed:
		fmt.Fprintf(p.out, "Generation failed: %s\n", s.Reason)
		choice, err := p.line("[r]etry, [q]uit: ")
		if err != nil {
			return err
		}
		if choice == "r" {
			return m.Retry(ctx)
		}
		return errQuit

	case wizard.Export:
		fmt.Fprintf(p.out, "\n%s\n\n", m.Note())
		choice, err := p.line("[s]ave, [e]dit, [b]ack, [n]ew assessment, [q]uit: ")
		if err != nil {
			return err
		}
		switch choice {
		case "s":
			path, err := m.Export(outDir)
			if err != nil {
				fmt.Fprintf(p.out, "! %v\n", err)
				return nil
			}
			fmt.Fprintf(p.out, "saved %s\n", path)
		case "e":
			text, err := p.block("Edited case note")
			if err != nil {
				return err
			}
			return m.EditNote(text)
		case "b":
			return m.Back()
		case "n":
			return m.StartNew()
		case "q":
			return errQuit
		}
		return nil
	}
	return nil
}

func stagePrinter(w io.Writer) func(wizard.Stage) {
	return func(s wizard.Stage) {
		switch s.(type) {
		case wizard.Analyzing:
			fmt.Fprintln(w, "Analyzing observations...")
		case wizard.Generating:
			fmt.Fprintln(w, "Generating case note...")
		case wizard.GenerationSucceeded:
			fmt.Fprintln(w, "Case note generated.")
		default:
			fmt.Fprintf(w, "-- step %d of 5 (%s)\n", s.Number(), s.Name())
		}
	}
}

func printAnalysis(w io.Writer, a *model.GapAnalysis) {
	if a == nil {
		return
	}
	for _, d := range a.CoveredDomains {
		fmt.Fprintf(w, "  covered: %s\n", d.Info().Name)
	}
	for _, d := range a.MissingDomains {
		fmt.Fprintf(w, "  missing: %s\n", d.Info().Name)
		for _, prompt := range a.PromptsFor(d) {
			fmt.Fprintf(w, "    - %s\n", prompt)
		}
	}
}

func printObservations(w io.Writer, obs model.DomainObservations) {
	for _, d := range model.AllDomains() {
		text := obs[d]
		if strings.TrimSpace(text) == "" {
			text = "(none)"
		}
		fmt.Fprintf(w, "[%s] %s\n", d, text)
	}
}
