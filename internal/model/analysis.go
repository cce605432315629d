package model

import (
	"fmt"
	"slices"
	"strings"
)

type SuggestedPrompt struct {
	Domain DevelopmentalDomain `json:"domain"`
	Prompt string              `json:"prompt"`
}

// GapAnalysis partitions the five domains into covered and missing, with
// follow-up prompts for the missing ones.
type GapAnalysis struct {
	CoveredDomains   []DevelopmentalDomain `json:"coveredDomains"`
	MissingDomains   []DevelopmentalDomain `json:"missingDomains"`
	SuggestedPrompts []SuggestedPrompt     `json:"suggestedPrompts"`
}

// Normalize enforces the partition invariant in place: covered and missing
// are disjoint, together hold all five domains, and every missing domain has
// at least one prompt. Duplicates are removed, lists are put in canonical
// order, and blank prompts or prompts for covered domains are dropped.
func (a *GapAnalysis) Normalize() error {
	covered := dedupe(a.CoveredDomains)
	missing := dedupe(a.MissingDomains)

	for _, d := range covered {
		if !d.Valid() {
			return &UnknownDomainError{Key: string(d)}
		}
		if slices.Contains(missing, d) {
			return fmt.Errorf("domain %s is both covered and missing", d)
		}
	}
	for _, d := range missing {
		if !d.Valid() {
			return &UnknownDomainError{Key: string(d)}
		}
	}
	for _, d := range domainOrder {
		if !slices.Contains(covered, d) && !slices.Contains(missing, d) {
			return fmt.Errorf("domain %s is neither covered nor missing", d)
		}
	}

	prompts := make([]SuggestedPrompt, 0, len(a.SuggestedPrompts))
	for _, p := range a.SuggestedPrompts {
		if !p.Domain.Valid() {
			return &UnknownDomainError{Key: string(p.Domain)}
		}
		text := strings.TrimSpace(p.Prompt)
		if text == "" || !slices.Contains(missing, p.Domain) {
			continue
		}
		prompts = append(prompts, SuggestedPrompt{Domain: p.Domain, Prompt: text})
	}
	slices.SortStableFunc(prompts, func(x, y SuggestedPrompt) int {
		return x.Domain.index() - y.Domain.index()
	})

	for _, d := range missing {
		if !slices.ContainsFunc(prompts, func(p SuggestedPrompt) bool { return p.Domain == d }) {
			return fmt.Errorf("no suggested prompt for missing domain %s", d)
		}
	}

	a.CoveredDomains = covered
	a.MissingDomains = missing
	a.SuggestedPrompts = prompts
	return nil
}

func (a GapAnalysis) IsCovered(d DevelopmentalDomain) bool {
	return slices.Contains(a.CoveredDomains, d)
}

// PromptsFor returns the suggested prompts for one domain, in order.
func (a GapAnalysis) PromptsFor(d DevelopmentalDomain) []string {
	var out []string
	for _, p := range a.SuggestedPrompts {
		if p.Domain == d {
			out = append(out, p.Prompt)
		}
	}
	return out
}

func dedupe(in []DevelopmentalDomain) []DevelopmentalDomain {
	out := make([]DevelopmentalDomain, 0, len(in))
	for _, d := range in {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(x, y DevelopmentalDomain) int {
		return x.index() - y.index()
	})
	return out
}
