package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"

	"assessmate.app/casenote/internal/model"
)

// fenceRe matches a whole reply wrapped in a ``` or ~~~ code fence.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches an opening fence line left by a truncated reply.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// domainKey exists for schema generation: it constrains the model to the
// five domain keys.
type domainKey string

func (domainKey) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, 5)
	for _, d := range model.AllDomains() {
		enum = append(enum, string(d))
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

type suggestedPromptReply struct {
	Domain domainKey `json:"domain"`
	Prompt string    `json:"prompt"`
}

type gapAnalysisReply struct {
	CoveredDomains   []domainKey            `json:"coveredDomains"`
	MissingDomains   []domainKey            `json:"missingDomains"`
	SuggestedPrompts []suggestedPromptReply `json:"suggestedPrompts"`
}

// parseGapAnalysis decodes a gap-analysis reply. Unknown fields and domain
// keys outside the closed set are rejected; partition checks are left to
// GapAnalysis.Normalize.
func parseGapAnalysis(raw string) (*model.GapAnalysis, error) {
	body := stripMarkdownFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var reply gapAnalysisReply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}

	covered, err := parseDomains("coveredDomains", reply.CoveredDomains)
	if err != nil {
		return nil, err
	}
	missing, err := parseDomains("missingDomains", reply.MissingDomains)
	if err != nil {
		return nil, err
	}

	prompts := make([]model.SuggestedPrompt, 0, len(reply.SuggestedPrompts))
	for i, p := range reply.SuggestedPrompts {
		d, err := model.ParseDomain(string(p.Domain))
		if err != nil {
			return nil, fmt.Errorf("suggestedPrompts[%d]: %w", i, err)
		}
		prompts = append(prompts, model.SuggestedPrompt{Domain: d, Prompt: p.Prompt})
	}

	return &model.GapAnalysis{
		CoveredDomains:   covered,
		MissingDomains:   missing,
		SuggestedPrompts: prompts,
	}, nil
}

func parseDomains(field string, keys []domainKey) ([]model.DevelopmentalDomain, error) {
	out := make([]model.DevelopmentalDomain, 0, len(keys))
	for i, k := range keys {
		d, err := model.ParseDomain(string(k))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
