package model

import (
	"strings"
)

// DevelopmentalDomain is one of the five ECDA developmental areas. The set is
// closed: decoding any other key fails.
type DevelopmentalDomain string

const (
	GrossMotor      DevelopmentalDomain = "gross_motor"
	FineMotor       DevelopmentalDomain = "fine_motor"
	SpeechLanguage  DevelopmentalDomain = "speech_language"
	SocialEmotional DevelopmentalDomain = "social_emotional"
	Cognitive       DevelopmentalDomain = "cognitive"
)

// DomainInfo is the display text shown to assessors for a domain.
type DomainInfo struct {
	Name        string
	Description string
}

var domainOrder = []DevelopmentalDomain{
	GrossMotor,
	FineMotor,
	SpeechLanguage,
	SocialEmotional,
	Cognitive,
}

var domainInfo = map[DevelopmentalDomain]DomainInfo{
	GrossMotor: {
		Name:        "Gross Motor Development",
		Description: "Walking, running, climbing, balance, coordination",
	},
	FineMotor: {
		Name:        "Fine Motor Development",
		Description: "Grasping, manipulating objects, drawing, stacking",
	},
	SpeechLanguage: {
		Name:        "Speech & Language Development",
		Description: "Vocalization, words, communication, comprehension",
	},
	SocialEmotional: {
		Name:        "Social-Emotional Development",
		Description: "Eye contact, sharing, emotional regulation, interaction",
	},
	Cognitive: {
		Name:        "Cognitive Development",
		Description: "Problem-solving, cause-effect, imitation, memory",
	},
}

// AllDomains returns the five domains in canonical order.
func AllDomains() []DevelopmentalDomain {
	out := make([]DevelopmentalDomain, len(domainOrder))
	copy(out, domainOrder)
	return out
}

// ParseDomain parses a domain key, rejecting anything outside the closed set.
func ParseDomain(s string) (DevelopmentalDomain, error) {
	d := DevelopmentalDomain(strings.TrimSpace(s))
	if !d.Valid() {
		return "", &UnknownDomainError{Key: s}
	}
	return d, nil
}

func (d DevelopmentalDomain) Valid() bool {
	_, ok := domainInfo[d]
	return ok
}

func (d DevelopmentalDomain) Info() DomainInfo {
	return domainInfo[d]
}

func (d DevelopmentalDomain) String() string {
	return string(d)
}

// UnmarshalText makes JSON decoding strict for both values and map keys.
func (d *DevelopmentalDomain) UnmarshalText(text []byte) error {
	parsed, err := ParseDomain(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DevelopmentalDomain) index() int {
	for i, o := range domainOrder {
		if o == d {
			return i
		}
	}
	return len(domainOrder)
}
