package model

import "strings"

// DomainObservations maps a domain to free-text observations. Absent keys
// and empty strings both mean "no observations".
type DomainObservations map[DevelopmentalDomain]string

func (o DomainObservations) Clone() DomainObservations {
	out := make(DomainObservations, len(o))
	for d, text := range o {
		out[d] = text
	}
	return out
}

// HasContent reports whether at least one domain has non-blank text.
func (o DomainObservations) HasContent() bool {
	for _, text := range o {
		if strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}

// Complete returns a copy carrying all five domains, unset ones as "".
func (o DomainObservations) Complete() DomainObservations {
	out := make(DomainObservations, len(domainOrder))
	for _, d := range domainOrder {
		out[d] = o[d]
	}
	return out
}

// Merge returns a copy of o with every non-blank entry of supplemental
// applied. Blank entries never overwrite existing text.
func (o DomainObservations) Merge(supplemental DomainObservations) DomainObservations {
	out := o.Clone()
	for d, text := range supplemental {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out[d] = text
	}
	return out
}
