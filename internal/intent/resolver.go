package intent

import (
	"math/rand"
	"slices"

	"github.com/flynn-ai/chatbot/internal/classifier"
)

// Fixed fallback replies.
const (
	UnrecognizedMessage = "I understand non of those beautiful words."
)

// Apologies answer ambiguous or unmatched input.
var Apologies = []string{
	"Sorry didn't catch that",
	"I didn't get that",
	"I can not understand that sorry.",
	"I- I.. m not sure what you mean.",
}

// DefaultMaxCandidates is the most candidates a turn may have before it is
// treated as ambiguous.
const DefaultMaxCandidates = 3

// Outcome says how a turn was resolved.
type Outcome int

const (
	// OutcomeMatched picked a catalog entry.
	OutcomeMatched Outcome = iota
	// OutcomeUnrecognized had no known words.
	OutcomeUnrecognized
	// OutcomeAmbiguous had too many candidates.
	OutcomeAmbiguous
	// OutcomeNoMatch had no candidate with a catalog entry.
	OutcomeNoMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Resolution is the result of resolving one turn. Definition is set only
// for OutcomeMatched; Message only for the other outcomes.
type Resolution struct {
	Outcome    Outcome
	Definition *Definition
	Message    string
}

// Resolver picks one catalog entry from ranked candidates.
type Resolver struct {
	catalog       *Catalog
	maxCandidates int
	pick          func(n int) int
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Catalog *Catalog
	// MaxCandidates defaults to DefaultMaxCandidates.
	MaxCandidates int
	// Pick returns a random index in [0, n); defaults to math/rand/v2.
	Pick func(n int) int
}

// NewResolver creates a resolver over a catalog.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		catalog:       cfg.Catalog,
		maxCandidates: cfg.MaxCandidates,
		pick:          cfg.Pick,
	}
	if r.maxCandidates <= 0 {
		r.maxCandidates = DefaultMaxCandidates
	}
	if r.pick == nil {
		r.pick = rand.Intn
	}
	return r
}

// Unrecognized is the resolution for input with no known words.
func (r *Resolver) Unrecognized() Resolution {
	return Resolution{Outcome: OutcomeUnrecognized, Message: UnrecognizedMessage}
}

// Resolve picks the entry for candidates given the current context tag.
//
// More than maxCandidates candidates is ambiguous. Otherwise the entries
// whose intent is a candidate are collected in catalog order; the first
// whose cont_get equals current wins, else the first collected. With no
// collected entry the turn is a no-match.
func (r *Resolver) Resolve(candidates []classifier.Candidate, current string) Resolution {
	if len(candidates) > r.maxCandidates {
		return r.apology(OutcomeAmbiguous)
	}

	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label
	}

	var collected []*Definition
	for i := range r.catalog.defs {
		d := &r.catalog.defs[i]
		if slices.Contains(labels, d.Intent) {
			collected = append(collected, d)
		}
	}
	if len(collected) == 0 {
		return r.apology(OutcomeNoMatch)
	}

	for _, d := range collected {
		if d.ContextGet == current {
			return Resolution{Outcome: OutcomeMatched, Definition: d}
		}
	}
	return Resolution{Outcome: OutcomeMatched, Definition: collected[0]}
}

func (r *Resolver) apology(o Outcome) Resolution {
	return Resolution{Outcome: o, Message: Apologies[r.pick(len(Apologies))]}
}
