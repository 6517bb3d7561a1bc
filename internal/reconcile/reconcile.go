package reconcile

import (
	"slices"

	"paxmatch/internal/decisions"
	"paxmatch/internal/similarity"
)

// Basis records how a confirmed identity was established.
type Basis string

const (
	// BasisTrivial marks proposals whose canonical names are equal.
	BasisTrivial Basis = "trivial"
	// BasisReviewed marks proposals a reviewer confirmed with Y.
	BasisReviewed Basis = "reviewed"
)

// Input is one reconciliation round.
type Input struct {
	NonTrivial []similarity.Proposal
	Trivial    []similarity.Proposal
	Unmatched  []similarity.Candidate
	Decisions  *decisions.Set
}

// InputFrom builds an Input from engine output.
func InputFrom(p similarity.Proposals, set *decisions.Set) Input {
	return Input{
		NonTrivial: p.NonTrivial,
		Trivial:    p.Trivial,
		Unmatched:  p.Unmatched,
		Decisions:  set,
	}
}

// Confirmation is a proposal accepted as the candidate's identity.
type Confirmation struct {
	Proposal similarity.Proposal `json:"proposal"`
	Basis    Basis               `json:"basis"`
	Source   *decisions.Source   `json:"source,omitempty"`
}

// Rejection is a proposal a reviewer marked NR or NN.
type Rejection struct {
	Proposal similarity.Proposal `json:"proposal"`
	Source   decisions.Source    `json:"source"`
}

// Outcome partitions the proposals of one round.
type Outcome struct {
	Confirmed      []Confirmation         `json:"confirmed"`
	Pending        []similarity.Proposal  `json:"pending"`
	FlaggedMissing []Rejection            `json:"flagged_missing"`
	Ignored        []Rejection            `json:"ignored"`
	Unmatched      []similarity.Candidate `json:"unmatched"`
	// Unused lists decisions that matched no current proposal, typically
	// because the roster changed and the candidate now proposes another name.
	Unused []decisions.Decision `json:"unused"`
	// ShortCircuited is set when every proposal was trivial and no decisions were consulted.
	ShortCircuited bool `json:"short_circuited"`
}

// Reconcile classifies every proposal in in. Bucket order follows proposal
// order, so identical inputs give identical outcomes.
func Reconcile(in Input) Outcome {
	out := Outcome{
		Confirmed:      make([]Confirmation, 0, len(in.Trivial)+len(in.NonTrivial)),
		Pending:        []similarity.Proposal{},
		FlaggedMissing: []Rejection{},
		Ignored:        []Rejection{},
		Unmatched:      slices.Clone(in.Unmatched),
		Unused:         []decisions.Decision{},
	}
	if out.Unmatched == nil {
		out.Unmatched = []similarity.Candidate{}
	}
	for _, p := range in.Trivial {
		out.Confirmed = append(out.Confirmed, Confirmation{Proposal: p, Basis: BasisTrivial})
	}
	if len(in.NonTrivial) == 0 {
		out.ShortCircuited = true
		return out
	}

	joined := make(map[similarity.PairKey]struct{}, len(in.NonTrivial))
	for _, p := range in.NonTrivial {
		key := p.Key()
		d, ok := in.Decisions.Lookup(key)
		if !ok {
			out.Pending = append(out.Pending, p)
			continue
		}
		joined[key] = struct{}{}
		switch d.Disposition {
		case decisions.Confirmed:
			source := d.Source
			out.Confirmed = append(out.Confirmed, Confirmation{Proposal: p, Basis: BasisReviewed, Source: &source})
		case decisions.RejectedExpectMatch:
			out.FlaggedMissing = append(out.FlaggedMissing, Rejection{Proposal: p, Source: d.Source})
		case decisions.RejectedNoMatch:
			out.Ignored = append(out.Ignored, Rejection{Proposal: p, Source: d.Source})
		default:
			out.Pending = append(out.Pending, p)
		}
	}
	for _, d := range in.Decisions.Decisions() {
		if _, ok := joined[d.Key()]; !ok {
			out.Unused = append(out.Unused, d)
		}
	}
	return out
}

// ReviewRequired reports whether a new review request must be issued.
func (o Outcome) ReviewRequired() bool {
	return len(o.Pending) > 0
}

// Blocked reports whether the run cannot complete without human action.
func (o Outcome) Blocked() bool {
	return len(o.Pending) > 0 || len(o.FlaggedMissing) > 0
}

// MissingNames returns the flagged candidate names that need a roster entry.
func (o Outcome) MissingNames() []string {
	names := make([]string, 0, len(o.FlaggedMissing))
	for _, r := range o.FlaggedMissing {
		names = append(names, r.Proposal.Candidate.Name)
	}
	return names
}

// UnmatchedNames returns candidates that scored below the cutoff against every roster name.
func (o Outcome) UnmatchedNames() []string {
	names := make([]string, 0, len(o.Unmatched))
	for _, c := range o.Unmatched {
		names = append(names, c.Name)
	}
	return names
}

// Counts summarises bucket sizes.
type Counts struct {
	Confirmed      int `json:"confirmed"`
	Trivial        int `json:"trivial"`
	Reviewed       int `json:"reviewed"`
	Pending        int `json:"pending"`
	FlaggedMissing int `json:"flagged_missing"`
	Ignored        int `json:"ignored"`
	Unmatched      int `json:"unmatched"`
	Unused         int `json:"unused"`
}

// Counts returns the bucket sizes of o.
func (o Outcome) Counts() Counts {
	c := Counts{
		Confirmed:      len(o.Confirmed),
		Pending:        len(o.Pending),
		FlaggedMissing: len(o.FlaggedMissing),
		Ignored:        len(o.Ignored),
		Unmatched:      len(o.Unmatched),
		Unused:         len(o.Unused),
	}
	for _, conf := range o.Confirmed {
		if conf.Basis == BasisTrivial {
			c.Trivial++
		} else {
			c.Reviewed++
		}
	}
	return c
}
