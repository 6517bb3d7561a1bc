package similarity

import (
	"slices"
	"time"

	"paxmatch/internal/roster"
)

// Candidate is a traveler name observed in bookings, with its activity range.
type Candidate struct {
	Name        string    `json:"name"`
	FirstSeen   time.Time `json:"first_seen,omitzero"`
	LastSeen    time.Time `json:"last_seen,omitzero"`
	Departments []string  `json:"departments,omitempty"`
}

// merge widens the activity range and unions departments.
func (c Candidate) merge(other Candidate) Candidate {
	if c.FirstSeen.IsZero() || (!other.FirstSeen.IsZero() && other.FirstSeen.Before(c.FirstSeen)) {
		c.FirstSeen = other.FirstSeen
	}
	if other.LastSeen.After(c.LastSeen) {
		c.LastSeen = other.LastSeen
	}
	depts := append(slices.Clone(c.Departments), other.Departments...)
	slices.Sort(depts)
	c.Departments = slices.Compact(depts)
	return c
}

// PairKey identifies a proposal by its candidate and reference names.
type PairKey struct {
	Candidate string
	Reference string
}

// Proposal is the best roster match found for one candidate.
type Proposal struct {
	Candidate Candidate    `json:"candidate"`
	Reference roster.Entry `json:"reference"`
	// Score is the cosine similarity rounded half-up to two decimals.
	Score   float64 `json:"score"`
	Trivial bool    `json:"trivial"`
}

// Key returns the join key used against human decisions.
func (p Proposal) Key() PairKey {
	return PairKey{Candidate: p.Candidate.Name, Reference: p.Reference.Name}
}

// Proposals groups the outcome of one Propose call.
type Proposals struct {
	NonTrivial []Proposal  `json:"non_trivial"`
	Trivial    []Proposal  `json:"trivial"`
	Unmatched  []Candidate `json:"unmatched"`
}

// Len returns the number of proposals in both groups.
func (p Proposals) Len() int {
	return len(p.NonTrivial) + len(p.Trivial)
}
