package decisions

import (
	"errors"
	"fmt"

	"paxmatch/internal/failure"
	"paxmatch/internal/similarity"
)

// ErrConflictingDecision is returned when one candidate/reference pair carries
// different verdicts in two rows.
var ErrConflictingDecision = errors.New("conflicting decision")

// Source locates a decision row.
type Source struct {
	File string `json:"file"`
	Row  int    `json:"row"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s row %d", s.File, s.Row)
}

// Decision is one reviewed proposal.
type Decision struct {
	Candidate   string      `json:"candidate"`
	Reference   string      `json:"reference"`
	Disposition Disposition `json:"disposition"`
	Source      Source      `json:"source"`
}

// Key returns the proposal join key.
func (d Decision) Key() similarity.PairKey {
	return similarity.PairKey{Candidate: d.Candidate, Reference: d.Reference}
}

// Set holds decisions keyed by candidate and reference, in load order.
type Set struct {
	byKey      map[similarity.PairKey]Decision
	order      []similarity.PairKey
	files      []string
	unreviewed int
}

// NewSet returns an empty decision set.
func NewSet() *Set {
	return &Set{byKey: make(map[similarity.PairKey]Decision)}
}

// Add records d. Repeating an identical verdict is accepted; a different
// verdict for the same pair is an ErrConflictingDecision naming both rows.
func (s *Set) Add(d Decision) error {
	key := d.Key()
	if prev, ok := s.byKey[key]; ok {
		if prev.Disposition == d.Disposition {
			return nil
		}
		msg := fmt.Sprintf("%q -> %q is %s in %s but %s in %s",
			d.Candidate, d.Reference, prev.Disposition.Code(), prev.Source, d.Disposition.Code(), d.Source)
		return failure.Wrap(failure.ErrDataIntegrity, "decisions", "merge", msg, ErrConflictingDecision)
	}
	s.byKey[key] = d
	s.order = append(s.order, key)
	return nil
}

// Lookup returns the decision for key.
func (s *Set) Lookup(key similarity.PairKey) (Decision, bool) {
	if s == nil {
		return Decision{}, false
	}
	d, ok := s.byKey[key]
	return d, ok
}

// Len returns the number of distinct decided pairs.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Decisions returns every decision in load order.
func (s *Set) Decisions() []Decision {
	if s == nil {
		return nil
	}
	out := make([]Decision, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// Files returns the decision files read, in read order.
func (s *Set) Files() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.files...)
}

// Unreviewed returns how many rows had a blank verdict.
func (s *Set) Unreviewed() int {
	if s == nil {
		return 0
	}
	return s.unreviewed
}

// Counts tallies decisions by disposition.
func (s *Set) Counts() map[Disposition]int {
	counts := map[Disposition]int{}
	if s == nil {
		return counts
	}
	for _, d := range s.byKey {
		counts[d.Disposition]++
	}
	return counts
}
