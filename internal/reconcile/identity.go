package reconcile

import (
	"sort"

	"paxmatch/internal/roster"
)

// Employment classifies a traveler name for downstream record stamping.
type Employment string

const (
	// EmploymentEmployee names resolve to a roster entry.
	EmploymentEmployee Employment = "employee"
	// EmploymentMissing names were flagged NR: employees absent from the roster.
	EmploymentMissing Employment = "missing"
	// EmploymentGuest covers every other name, including NN and unmatched travelers.
	EmploymentGuest Employment = "guest"
)

// Identity is the roster identity a traveler name resolves to.
type Identity struct {
	Candidate  string  `json:"candidate"`
	Name       string  `json:"name"`
	EmployeeID string  `json:"employee_id,omitempty"`
	Basis      Basis   `json:"basis"`
	Score      float64 `json:"score"`
}

// IdentityMap resolves traveler names from the confirmed set of one outcome.
type IdentityMap struct {
	byCandidate map[string]Identity
	missing     map[string]struct{}
}

// NewIdentityMap builds the resolution map for outcome. When ros is non-nil
// employee ids are taken from the current roster entry.
func NewIdentityMap(outcome Outcome, ros *roster.Roster) *IdentityMap {
	m := &IdentityMap{
		byCandidate: make(map[string]Identity, len(outcome.Confirmed)),
		missing:     make(map[string]struct{}, len(outcome.FlaggedMissing)),
	}
	for _, c := range outcome.Confirmed {
		ref := c.Proposal.Reference
		if entry, ok := ros.Lookup(ref.Name); ok {
			ref = entry
		}
		m.byCandidate[c.Proposal.Candidate.Name] = Identity{
			Candidate:  c.Proposal.Candidate.Name,
			Name:       ref.Name,
			EmployeeID: ref.EmployeeID,
			Basis:      c.Basis,
			Score:      c.Proposal.Score,
		}
	}
	for _, r := range outcome.FlaggedMissing {
		m.missing[r.Proposal.Candidate.Name] = struct{}{}
	}
	return m
}

// Resolve returns the identity for a traveler name. Names outside the
// confirmed set are absent.
func (m *IdentityMap) Resolve(name string) (Identity, bool) {
	if m == nil {
		return Identity{}, false
	}
	if id, ok := m.byCandidate[name]; ok {
		return id, true
	}
	id, ok := m.byCandidate[roster.FullName(name)]
	return id, ok
}

// Employment classifies name as employee, missing or guest.
func (m *IdentityMap) Employment(name string) Employment {
	if _, ok := m.Resolve(name); ok {
		return EmploymentEmployee
	}
	if m != nil {
		if _, ok := m.missing[roster.FullName(name)]; ok {
			return EmploymentMissing
		}
	}
	return EmploymentGuest
}

// Len returns the number of resolvable names.
func (m *IdentityMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byCandidate)
}

// Identities returns every identity sorted by candidate name.
func (m *IdentityMap) Identities() []Identity {
	if m == nil {
		return nil
	}
	out := make([]Identity, 0, len(m.byCandidate))
	for _, id := range m.byCandidate {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Candidate < out[j].Candidate })
	return out
}
