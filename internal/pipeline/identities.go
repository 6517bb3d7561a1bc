package pipeline

import (
	"encoding/json"
	"time"

	"paxmatch/internal/failure"
	"paxmatch/internal/fileutil"
	"paxmatch/internal/pseudonym"
	"paxmatch/internal/reconcile"
)

// IdentityRecord is one traveler name in identities.json.
type IdentityRecord struct {
	Candidate  string               `json:"candidate"`
	Employment reconcile.Employment `json:"employment"`
	Name       string               `json:"name,omitempty"`
	EmployeeID string               `json:"employee_id,omitempty"`
	Pseudonym  string               `json:"pseudonym,omitempty"`
	Basis      reconcile.Basis      `json:"basis,omitempty"`
	Score      float64              `json:"score,omitempty"`
}

// IdentitiesFile is the document written to identities.json.
type IdentitiesFile struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Identities  []IdentityRecord `json:"identities"`
}

// NewIdentitiesFile lists every traveler of result with its employment
// class. Confirmed names come first, sorted by candidate, followed by missing
// and guest names in bucket order. With pseudonyms set, roster names and
// employee ids are replaced by tokens keyed on the employee id (or the
// roster name when the roster has no ids).
func NewIdentitiesFile(result *Result, pseudonyms *pseudonym.Pseudonymizer, now time.Time) IdentitiesFile {
	doc := IdentitiesFile{RunID: result.RunID, GeneratedAt: now.UTC(), Identities: []IdentityRecord{}}
	for _, id := range result.Identities.Identities() {
		rec := IdentityRecord{
			Candidate:  id.Candidate,
			Employment: reconcile.EmploymentEmployee,
			Name:       id.Name,
			EmployeeID: id.EmployeeID,
			Basis:      id.Basis,
			Score:      id.Score,
		}
		if pseudonyms != nil {
			key := id.EmployeeID
			if key == "" {
				key = id.Name
			}
			rec.Pseudonym = pseudonyms.Pseudonym(key)
			rec.Name = ""
			rec.EmployeeID = ""
		}
		doc.Identities = append(doc.Identities, rec)
	}
	for _, name := range result.Outcome.MissingNames() {
		doc.Identities = append(doc.Identities, IdentityRecord{Candidate: name, Employment: reconcile.EmploymentMissing})
	}
	for _, r := range result.Outcome.Ignored {
		doc.Identities = append(doc.Identities, IdentityRecord{Candidate: r.Proposal.Candidate.Name, Employment: reconcile.EmploymentGuest})
	}
	for _, name := range result.Outcome.UnmatchedNames() {
		doc.Identities = append(doc.Identities, IdentityRecord{Candidate: name, Employment: reconcile.EmploymentGuest})
	}
	return doc
}

// WriteIdentities writes doc as indented JSON, replacing path atomically.
func WriteIdentities(path string, doc IdentitiesFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return failure.Wrap(failure.ErrIO, "pipeline", "encode identities", path, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return failure.Wrap(failure.ErrIO, "pipeline", "write identities", path, err)
	}
	return nil
}
