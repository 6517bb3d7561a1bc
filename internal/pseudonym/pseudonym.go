// Package pseudonym replaces personal identifiers with run-scoped stable tokens.
package pseudonym

import (
	"fmt"
	"strings"

	"paxmatch/internal/sheet"
)

// Sequence hands out increasing integers. It is owned by one run and is not
// safe for concurrent use.
type Sequence struct {
	next int
}

// NewSequence returns a sequence whose first value is start.
func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

// Next returns the current value and advances the sequence.
func (s *Sequence) Next() int {
	v := s.next
	s.next++
	return v
}

// Entry maps one identifier to its pseudonym.
type Entry struct {
	Key       string `json:"key"`
	Pseudonym string `json:"pseudonym"`
}

// Pseudonymizer assigns prefix+N tokens in first-seen order. The same key
// always receives the same token within one Pseudonymizer.
type Pseudonymizer struct {
	prefix string
	seq    *Sequence
	byKey  map[string]string
	order  []string
}

// New returns a Pseudonymizer drawing numbers from seq. A nil seq starts at 1.
func New(prefix string, seq *Sequence) *Pseudonymizer {
	if seq == nil {
		seq = NewSequence(1)
	}
	return &Pseudonymizer{prefix: prefix, seq: seq, byKey: make(map[string]string)}
}

// Pseudonym returns the token for key. Blank keys map to "".
func (p *Pseudonymizer) Pseudonym(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if token, ok := p.byKey[key]; ok {
		return token
	}
	token := fmt.Sprintf("%s%d", p.prefix, p.seq.Next())
	p.byKey[key] = token
	p.order = append(p.order, key)
	return token
}

// Len returns the number of keys assigned.
func (p *Pseudonymizer) Len() int {
	return len(p.order)
}

// Mapping returns every assignment in first-seen order.
func (p *Pseudonymizer) Mapping() []Entry {
	out := make([]Entry, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, Entry{Key: key, Pseudonym: p.byKey[key]})
	}
	return out
}

// WriteMapping writes the key to pseudonym table as a workbook.
func (p *Pseudonymizer) WriteMapping(path string) error {
	rows := make([][]any, 0, len(p.order))
	for _, e := range p.Mapping() {
		rows = append(rows, []any{e.Key, e.Pseudonym})
	}
	return sheet.WriteWorkbook(path, sheet.Sheet{
		Name:   "Pseudonyms",
		Header: []string{"Identifier", "Pseudonym"},
		Rows:   rows,
	})
}
