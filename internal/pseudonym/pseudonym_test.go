package pseudonym_test

import (
	"path/filepath"
	"testing"

	"paxmatch/internal/pseudonym"
	"paxmatch/internal/sheet"
)

func TestPseudonymIsStableAndFirstSeenOrdered(t *testing.T) {
	p := pseudonym.New("pax", nil)
	tests := []struct {
		key  string
		want string
	}{
		{"E1002", "pax1"},
		{"E1001", "pax2"},
		{"E1002", "pax1"},
		{" E1001 ", "pax2"},
		{"", ""},
		{"E1003", "pax3"},
	}
	for _, tt := range tests {
		if got := p.Pseudonym(tt.key); got != tt.want {
			t.Fatalf("Pseudonym(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	mapping := p.Mapping()
	if mapping[0].Key != "E1002" || mapping[2].Pseudonym != "pax3" {
		t.Fatalf("unexpected mapping %+v", mapping)
	}
}

func TestSequenceIsRunScoped(t *testing.T) {
	first := pseudonym.New("pax", pseudonym.NewSequence(1))
	second := pseudonym.New("pax", pseudonym.NewSequence(1))
	first.Pseudonym("a")
	first.Pseudonym("b")
	if got := second.Pseudonym("c"); got != "pax1" {
		t.Fatalf("independent run started at %q", got)
	}
}

func TestSharedSequenceNeverRepeats(t *testing.T) {
	seq := pseudonym.NewSequence(10)
	travelers := pseudonym.New("pax", seq)
	trips := pseudonym.New("trip", seq)
	if got := travelers.Pseudonym("x"); got != "pax10" {
		t.Fatalf("got %q", got)
	}
	if got := trips.Pseudonym("x"); got != "trip11" {
		t.Fatalf("got %q", got)
	}
	if next := seq.Next(); next != 12 {
		t.Fatalf("Next() = %d, want 12", next)
	}
}

func TestWriteMapping(t *testing.T) {
	p := pseudonym.New("pax", nil)
	p.Pseudonym("E1001")
	p.Pseudonym("E1002")
	path := filepath.Join(t.TempDir(), "pseudonyms.xlsx")
	if err := p.WriteMapping(path); err != nil {
		t.Fatalf("WriteMapping returned error: %v", err)
	}
	table, err := sheet.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 || table.Rows[1].Cell(0) != "E1002" || table.Rows[1].Cell(1) != "pax2" {
		t.Fatalf("unexpected table rows %+v", table.Rows)
	}
}
