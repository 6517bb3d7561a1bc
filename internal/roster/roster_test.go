package roster_test

import (
	"path/filepath"
	"testing"

	"paxmatch/internal/logging"
	"paxmatch/internal/roster"
	"paxmatch/internal/testsupport"
)

func TestLoadJoinsLastFirstAndKeepsFirstSeen(t *testing.T) {
	dir := t.TempDir()
	first := testsupport.WriteCSV(t, filepath.Join(dir, "hr_2023.csv"),
		[]string{"Last Name", "First Name", "Employee ID"},
		[]string{"Muller", "Anna", "1001"},
		[]string{"Weber", "Hans  Peter", "1002"},
		[]string{"Muller", "Anna", "9999"},
	)
	second := testsupport.WriteCSV(t, filepath.Join(dir, "hr_2024.csv"),
		[]string{"Employee ID", "First Name", "Last Name"},
		[]string{"1002", "Hans Peter", "Weber"},
		[]string{"1003", "Jöns", "Schmidt"},
	)

	cols := roster.Columns{LastName: "Last Name", FirstName: "First Name", EmployeeID: "Employee ID"}
	r, err := roster.Load([]string{first, second}, cols, logging.NewNop())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 distinct names, got %d: %+v", r.Len(), r.Entries())
	}
	if r.Duplicates() != 2 {
		t.Fatalf("expected 2 duplicates, got %d", r.Duplicates())
	}

	entries := r.Entries()
	wantNames := []string{"Muller Anna", "Weber Hans Peter", "Schmidt Jöns"}
	for i, want := range wantNames {
		if entries[i].Name != want {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].Name, want)
		}
	}
	anna, ok := r.Lookup("Muller  Anna")
	if !ok {
		t.Fatal("expected lookup to collapse whitespace")
	}
	if anna.EmployeeID != "1001" {
		t.Fatalf("expected first-seen employee id, got %q", anna.EmployeeID)
	}
	if anna.Source != first {
		t.Fatalf("expected source %q, got %q", first, anna.Source)
	}
}

func TestLoadFullNameColumnWithoutIDs(t *testing.T) {
	path := testsupport.WriteCSV(t, filepath.Join(t.TempDir(), "roster.csv"),
		[]string{"Name"},
		[]string{"Anna Muller"},
		[]string{" "},
	)
	cols := roster.Columns{FullName: "Name", EmployeeID: "Employee ID"}
	r, err := roster.Load([]string{path}, cols, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 name, got %d", r.Len())
	}
	entry, _ := r.Lookup("Anna Muller")
	if entry.EmployeeID != "" {
		t.Fatalf("expected no employee id, got %q", entry.EmployeeID)
	}
}

func TestLoadMissingNameColumn(t *testing.T) {
	path := testsupport.WriteCSV(t, filepath.Join(t.TempDir(), "roster.csv"),
		[]string{"Surname"},
		[]string{"Muller"},
	)
	_, err := roster.Load([]string{path}, roster.Columns{LastName: "Last Name", FirstName: "First Name"}, nil)
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestEmptyRoster(t *testing.T) {
	r, err := roster.Load(nil, roster.Columns{FullName: "Name"}, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if r.Len() != 0 || len(r.Search("anna", 5)) != 0 {
		t.Fatal("expected empty roster")
	}
}

func TestSearch(t *testing.T) {
	r := roster.New([]roster.Entry{
		{Name: "Anna Müller", EmployeeID: "1"},
		{Name: "Anna Muller-Schmidt", EmployeeID: "2"},
		{Name: "Hans Weber", EmployeeID: "3"},
	})

	results := r.Search("anna muller", 10)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	if results[0].Entry.Name != "Anna Müller" {
		t.Fatalf("expected closest name first, got %q", results[0].Entry.Name)
	}

	limited := r.Search("a", 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
	if got := r.Search("zzz", 10); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}
