package bookings_test

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"paxmatch/internal/bookings"
	"paxmatch/internal/failure"
	"paxmatch/internal/sheet"
	"paxmatch/internal/testsupport"
)

var defaultColumns = bookings.Columns{Name: "Traveler", Date: "Date", Department: "Department", DateLayout: "2006-01-02"}

func TestLoadAndAggregate(t *testing.T) {
	path := testsupport.WriteBookings(t, filepath.Join(t.TempDir(), "bookings.csv"),
		testsupport.Booking{Traveler: "An Muler", Date: "2024-03-02", Department: "Sales"},
		testsupport.Booking{Traveler: "", Date: "2024-03-05", Department: "Sales"},
		testsupport.Booking{Traveler: "An  Muler", Date: "2024-01-15", Department: "Finance"},
		testsupport.Booking{Traveler: "Hans Weber", Date: "", Department: ""},
		testsupport.Booking{Traveler: "An Muler", Date: "2024-02-01", Department: "Sales"},
	)

	occurrences, err := bookings.Load(path, defaultColumns, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(occurrences) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occurrences))
	}
	if occurrences[1].Row != 4 {
		t.Fatalf("expected source row 4, got %d", occurrences[1].Row)
	}

	candidates := bookings.Aggregate(occurrences)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	an := candidates[0]
	if an.Name != "An Muler" {
		t.Fatalf("expected candidates sorted by name, got %q first", an.Name)
	}
	if !an.FirstSeen.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first seen %v", an.FirstSeen)
	}
	if !an.LastSeen.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected last seen %v", an.LastSeen)
	}
	if !slices.Equal(an.Departments, []string{"Finance", "Sales"}) {
		t.Fatalf("unexpected departments %v", an.Departments)
	}
	hans := candidates[1]
	if !hans.FirstSeen.IsZero() || len(hans.Departments) != 0 {
		t.Fatalf("expected empty activity for Hans Weber, got %+v", hans)
	}
}

func TestLoadRejectsBadDate(t *testing.T) {
	path := testsupport.WriteBookings(t, filepath.Join(t.TempDir(), "bookings.csv"),
		testsupport.Booking{Traveler: "An Muler", Date: "15.01.2024"},
	)
	_, err := bookings.Load(path, defaultColumns, nil)
	if !errors.Is(err, failure.ErrDataIntegrity) {
		t.Fatalf("expected data integrity error, got %v", err)
	}
}

func TestLoadCustomLayoutAndSerialDates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookings.xlsx")
	err := sheet.WriteWorkbook(path, sheet.Sheet{
		Name:   "Trips",
		Header: []string{"Traveler", "Date"},
		Rows: [][]any{
			{"An Muler", "15.01.2024"},
			{"An Muler", 45363},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	cols := bookings.Columns{Name: "Traveler", Date: "Date", DateLayout: "02.01.2006"}
	occurrences, err := bookings.Load(path, cols, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
	}
	if occurrences[0].Date.Format(time.DateOnly) != "2024-01-15" {
		t.Fatalf("unexpected layout date %v", occurrences[0].Date)
	}
	if occurrences[1].Date.Format(time.DateOnly) != "2024-03-12" {
		t.Fatalf("unexpected serial date %v", occurrences[1].Date)
	}
}

func TestLoadMissingTravelerColumn(t *testing.T) {
	path := testsupport.WriteCSV(t, filepath.Join(t.TempDir(), "bookings.csv"), []string{"Passenger"}, []string{"An Muler"})
	if _, err := bookings.Load(path, defaultColumns, nil); err == nil {
		t.Fatal("expected missing column error")
	}
}
