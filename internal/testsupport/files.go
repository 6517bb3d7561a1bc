package testsupport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteCSV writes a header and rows to path, creating parent directories.
func WriteCSV(t testing.TB, path string, header []string, rows ...[]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header %s: %v", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows %s: %v", path, err)
	}
	return path
}

// WriteRoster writes a single-column roster of full names for cfg.
func WriteRoster(t testing.TB, path string, names ...string) string {
	t.Helper()

	rows := make([][]string, 0, len(names))
	for i, name := range names {
		rows = append(rows, []string{name, employeeID(i)})
	}
	return WriteCSV(t, path, []string{"Name", "Employee ID"}, rows...)
}

// Booking is one traveler occurrence written by WriteBookings.
type Booking struct {
	Traveler   string
	Date       string
	Department string
}

// WriteBookings writes a booking occurrence table using the default column names.
func WriteBookings(t testing.TB, path string, bookings ...Booking) string {
	t.Helper()

	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{b.Traveler, b.Date, b.Department})
	}
	return WriteCSV(t, path, []string{"Traveler", "Date", "Department"}, rows...)
}

func employeeID(i int) string {
	return fmt.Sprintf("E%d", 1001+i)
}
