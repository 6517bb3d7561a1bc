package sheet_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"paxmatch/internal/failure"
	"paxmatch/internal/sheet"
)

func TestReadCSVStripsBOMAndSkipsBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "\xEF\xBB\xBFLast Name,First Name,Employee ID\nMuller,Anna,1001\n,,\nWeber, Hans ,1002\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := sheet.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if table.Header[0] != "Last Name" {
		t.Fatalf("expected BOM to be stripped, header[0] = %q", table.Header[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1].Number != 4 {
		t.Fatalf("expected source row number 4, got %d", table.Rows[1].Number)
	}
	idx, ok := table.Column("  first   NAME ")
	if !ok {
		t.Fatal("expected case-insensitive column lookup")
	}
	if got := table.Rows[1].Cell(idx); got != "Hans" {
		t.Fatalf("expected trimmed cell, got %q", got)
	}
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	if err := os.WriteFile(path, []byte("Traveler;Date\nAn Muler;2024-01-15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := sheet.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	cols, err := table.RequireColumns("Traveler", "Date")
	if err != nil {
		t.Fatalf("RequireColumns returned error: %v", err)
	}
	if table.Rows[0].Cell(cols[0]) != "An Muler" || table.Rows[0].Cell(cols[1]) != "2024-01-15" {
		t.Fatalf("unexpected row %v", table.Rows[0].Cells)
	}
}

func TestRequireColumnsNamesMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.csv")
	if err := os.WriteFile(path, []byte("Traveler Name\nAn Muler\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := sheet.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = table.RequireColumns("Traveler Name", "Proposed Roster Match")
	if err == nil {
		t.Fatal("expected missing column error")
	}
	if !errors.Is(err, failure.ErrDataIntegrity) {
		t.Fatalf("expected data integrity marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "Proposed Roster Match") || !strings.Contains(err.Error(), "decisions.csv") {
		t.Fatalf("expected error to name column and file, got %v", err)
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "review.xlsx")
	err := sheet.WriteWorkbook(path,
		sheet.Sheet{
			Name:   "Matches",
			Header: []string{"Traveler Name", "Similarity", "Note"},
			Rows: [][]any{
				{"An Muler", 0.83, ""},
				{"Jöns Weber", 0.5, "check"},
			},
		},
		sheet.Sheet{
			Name:   "Instructions",
			Header: []string{"Instructions"},
			Rows:   [][]any{{"Fill the last column."}},
		},
	)
	if err != nil {
		t.Fatalf("WriteWorkbook returned error: %v", err)
	}

	table, err := sheet.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if table.Sheet != "Matches" {
		t.Fatalf("expected first sheet to be Matches, got %q", table.Sheet)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1].Cells[0] != "Jöns Weber" || table.Rows[1].Cells[1] != "0.5" {
		t.Fatalf("unexpected row %v", table.Rows[1].Cells)
	}

	instructions, err := sheet.Read(path + "#Instructions")
	if err != nil {
		t.Fatalf("Read with sheet suffix returned error: %v", err)
	}
	if instructions.Rows[0].Cells[0] != "Fill the last column." {
		t.Fatalf("unexpected instructions %v", instructions.Rows[0].Cells)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	width, err := f.GetColWidth("Matches", "A")
	if err != nil {
		t.Fatal(err)
	}
	if width < float64(len("Traveler Name")) {
		t.Fatalf("expected fitted column width, got %v", width)
	}
}

func TestReadMissingWorksheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := sheet.WriteWorkbook(path, sheet.Sheet{Name: "Staff", Header: []string{"Name"}}); err != nil {
		t.Fatal(err)
	}
	_, err := sheet.Read(path + "#Contractors")
	if !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected not found marker, got %v", err)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := sheet.Read("/data/roster.ods")
	if !errors.Is(err, sheet.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantPath  string
		wantSheet string
	}{
		{"/data/hr.xlsx#Staff", "/data/hr.xlsx", "Staff"},
		{"/data/hr.xlsx", "/data/hr.xlsx", ""},
		{"#only", "#only", ""},
	}
	for _, tt := range tests {
		path, sheetName := sheet.SplitRef(tt.ref)
		if path != tt.wantPath || sheetName != tt.wantSheet {
			t.Errorf("SplitRef(%q) = (%q, %q), want (%q, %q)", tt.ref, path, sheetName, tt.wantPath, tt.wantSheet)
		}
	}
}
