package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"paxmatch/internal/failure"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor xlsx.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Row is one data row with its 1-based row number in the source file.
type Row struct {
	Number int
	Cells  []string
}

// Table is a header-indexed view over a CSV file or worksheet.
type Table struct {
	Path   string
	Sheet  string
	Header []string
	Rows   []Row
	index  map[string]int
}

// SplitRef separates an optional "#Sheet" suffix from a table reference.
func SplitRef(ref string) (string, string) {
	ref = strings.TrimSpace(ref)
	if idx := strings.LastIndex(ref, "#"); idx > 0 {
		return ref[:idx], ref[idx+1:]
	}
	return ref, ""
}

// IsTableFile reports whether path has an extension Read understands.
func IsTableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// Read loads the table referenced by ref. Rows whose cells are all blank are skipped.
func Read(ref string) (*Table, error) {
	path, sheetName := SplitRef(ref)
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, sheetName, err = readWorkbook(path, sheetName)
	default:
		return nil, failure.Wrap(failure.ErrConfiguration, "sheet", "read", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, failure.Wrap(failure.ErrDataIntegrity, "sheet", "read", path+": missing header row", nil)
	}
	return newTable(path, sheetName, records), nil
}

func newTable(path, sheetName string, records [][]string) *Table {
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	t := &Table{
		Path:   path,
		Sheet:  sheetName,
		Header: header,
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		key := headerKey(name)
		if key == "" {
			continue
		}
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	for i, record := range records[1:] {
		cells := make([]string, len(header))
		blank := true
		for j := range cells {
			if j < len(record) {
				cells[j] = strings.TrimSpace(record[j])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, Row{Number: i + 2, Cells: cells})
	}
	return t
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[headerKey(name)]
	return idx, ok
}

// RequireColumns resolves every name to its index or fails naming the missing columns.
func (t *Table) RequireColumns(names ...string) ([]int, error) {
	indexes := make([]int, len(names))
	var missing []string
	for i, name := range names {
		idx, ok := t.Column(name)
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
			continue
		}
		indexes[i] = idx
	}
	if len(missing) > 0 {
		return nil, failure.Wrap(failure.ErrDataIntegrity, "sheet", "columns", fmt.Sprintf("%s: missing column %s", t.Source(), strings.Join(missing, ", ")), nil)
	}
	return indexes, nil
}

// Source names the file (and sheet) for error messages.
func (t *Table) Source() string {
	if t.Sheet != "" && !strings.EqualFold(filepath.Ext(t.Path), ".csv") {
		return t.Path + "#" + t.Sheet
	}
	return t.Path
}

// Cell returns the trimmed value at column idx, or "" when idx is negative.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}

func headerKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Wrap(failure.ErrIO, "sheet", "open", path, err)
	}
	defer f.Close()

	br := stripUTF8BOM(bufio.NewReader(f))
	r := csv.NewReader(br)
	r.Comma = sniffDelimiter(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, failure.Wrap(failure.ErrDataIntegrity, "sheet", "parse csv", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// sniffDelimiter picks ';' for spreadsheet exports from locales that use a
// decimal comma, and ',' otherwise.
func sniffDelimiter(r *bufio.Reader) rune {
	peek, _ := r.Peek(4096)
	line := peek
	if idx := bytes.IndexByte(peek, '\n'); idx >= 0 {
		line = peek[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func readWorkbook(path, sheetName string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", failure.Wrap(failure.ErrIO, "sheet", "open workbook", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", failure.Wrap(failure.ErrDataIntegrity, "sheet", "open workbook", path+": no worksheets", nil)
		}
		sheetName = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, "", failure.Wrap(failure.ErrNotFound, "sheet", "open workbook", fmt.Sprintf("%s: worksheet %q", path, sheetName), err)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", failure.Wrap(failure.ErrDataIntegrity, "sheet", "read rows", path+"#"+sheetName, err)
	}
	return rows, sheetName, nil
}
