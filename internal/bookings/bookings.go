// Package bookings reads traveler occurrences from the booking table and
// aggregates them into similarity candidates.
package bookings

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"paxmatch/internal/failure"
	"paxmatch/internal/logging"
	"paxmatch/internal/roster"
	"paxmatch/internal/sheet"
	"paxmatch/internal/similarity"
)

// Columns names the booking table headers. Date and Department are optional.
type Columns struct {
	Name       string
	Date       string
	Department string
	// DateLayout is a Go time layout; numeric cells are read as spreadsheet serial dates.
	DateLayout string
}

// Occurrence is one booking row naming a traveler.
type Occurrence struct {
	Traveler   string
	Date       time.Time
	Department string
	Row        int
}

// Load reads occurrences from the table at ref. Rows without a traveler are skipped.
func Load(ref string, cols Columns, logger *slog.Logger) ([]Occurrence, error) {
	logger = logging.NewComponentLogger(logger, "bookings")
	table, err := sheet.Read(ref)
	if err != nil {
		return nil, err
	}
	idx, err := table.RequireColumns(cols.Name)
	if err != nil {
		return nil, err
	}
	nameIdx := idx[0]
	dateIdx := optionalColumn(table, cols.Date)
	deptIdx := optionalColumn(table, cols.Department)
	if cols.Date != "" && dateIdx < 0 {
		return nil, failure.Wrap(failure.ErrDataIntegrity, "bookings", "load", fmt.Sprintf("%s: missing column %q", table.Source(), cols.Date), nil)
	}
	layout := cols.DateLayout
	if layout == "" {
		layout = time.DateOnly
	}

	occurrences := make([]Occurrence, 0, len(table.Rows))
	skipped := 0
	for _, row := range table.Rows {
		traveler := roster.FullName(row.Cell(nameIdx))
		if traveler == "" {
			skipped++
			continue
		}
		date, err := parseDate(row.Cell(dateIdx), layout)
		if err != nil {
			return nil, failure.Wrap(failure.ErrDataIntegrity, "bookings", "parse date", fmt.Sprintf("%s row %d", table.Source(), row.Number), err)
		}
		occurrences = append(occurrences, Occurrence{
			Traveler:   traveler,
			Date:       date,
			Department: row.Cell(deptIdx),
			Row:        row.Number,
		})
	}
	logger.Info("bookings loaded",
		logging.String("source", table.Source()),
		logging.Int("occurrences", len(occurrences)),
		logging.Int("skipped", skipped),
	)
	return occurrences, nil
}

func optionalColumn(table *sheet.Table, name string) int {
	if name == "" {
		return -1
	}
	idx, ok := table.Column(name)
	if !ok {
		return -1
	}
	return idx
}

// parseDate accepts the configured layout, RFC 3339 timestamps, and spreadsheet serial numbers.
func parseDate(value, layout string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(layout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (layout %s)", value, layout)
}

// Aggregate folds occurrences into one candidate per traveler name with the
// earliest and latest activity dates and the sorted set of departments.
func Aggregate(occurrences []Occurrence) []similarity.Candidate {
	positions := make(map[string]int)
	var out []similarity.Candidate
	for _, occ := range occurrences {
		name := roster.FullName(occ.Traveler)
		if name == "" {
			continue
		}
		pos, ok := positions[name]
		if !ok {
			pos = len(out)
			positions[name] = pos
			out = append(out, similarity.Candidate{Name: name})
		}
		c := &out[pos]
		if !occ.Date.IsZero() {
			if c.FirstSeen.IsZero() || occ.Date.Before(c.FirstSeen) {
				c.FirstSeen = occ.Date
			}
			if occ.Date.After(c.LastSeen) {
				c.LastSeen = occ.Date
			}
		}
		if dept := strings.TrimSpace(occ.Department); dept != "" && !slices.Contains(c.Departments, dept) {
			c.Departments = append(c.Departments, dept)
		}
	}
	for i := range out {
		slices.Sort(out[i].Departments)
	}
	slices.SortFunc(out, func(a, b similarity.Candidate) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
