// Package roster loads the HR reference name set candidates are matched against.
package roster

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"paxmatch/internal/failure"
	"paxmatch/internal/logging"
	"paxmatch/internal/sheet"
)

// Entry is one distinct roster full name.
type Entry struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Columns names the roster table headers. FullName wins when set; otherwise
// LastName and FirstName are joined as "last first".
type Columns struct {
	FullName   string
	LastName   string
	FirstName  string
	EmployeeID string
}

// Roster is a deduplicated, ordered set of reference names.
type Roster struct {
	entries    []Entry
	byName     map[string]int
	duplicates int
}

// New builds a roster from entries, keeping the first entry for each full name.
func New(entries []Entry) *Roster {
	r := &Roster{byName: make(map[string]int, len(entries))}
	for _, entry := range entries {
		r.add(entry)
	}
	return r
}

func (r *Roster) add(entry Entry) bool {
	entry.Name = FullName(entry.Name)
	entry.EmployeeID = strings.TrimSpace(entry.EmployeeID)
	if entry.Name == "" {
		return false
	}
	if _, exists := r.byName[entry.Name]; exists {
		r.duplicates++
		return false
	}
	r.byName[entry.Name] = len(r.entries)
	r.entries = append(r.entries, entry)
	return true
}

// FullName collapses internal whitespace of a name.
func FullName(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Load reads the roster tables in order. A missing id column yields entries without ids.
func Load(refs []string, cols Columns, logger *slog.Logger) (*Roster, error) {
	logger = logging.NewComponentLogger(logger, "roster")
	r := New(nil)
	for _, ref := range refs {
		table, err := sheet.Read(ref)
		if err != nil {
			return nil, err
		}
		added, err := r.loadTable(table, cols, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("roster table loaded",
			logging.String("source", table.Source()),
			logging.Int("rows", len(table.Rows)),
			logging.Int("added", added),
		)
	}
	logger.Info("roster loaded",
		logging.Int("names", r.Len()),
		logging.Int("files", len(refs)),
		logging.Int("duplicates", r.duplicates),
	)
	return r, nil
}

func (r *Roster) loadTable(table *sheet.Table, cols Columns, logger *slog.Logger) (int, error) {
	var nameCols []string
	if cols.FullName != "" {
		nameCols = []string{cols.FullName}
	} else {
		nameCols = []string{cols.LastName, cols.FirstName}
	}
	nameIdx, err := table.RequireColumns(nameCols...)
	if err != nil {
		return 0, failure.Wrap(failure.ErrDataIntegrity, "roster", "load", "", err)
	}
	idIdx := -1
	if cols.EmployeeID != "" {
		if idx, ok := table.Column(cols.EmployeeID); ok {
			idIdx = idx
		} else {
			logging.WarnWithContext(logger, "roster table has no employee id column", "roster_missing_id_column",
				logging.String("source", table.Source()),
				logging.String("column", cols.EmployeeID),
				logging.String(logging.FieldImpact, "identities from this table carry no employee id"),
				logging.String(logging.FieldErrorHint, "set roster.employee_id_column to the id header"),
			)
		}
	}

	added := 0
	for _, row := range table.Rows {
		parts := make([]string, len(nameIdx))
		for i, idx := range nameIdx {
			parts[i] = row.Cell(idx)
		}
		entry := Entry{
			Name:       FullName(parts...),
			EmployeeID: row.Cell(idIdx),
			Source:     table.Source(),
		}
		if r.add(entry) {
			added++
		}
	}
	return added, nil
}

// Len returns the number of distinct names.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Duplicates returns how many records were dropped because their full name was already present.
func (r *Roster) Duplicates() int {
	if r == nil {
		return 0
	}
	return r.duplicates
}

// Entries returns the roster in first-seen order.
func (r *Roster) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry for an exact full name.
func (r *Roster) Lookup(name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	idx, ok := r.byName[FullName(name)]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// SearchResult is a roster entry matched by Search.
type SearchResult struct {
	Entry    Entry
	Distance int
}

// Search ranks roster names containing the query's characters in order,
// ignoring case and diacritics. Closer names come first.
func (r *Roster) Search(query string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if r == nil || query == "" || len(r.entries) == 0 {
		return nil
	}
	names := make([]string, len(r.entries))
	for i, entry := range r.entries {
		names[i] = entry.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	results := make([]SearchResult, 0, len(ranks))
	for _, rank := range ranks {
		results = append(results, SearchResult{Entry: r.entries[rank.OriginalIndex], Distance: rank.Distance})
	}
	return results
}
