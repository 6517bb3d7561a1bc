package decisions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"paxmatch/internal/failure"
	"paxmatch/internal/logging"
	"paxmatch/internal/roster"
	"paxmatch/internal/sheet"
)

// LoadDir reads every decision file in dir in lexical order. A missing
// directory yields an empty set. Office lock files (~$name.xlsx) and hidden
// files are skipped.
func LoadDir(dir string, logger *slog.Logger) (*Set, error) {
	logger = logging.NewComponentLogger(logger, "decisions")
	set := NewSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("decisions directory missing", logging.String("decisions_path", dir))
			return set, nil
		}
		return nil, failure.Wrap(failure.ErrIO, "decisions", "list", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") || !sheet.IsTableFile(name) {
			continue
		}
		if err := LoadFile(filepath.Join(dir, name), set); err != nil {
			return nil, err
		}
	}
	counts := set.Counts()
	logger.Info("decisions loaded",
		logging.Int("files", len(set.files)),
		logging.Int("decisions", set.Len()),
		logging.Int("confirmed", counts[Confirmed]),
		logging.Int("rejected_expect_match", counts[RejectedExpectMatch]),
		logging.Int("rejected_no_match", counts[RejectedNoMatch]),
		logging.Int("unreviewed_rows", set.unreviewed),
	)
	return set, nil
}

// LoadFile adds the decisions of one file to set.
func LoadFile(path string, set *Set) error {
	table, err := sheet.Read(path)
	if err != nil {
		return err
	}
	cols, err := table.RequireColumns(ColumnCandidate, ColumnReference)
	if err != nil {
		return err
	}
	dispIdx := -1
	for _, alias := range dispositionAliases {
		if idx, ok := table.Column(alias); ok {
			dispIdx = idx
			break
		}
	}
	if dispIdx < 0 {
		return failure.Wrap(failure.ErrDataIntegrity, "decisions", "load", fmt.Sprintf("%s: missing column %q", table.Source(), ColumnDisposition), nil)
	}

	set.files = append(set.files, path)
	for _, row := range table.Rows {
		source := Source{File: path, Row: row.Number}
		disposition, ok, err := ParseDisposition(row.Cell(dispIdx))
		if err != nil {
			return failure.Wrap(failure.ErrDataIntegrity, "decisions", "parse", source.String(), err)
		}
		if !ok {
			set.unreviewed++
			continue
		}
		candidate := roster.FullName(row.Cell(cols[0]))
		reference := roster.FullName(row.Cell(cols[1]))
		if candidate == "" || reference == "" {
			return failure.Wrap(failure.ErrDataIntegrity, "decisions", "parse", source.String()+": verdict without traveler name or roster match", nil)
		}
		if err := set.Add(Decision{
			Candidate:   candidate,
			Reference:   reference,
			Disposition: disposition,
			Source:      source,
		}); err != nil {
			return err
		}
	}
	return nil
}
