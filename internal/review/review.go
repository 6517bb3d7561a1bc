// Package review writes review request workbooks for pending proposals.
//
// The workbook layout matches what the decisions loader reads, so a filled
// copy dropped into the decisions directory is a valid decision file.
package review

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"paxmatch/internal/config"
	"paxmatch/internal/decisions"
	"paxmatch/internal/failure"
	"paxmatch/internal/logging"
	"paxmatch/internal/sheet"
	"paxmatch/internal/similarity"
	"paxmatch/internal/textutil"
)

const (
	// MatchesSheet holds one row per pending proposal.
	MatchesSheet = "Matches"
	// InstructionsSheet holds the fill instructions.
	InstructionsSheet = "Instructions"

	activityLayout  = "2006-01"
	timestampLayout = "200601021504"
)

// Header is the Matches sheet column order.
var Header = []string{
	decisions.ColumnCandidate,
	decisions.ColumnReference,
	decisions.ColumnScore,
	decisions.ColumnFirstActivity,
	decisions.ColumnLastActivity,
	decisions.ColumnDepartments,
	decisions.ColumnDisposition,
}

// Request describes a written review request.
type Request struct {
	OutputPath   string   `json:"output_path"`
	ResponseDir  string   `json:"response_dir"`
	Rows         int      `json:"rows"`
	Instructions []string `json:"instructions"`
}

// Writer writes review requests into an output directory.
type Writer struct {
	OutputDir   string
	ResponseDir string
	BaseName    string
	// Now stamps the file name; defaults to time.Now.
	Now    func() time.Time
	logger *slog.Logger
}

// NewWriter returns a writer configured from cfg.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{
		OutputDir:   cfg.Paths.OutputDir,
		ResponseDir: cfg.Paths.DecisionsDir,
		BaseName:    cfg.Review.BaseName,
		Now:         time.Now,
		logger:      logging.NewComponentLogger(logger, "review"),
	}
}

// Write writes pending to a new workbook. An empty pending list writes
// nothing and returns a zero Request.
func (w *Writer) Write(pending []similarity.Proposal) (Request, error) {
	if len(pending) == 0 {
		return Request{}, nil
	}
	path := w.Path()
	req := Request{
		OutputPath:   path,
		ResponseDir:  w.ResponseDir,
		Rows:         len(pending),
		Instructions: Instructions(w.ResponseDir),
	}

	rows := make([][]any, 0, len(pending))
	for _, p := range pending {
		rows = append(rows, Row(p))
	}
	notes := make([][]any, 0, len(req.Instructions))
	for _, line := range req.Instructions {
		notes = append(notes, []any{line})
	}
	err := sheet.WriteWorkbook(path,
		sheet.Sheet{Name: MatchesSheet, Header: Header, Rows: rows},
		sheet.Sheet{Name: InstructionsSheet, Header: []string{"How to review"}, Rows: notes},
	)
	if err != nil {
		return Request{}, failure.Wrap(failure.ErrIO, "review", "write", path, err)
	}

	w.logger.Info("review request written",
		logging.String(logging.FieldEventType, "review_requested"),
		logging.String("review_path", path),
		logging.String("response_dir", w.ResponseDir),
		logging.Int("rows", len(pending)),
	)
	return req, nil
}

// Path returns the file name the next Write will use.
func (w *Writer) Path() string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	base := textutil.SanitizeFileName(w.BaseName)
	if base == "" {
		base = "name_matches"
	}
	name := fmt.Sprintf("%s_%s.xlsx", base, now().Format(timestampLayout))
	return filepath.Join(w.OutputDir, name)
}

// Row renders one pending proposal as a Matches row with a blank verdict.
func Row(p similarity.Proposal) []any {
	return []any{
		p.Candidate.Name,
		p.Reference.Name,
		p.Score,
		month(p.Candidate.FirstSeen),
		month(p.Candidate.LastSeen),
		strings.Join(p.Candidate.Departments, ", "),
		"",
	}
}

// Instructions returns the reviewer guidance written to the Instructions sheet.
func Instructions(responseDir string) []string {
	return []string{
		fmt.Sprintf("Fill the %q column of the %s sheet for every row.", decisions.ColumnDisposition, MatchesSheet),
		"Y: the traveler is the proposed roster person.",
		"NR: wrong match, but the traveler is an employee missing from the roster. Add them to the roster before the next run.",
		"NN: wrong match and the traveler is not an employee.",
		"Rows left blank are asked again in the next review round.",
		fmt.Sprintf("Save the completed workbook into %s and run paxmatch again.", responseDir),
	}
}

func month(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(activityLayout)
}
