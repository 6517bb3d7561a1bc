package pipeline

import (
	"fmt"

	"paxmatch/internal/reconcile"
)

// TodoKind classifies an end-of-run action item.
type TodoKind string

const (
	TodoReview         TodoKind = "review"
	TodoRosterAddition TodoKind = "roster_addition"
	TodoUnmatched      TodoKind = "unmatched"
	TodoStaleDecisions TodoKind = "stale_decisions"
	TodoUnreviewedRows TodoKind = "unreviewed_rows"
)

// Todo is one thing the user has to act on after a run.
type Todo struct {
	Kind     TodoKind `json:"kind"`
	Blocking bool     `json:"blocking"`
	Message  string   `json:"message"`
	Names    []string `json:"names,omitempty"`
}

// Report summarises a run for the user.
type Report struct {
	RunID  string           `json:"run_id"`
	Counts reconcile.Counts `json:"counts"`
	Todos  []Todo           `json:"todos"`
}

// Blocking reports whether any todo blocks the run.
func (r Report) Blocking() bool {
	for _, t := range r.Todos {
		if t.Blocking {
			return true
		}
	}
	return false
}

// BuildReport collects the todos of result. Blocking todos come first.
func BuildReport(result *Result) Report {
	out := result.Outcome
	report := Report{RunID: result.RunID, Counts: out.Counts(), Todos: []Todo{}}

	if len(out.Pending) > 0 {
		names := make([]string, 0, len(out.Pending))
		for _, p := range out.Pending {
			names = append(names, p.Candidate.Name)
		}
		var msg string
		if result.Request.OutputPath != "" {
			msg = fmt.Sprintf("Review %d proposed matches in %s, then save the completed file into %s and run again.",
				len(out.Pending), result.Request.OutputPath, result.Request.ResponseDir)
		} else {
			msg = fmt.Sprintf("%d proposed matches need review; no review file was written (dry run).", len(out.Pending))
		}
		report.Todos = append(report.Todos, Todo{Kind: TodoReview, Blocking: true, Message: msg, Names: names})
	}
	if len(out.FlaggedMissing) > 0 {
		report.Todos = append(report.Todos, Todo{
			Kind:     TodoRosterAddition,
			Blocking: true,
			Message:  fmt.Sprintf("Add %d employees marked NR to the roster.", len(out.FlaggedMissing)),
			Names:    out.MissingNames(),
		})
	}
	if len(out.Unmatched) > 0 {
		report.Todos = append(report.Todos, Todo{
			Kind:    TodoUnmatched,
			Message: fmt.Sprintf("%d travelers matched no roster name and are treated as guests.", len(out.Unmatched)),
			Names:   out.UnmatchedNames(),
		})
	}
	if len(out.Unused) > 0 {
		names := make([]string, 0, len(out.Unused))
		for _, d := range out.Unused {
			names = append(names, fmt.Sprintf("%s -> %s (%s)", d.Candidate, d.Reference, d.Source))
		}
		report.Todos = append(report.Todos, Todo{
			Kind:    TodoStaleDecisions,
			Message: fmt.Sprintf("%d decisions no longer match a proposal and were not applied.", len(out.Unused)),
			Names:   names,
		})
	}
	if n := result.Decisions.Unreviewed(); n > 0 {
		report.Todos = append(report.Todos, Todo{
			Kind:    TodoUnreviewedRows,
			Message: fmt.Sprintf("%d rows in the decision files have no verdict yet.", n),
		})
	}
	return report
}
