package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"paxmatch/internal/ledger"
	"paxmatch/internal/pipeline"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation round and report what needs attention",
		Long: "Match booking travelers against the roster, apply reviewer decisions, write a\n" +
			"review request for unresolved matches and the identity map for the rest.\n" +
			"Exits with status 3 when pending reviews or roster gaps block the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				runner, closeLog, err := ctx.newRunner(cmd, store)
				if err != nil {
					return err
				}
				defer closeLog()
				result, runErr := runner.Run(cmd.Context(), pipeline.Options{DryRun: dryRun})
				if runErr != nil && !errors.Is(runErr, pipeline.ErrBlocked) {
					return runErr
				}
				if jsonOutput {
					if err := writeJSON(cmd, result); err != nil {
						return err
					}
				} else {
					printRunResult(cmd.OutOrStdout(), result)
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute buckets without writing review or identity files")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full result as JSON")
	return cmd
}

func printRunResult(out io.Writer, result *pipeline.Result) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Run "+shortID(result.RunID), colorize) {
		fmt.Fprintln(out, line)
	}
	c := result.Report.Counts
	rows := [][]string{
		{"Confirmed (trivial)", strconv.Itoa(c.Trivial)},
		{"Confirmed (reviewed)", strconv.Itoa(c.Reviewed)},
		{"Pending review", strconv.Itoa(c.Pending)},
		{"Missing from roster", strconv.Itoa(c.FlaggedMissing)},
		{"Ignored (guests)", strconv.Itoa(c.Ignored)},
		{"Unmatched", strconv.Itoa(c.Unmatched)},
	}
	fmt.Fprint(out, renderTable(out, []string{"Bucket", "Names"}, rows, []columnAlignment{alignLeft, alignRight}))

	if result.Artifacts.IdentitiesPath != "" {
		fmt.Fprintln(out, renderStatusLine("Identities", statusInfo, result.Artifacts.IdentitiesPath, colorize))
	}
	if result.Artifacts.PseudonymsPath != "" {
		fmt.Fprintln(out, renderStatusLine("Pseudonyms", statusInfo, result.Artifacts.PseudonymsPath, colorize))
	}
	printTodos(out, result.Report, colorize)
}

func printTodos(out io.Writer, report pipeline.Report, colorize bool) {
	if len(report.Todos) == 0 {
		fmt.Fprintln(out, renderStatusLine("Status", statusOK, "all travelers resolved", colorize))
		return
	}
	for _, todo := range report.Todos {
		kind := statusWarn
		if todo.Blocking {
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(todoLabel(todo.Kind), kind, todo.Message, colorize))
		for _, name := range todo.Names {
			fmt.Fprintf(out, "%s    - %s\n", statusIndent, name)
		}
	}
}

func todoLabel(kind pipeline.TodoKind) string {
	switch kind {
	case pipeline.TodoReview:
		return "Review"
	case pipeline.TodoRosterAddition:
		return "Roster"
	case pipeline.TodoUnmatched:
		return "Unmatched"
	case pipeline.TodoStaleDecisions:
		return "Stale decisions"
	case pipeline.TodoUnreviewedRows:
		return "Unreviewed rows"
	default:
		return strings.ReplaceAll(string(kind), "_", " ")
	}
}

func shortID(id string) string {
	return ledger.Run{ID: id}.ShortID()
}
