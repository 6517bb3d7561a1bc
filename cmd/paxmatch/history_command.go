package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"paxmatch/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded reconciliation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []ledger.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					status := string(run.Status)
					if run.DryRun {
						status += " (dry run)"
					}
					rows = append(rows, []string{
						run.ShortID(),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						status,
						strconv.Itoa(run.Counts.Confirmed),
						strconv.Itoa(run.Counts.Pending),
						strconv.Itoa(run.Counts.Flagged),
						strconv.Itoa(run.Counts.Unmatched),
					})
				}
				fmt.Fprint(out, renderTable(out,
					[]string{"Run", "Started", "Status", "Confirmed", "Pending", "Missing", "Unmatched"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output runs as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [RUN_ID]",
		Short: "Show the buckets and decision files of one run (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				var run *ledger.Run
				var err error
				if len(args) == 1 {
					run, err = store.GetRun(cmd.Context(), args[0])
				} else {
					run, err = store.LastRun(cmd.Context())
				}
				if err != nil {
					return err
				}
				if run == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				if jsonOutput {
					return writeJSON(cmd, run)
				}
				printRun(cmd.OutOrStdout(), run)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run as JSON")
	return cmd
}

func printRun(out io.Writer, run *ledger.Run) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	switch run.Status {
	case ledger.StatusBlocked:
		kind = statusWarn
	case ledger.StatusFailed:
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, string(run.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime), colorize))
	if d := run.Duration(); d > 0 {
		fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, d.Round(time.Millisecond).String(), colorize))
	}
	if run.ReviewPath != "" {
		fmt.Fprintln(out, renderStatusLine("Review request", statusInfo, run.ReviewPath, colorize))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}

	if len(run.Names) > 0 {
		rows := make([][]string, 0, len(run.Names))
		for _, n := range run.Names {
			score := ""
			if n.Reference != "" {
				score = strconv.FormatFloat(n.Score, 'f', 2, 64)
			}
			rows = append(rows, []string{string(n.Bucket), n.Candidate, n.Reference, score})
		}
		fmt.Fprint(out, renderTable(out,
			[]string{"Bucket", "Traveler", "Roster Match", "Score"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		))
	}
	for _, f := range run.DecisionFiles {
		fmt.Fprintf(out, "%sdecisions: %s (sha256 %.12s, %d bytes)\n", statusIndent, f.Path, f.SHA256, f.Size)
	}
}
