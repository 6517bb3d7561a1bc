package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"paxmatch/internal/decisions"
)

func newDecisionsCommand(ctx *commandContext) *cobra.Command {
	decisionsCmd := &cobra.Command{
		Use:   "decisions",
		Short: "Inspect reviewer decision files",
	}
	decisionsCmd.AddCommand(newDecisionsCheckCommand(ctx))
	return decisionsCmd
}

func newDecisionsCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every decision file and summarise the verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			set, err := decisions.LoadDir(cfg.Paths.DecisionsDir, logger)
			if err != nil {
				return err
			}
			counts := set.Counts()
			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"directory":  cfg.Paths.DecisionsDir,
					"files":      set.Files(),
					"decisions":  set.Decisions(),
					"unreviewed": set.Unreviewed(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Decision directory: %s\n", cfg.Paths.DecisionsDir)
			if len(set.Files()) == 0 {
				fmt.Fprintln(out, "No decision files found")
				return nil
			}
			for _, file := range set.Files() {
				fmt.Fprintf(out, "  %s\n", filepath.Base(file))
			}
			rows := [][]string{
				{decisions.Confirmed.Code(), "confirmed", strconv.Itoa(counts[decisions.Confirmed])},
				{decisions.RejectedExpectMatch.Code(), "employee missing from roster", strconv.Itoa(counts[decisions.RejectedExpectMatch])},
				{decisions.RejectedNoMatch.Code(), "not an employee", strconv.Itoa(counts[decisions.RejectedNoMatch])},
				{"", "not reviewed yet", strconv.Itoa(set.Unreviewed())},
			}
			fmt.Fprint(out, renderTable(out, []string{"Verdict", "Meaning", "Rows"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			fmt.Fprintln(out, "Decision files valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output decisions as JSON")
	return cmd
}
