package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"paxmatch/internal/failure"
	"paxmatch/internal/roster"
)

func newRosterCommand(ctx *commandContext) *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect the HR roster",
	}
	rosterCmd.AddCommand(newRosterSearchCommand(ctx))
	return rosterCmd
}

func newRosterSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find roster names resembling a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(cfg.Roster.Files) == 0 {
				return failure.Wrap(failure.ErrConfiguration, "roster", "search", "roster.files is not set", nil)
			}
			logger, closeLog, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			ros, err := roster.Load(cfg.Roster.Files, roster.Columns{
				FullName:   cfg.Roster.FullNameColumn,
				LastName:   cfg.Roster.LastNameColumn,
				FirstName:  cfg.Roster.FirstNameColumn,
				EmployeeID: cfg.Roster.EmployeeIDColumn,
			}, logger)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := ros.Search(query, limit)
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No roster names match %q\n", query)
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Entry.Name, r.Entry.EmployeeID, strconv.Itoa(r.Distance)})
			}
			fmt.Fprint(out, renderTable(out, []string{"Name", "Employee ID", "Distance"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of names to show (0 for all)")
	return cmd
}
