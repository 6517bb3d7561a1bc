package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"paxmatch/internal/pipeline"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Resolve traveler names against confirmed identities",
		Long: "Run a dry reconciliation with the current decisions and print how each\n" +
			"name resolves. Nothing is written and the run is not recorded.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeLog, err := ctx.newRunner(cmd, nil)
			if err != nil {
				return err
			}
			defer closeLog()
			result, err := runner.Run(cmd.Context(), pipeline.Options{DryRun: true, SkipLedger: true})
			if err != nil && !errors.Is(err, pipeline.ErrBlocked) {
				return err
			}

			type resolution struct {
				Name       string  `json:"name"`
				Employment string  `json:"employment"`
				Roster     string  `json:"roster_name,omitempty"`
				EmployeeID string  `json:"employee_id,omitempty"`
				Basis      string  `json:"basis,omitempty"`
				Score      float64 `json:"score,omitempty"`
			}
			resolutions := make([]resolution, 0, len(args))
			for _, name := range args {
				r := resolution{Name: name, Employment: string(result.Identities.Employment(name))}
				if id, ok := result.Identities.Resolve(name); ok {
					r.Roster = id.Name
					r.EmployeeID = id.EmployeeID
					r.Basis = string(id.Basis)
					r.Score = id.Score
				}
				resolutions = append(resolutions, r)
			}
			if jsonOutput {
				return writeJSON(cmd, resolutions)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(resolutions))
			for _, r := range resolutions {
				score := ""
				if r.Roster != "" {
					score = strconv.FormatFloat(r.Score, 'f', 2, 64)
				}
				rows = append(rows, []string{r.Name, r.Employment, r.Roster, r.EmployeeID, r.Basis, score})
			}
			fmt.Fprint(out, renderTable(out,
				[]string{"Name", "Employment", "Roster Name", "Employee ID", "Basis", "Score"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output resolutions as JSON")
	return cmd
}
