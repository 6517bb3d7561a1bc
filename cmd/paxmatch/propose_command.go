package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"paxmatch/internal/similarity"
)

func newProposeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showTrivial bool

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Show the best roster match for every traveler without applying decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeLog, err := ctx.newRunner(cmd, nil)
			if err != nil {
				return err
			}
			defer closeLog()
			_, proposals, err := runner.Propose(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, proposals)
			}

			out := cmd.OutOrStdout()
			list := proposals.NonTrivial
			if showTrivial {
				list = append(append([]similarity.Proposal{}, proposals.NonTrivial...), proposals.Trivial...)
			}
			if len(list) == 0 && len(proposals.Unmatched) == 0 {
				fmt.Fprintf(out, "All %d travelers match the roster exactly\n", len(proposals.Trivial))
				return nil
			}
			rows := make([][]string, 0, len(list)+len(proposals.Unmatched))
			for _, p := range list {
				rows = append(rows, []string{
					p.Candidate.Name,
					p.Reference.Name,
					strconv.FormatFloat(p.Score, 'f', 2, 64),
					yesNo(p.Trivial),
				})
			}
			for _, c := range proposals.Unmatched {
				rows = append(rows, []string{c.Name, "-", "-", "-"})
			}
			fmt.Fprint(out, renderTable(out,
				[]string{"Traveler", "Roster Match", "Score", "Trivial"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d need review, %d trivial, %d unmatched\n",
				len(proposals.NonTrivial), len(proposals.Trivial), len(proposals.Unmatched))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output proposals as JSON")
	cmd.Flags().BoolVar(&showTrivial, "all", false, "Include trivial matches in the table")
	return cmd
}
