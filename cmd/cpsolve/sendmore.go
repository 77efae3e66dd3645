package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanprop/internal/models"
	"github.com/gitrdm/gokanprop/pkg/cp"
)

func newSendMoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sendmore",
		Short: "Solve SEND + MORE = MONEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.newSolver()
			letters, err := models.SendMoreMoney(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			search := cp.NewDFSearch(s, cp.FirstFail(letters...))
			search.OnSolution(func() {
				fmt.Fprintf(out, "%d + %d = %d\n",
					models.Word(letters, "SEND"), models.Word(letters, "MORE"), models.Word(letters, "MONEY"))
			})
			defer a.observe(search, s, "sendmore")()

			st, err := search.Solve(cmd.Context(), cp.AnyStop(cp.StopAfterSolutions(1), a.cfg.StopCondition()))
			if err != nil {
				return err
			}
			if st.Solutions == 0 {
				fmt.Fprintln(out, "no solution")
			}
			fmt.Fprintln(out, st)
			return nil
		},
	}
}
