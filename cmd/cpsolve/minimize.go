package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanprop/internal/models"
	"github.com/gitrdm/gokanprop/pkg/cp"
)

func newMinimizeCmd(a *app) *cobra.Command {
	var lo, hi, step int
	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Run branch and bound on a single variable",
		Long: `minimize searches x in [--min, --max] largest value first while minimizing
x. Each solution tightens the bound by --step, so every improving solution is
printed until the bound empties the domain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.newSolver()
			x, obj, err := models.Staircase(s, lo, hi, step)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			search := cp.NewDFSearch(s, cp.FirstFailMax(x))
			search.OnSolution(func() { fmt.Fprintf(out, "x = %d\n", x.Min()) })
			defer a.observe(search, s, "minimize")()

			st, err := search.Optimize(cmd.Context(), obj, a.cfg.StopCondition())
			if err != nil {
				return err
			}
			if best, ok := obj.Best(); ok {
				fmt.Fprintf(out, "best: %d (optimal=%t)\n", best, st.Completed)
			} else {
				fmt.Fprintln(out, "no solution")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&lo, "min", 0, "lower bound of x")
	cmd.Flags().IntVar(&hi, "max", 10, "upper bound of x")
	cmd.Flags().IntVar(&step, "step", 2, "objective improvement required per solution")
	return cmd
}
