package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanprop/internal/models"
	"github.com/gitrdm/gokanprop/internal/parallel"
	"github.com/gitrdm/gokanprop/pkg/cp"
)

func newQueensCmd(a *app) *cobra.Command {
	var portfolio bool
	cmd := &cobra.Command{
		Use:   "queens N...",
		Short: "Count the solutions of n-queens for each board size",
		Long: `queens counts the solutions of n-queens for every size given. Sizes are
solved concurrently on --workers goroutines, one solver per size.

With --portfolio each size is instead raced by several branching strategies
and the first one to find a solution is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := make([]int, len(args))
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					return fmt.Errorf("invalid board size %q", arg)
				}
				sizes[i] = n
			}
			if portfolio {
				return a.queensPortfolio(cmd, sizes)
			}
			return a.queensBatch(cmd, sizes)
		},
	}
	cmd.Flags().BoolVar(&portfolio, "portfolio", false, "race branching strategies for a first solution")
	return cmd
}

type queensStrategy struct {
	name   string
	branch func(q ...cp.IntVar) cp.Branching
}

var queensStrategies = []queensStrategy{
	{"first-fail", cp.FirstFail},
	{"first-fail-max", cp.FirstFailMax},
	{"lexico", cp.Lexico},
}

func (a *app) queensJob(name string, n int, strategy queensStrategy, stop cp.StopCondition) parallel.Job {
	return parallel.Job{
		Name: name,
		Run: func(ctx context.Context) (cp.SearchStatistics, error) {
			s := a.newSolver()
			q, err := models.Queens(s, n)
			if err != nil {
				return cp.SearchStatistics{}, err
			}
			search := cp.NewDFSearch(s, strategy.branch(q...))
			defer a.observe(search, s, name)()
			return search.Solve(ctx, stop)
		},
	}
}

func (a *app) queensBatch(cmd *cobra.Command, sizes []int) error {
	jobs := make([]parallel.Job, len(sizes))
	for i, n := range sizes {
		jobs[i] = a.queensJob(fmt.Sprintf("queens-%d", n), n, queensStrategies[0], a.cfg.StopCondition())
	}

	pool := parallel.NewWorkerPool(a.cfg.Workers)
	defer pool.Shutdown()
	results, err := parallel.RunBatch(cmd.Context(), pool, jobs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Name, r.Err)
		}
		fmt.Fprintf(out, "queens %d: %d solutions, %d nodes, %d failures, completed=%t\n",
			sizes[i], r.Stats.Solutions, r.Stats.Nodes, r.Stats.Failures, r.Stats.Completed)
		a.logger.Debug().Str("job", r.Name).Dur("elapsed", r.Elapsed).Msg("job finished")
	}
	return nil
}

func (a *app) queensPortfolio(cmd *cobra.Command, sizes []int) error {
	stop := cp.AnyStop(cp.StopAfterSolutions(1), a.cfg.StopCondition())
	out := cmd.OutOrStdout()
	for _, n := range sizes {
		jobs := make([]parallel.Job, len(queensStrategies))
		for i, strategy := range queensStrategies {
			jobs[i] = a.queensJob(strategy.name, n, strategy, stop)
		}
		winner, err := parallel.Portfolio(cmd.Context(), jobs)
		if err != nil {
			return fmt.Errorf("queens %d: %w", n, err)
		}
		fmt.Fprintf(out, "queens %d: %s won with %d solutions after %d nodes\n",
			n, winner.Name, winner.Stats.Solutions, winner.Stats.Nodes)
	}
	return nil
}
