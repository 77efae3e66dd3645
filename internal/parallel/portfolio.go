package parallel

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var errPortfolioDone = errors.New("portfolio: winner found")

// ErrNoWinner is returned by Portfolio when no job finished its search.
var ErrNoWinner = errors.New("portfolio: no job completed")

// Portfolio races jobs that search the same problem with different
// strategies. The first job whose search completes, or finds at least one
// solution, wins; the others are cancelled through their context.
//
// A job returning an error other than a cancellation aborts the race and
// that error is returned.
func Portfolio(ctx context.Context, jobs []Job) (Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	var (
		mu     sync.Mutex
		winner *Result
	)
	for _, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			st, err := job.Run(gctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
			if !st.Completed && st.Solutions == 0 {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if winner == nil {
				winner = &Result{Name: job.Name, Stats: st, Elapsed: time.Since(start)}
			}
			return errPortfolioDone
		})
	}
	err := g.Wait()
	if err != nil && !errors.Is(err, errPortfolioDone) {
		return Result{}, err
	}
	if winner == nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, ErrNoWinner
	}
	return *winner, nil
}
