// Package parallel runs independent solver jobs concurrently. A solver is
// confined to one goroutine, so every job builds its own model; the pool only
// bounds how many run at once and gathers their statistics.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

// WorkerPool manages a fixed set of goroutines draining a task channel.
// Submit blocks while every worker is busy and the buffer is full.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	once       sync.Once
}

// NewWorkerPool creates a pool with maxWorkers goroutines. If maxWorkers is 0
// or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), maxWorkers*2),
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		if task != nil {
			task()
		}
	}
}

// Submit hands task to a worker. It fails when ctx is done first or the pool
// was shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits until every accepted task has run.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskChan)
		wp.mu.Unlock()
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// Job builds and searches one model. Run must create its own solver.
type Job struct {
	Name string
	Run  func(ctx context.Context) (cp.SearchStatistics, error)
}

// Result is the outcome of one job.
type Result struct {
	Name    string
	Stats   cp.SearchStatistics
	Err     error
	Elapsed time.Duration
}

// RunBatch executes jobs on pool and returns their results in job order. A
// job error is reported in its Result; the returned error is only set when
// ctx ended before every job could be submitted.
func RunBatch(ctx context.Context, pool *WorkerPool, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		results[i].Name = job.Name
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = runJob(ctx, job)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return results, fmt.Errorf("submit %s: %w", job.Name, err)
		}
	}
	wg.Wait()
	return results, nil
}

func runJob(ctx context.Context, job Job) (r Result) {
	start := time.Now()
	r.Name = job.Name
	defer func() {
		if p := recover(); p != nil {
			r.Err = fmt.Errorf("job %s panicked: %v", job.Name, p)
		}
		r.Elapsed = time.Since(start)
	}()
	r.Stats, r.Err = job.Run(ctx)
	return r
}
