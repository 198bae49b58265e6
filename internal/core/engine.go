// Package core runs a batch of download jobs concurrently and reports the
// outcome of each.
package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rescale/dataset-fetch/internal/constants"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/logging"
)

// Runner executes one job. Implementations report their own outcome and
// return a non-nil error on failure.
type Runner interface {
	Run(ctx context.Context, job jobs.Job) error
}

// Waiter is implemented by runners whose output (progress bars) must be
// drained after every worker has returned.
type Waiter interface {
	Wait()
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, job jobs.Job) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, job jobs.Job) error {
	return f(ctx, job)
}

// Outcome is the result of one job.
type Outcome struct {
	Job     jobs.Job
	Err     error
	Elapsed time.Duration
}

// Summary is the result of a batch.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Results   []Outcome // In job-list order
	Elapsed   time.Duration
}

// String renders a one-line tally.
func (s Summary) String() string {
	return fmt.Sprintf("%d of %d datasets downloaded, %d failed (%s)",
		s.Succeeded, s.Total, s.Failed, s.Elapsed.Round(time.Millisecond))
}

// Errors returns the failed outcomes.
func (s Summary) Errors() []Outcome {
	var failed []Outcome
	for _, o := range s.Results {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Engine starts one worker per job and joins them.
type Engine struct {
	logger      *logging.Logger
	maxParallel int
	out         io.Writer

	mu      sync.Mutex
	active  int
	peak    int
	started int
}

// NewEngine creates an engine. maxParallel bounds concurrent workers; 0 means
// one worker per job. The completion line is written to out.
func NewEngine(logger *logging.Logger, maxParallel int, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = logging.NewLogger(io.Discard, true)
	}
	return &Engine{
		logger:      logger,
		maxParallel: maxParallel,
		out:         out,
	}
}

// Run executes every job with runner and blocks until all workers, and any
// output they own, have finished. A failing job never stops its siblings.
func (e *Engine) Run(ctx context.Context, list []jobs.Job, runner Runner) Summary {
	start := time.Now()
	runID := uuid.New().String()
	logger := e.logger.Child(func(c zerolog.Context) zerolog.Context {
		return c.Str("run", runID[:8])
	})
	logger.Debug().Int("jobs", len(list)).Int("max_parallel", e.maxParallel).Msg("Starting workers")

	results := make([]Outcome, len(list))

	var g errgroup.Group
	if e.maxParallel > 0 {
		g.SetLimit(e.maxParallel)
	}

	for i, job := range list {
		i, job := i, job
		g.Go(func() error {
			e.enter()
			defer e.leave()

			jobStart := time.Now()
			err := runner.Run(ctx, job)
			results[i] = Outcome{Job: job, Err: err, Elapsed: time.Since(jobStart)}
			// Failures are contained to the job that produced them
			return nil
		})
	}
	_ = g.Wait()
	logger.Debug().Int("peak_workers", e.Peak()).Msg("All workers finished")

	if w, ok := runner.(Waiter); ok {
		w.Wait()
	}

	summary := Summary{
		RunID:   runID,
		Total:   len(list),
		Results: results,
		Elapsed: time.Since(start),
	}
	for _, o := range results {
		if o.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	fmt.Fprintln(e.out, constants.CompletionMessage)
	return summary
}

// Peak returns the largest number of workers that ran at once.
func (e *Engine) Peak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.peak
}

// Started returns the number of workers started across all runs.
func (e *Engine) Started() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *Engine) enter() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started++
	e.active++
	if e.active > e.peak {
		e.peak = e.active
	}
}

func (e *Engine) leave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active--
}
