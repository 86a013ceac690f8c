// Package worker runs independent jobs with bounded concurrency.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work. Jobs must not share mutable state.
type Job func(ctx context.Context) error

// Result contains the outcome of a single job.
type Result struct {
	Idx   int
	Error error
}

// Progress represents pool progress information.
type Progress struct {
	JobsComplete int
	JobsTotal    int
}

// Percent returns the completion percentage.
func (p Progress) Percent() float64 {
	if p.JobsTotal == 0 {
		return 0
	}
	return float64(p.JobsComplete) / float64(p.JobsTotal) * 100
}

// Semaphore provides a counting semaphore for controlling concurrency.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
	}
}

// Chan returns the underlying permit channel for use with select.
func (s *Semaphore) Chan() <-chan struct{} {
	return s.permits
}

// Run executes jobs with at most workers running at once. No new job starts
// after the first failure or after ctx is cancelled. Returns the first job
// error, or ctx.Err() when cancelled before all jobs ran. progressCb may be
// nil; it is called from a single goroutine.
func Run(ctx context.Context, workers int, jobs []Job, progressCb func(Progress)) error {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := NewSemaphore(workers)
	resultChan := make(chan Result, len(jobs))

	var runErr error
	var errOnce sync.Once
	setError := func(err error) {
		errOnce.Do(func() {
			runErr = err
			cancel()
		})
	}

	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		progress := Progress{JobsTotal: len(jobs)}
		for result := range resultChan {
			if result.Error != nil {
				setError(result.Error)
				continue
			}
			progress.JobsComplete++
			if progressCb != nil {
				progressCb(progress)
			}
		}
	}()

	var jobWg sync.WaitGroup
	dispatched := 0
dispatch:
	for i, job := range jobs {
		select {
		case <-sem.Chan():
		case <-ctx.Done():
			break dispatch
		}
		if ctx.Err() != nil {
			sem.Release()
			break
		}

		dispatched++
		jobWg.Add(1)
		go func(idx int, job Job) {
			defer jobWg.Done()
			defer sem.Release()
			resultChan <- Result{Idx: idx, Error: job(ctx)}
		}(i, job)
	}

	jobWg.Wait()
	close(resultChan)
	collectorWg.Wait()

	if runErr != nil {
		return runErr
	}
	if dispatched < len(jobs) {
		return ctx.Err()
	}
	return nil
}
