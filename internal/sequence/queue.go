package sequence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when posting to a queue that has been closed.
var ErrClosed = errors.New("sequence: queue closed")

// ErrRunning is returned when Run is called on a queue that is already running.
var ErrRunning = errors.New("sequence: queue already running")

// Queue runs posted tasks one at a time, in posting order, on the goroutine
// that calls Run. Everything executed by the queue belongs to one sequence.
type Queue struct {
	tasks     chan func()
	closed    chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

// NewQueue creates a queue that buffers up to buffer pending tasks.
func NewQueue(buffer int) *Queue {
	if buffer < 0 {
		buffer = 0
	}
	return &Queue{
		tasks:   make(chan func(), buffer),
		closed:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run executes tasks until the queue is closed or ctx is cancelled. Tasks
// still pending at Close are executed before Run returns. Returns ctx.Err()
// on cancellation and nil after Close.
func (q *Queue) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(q.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-q.tasks:
			task()
		case <-q.closed:
			q.drain()
			return nil
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case task := <-q.tasks:
			task()
		default:
			return
		}
	}
}

// Post enqueues task without waiting for it to run. It blocks while the
// buffer is full.
func (q *Queue) Post(task func()) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	case <-q.closed:
		return ErrClosed
	}
}

// PostAndWait enqueues task and waits until it has run.
func (q *Queue) PostAndWait(ctx context.Context, task func()) error {
	done := make(chan struct{})
	if err := q.Post(func() {
		defer close(done)
		task()
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops accepting tasks. Pending tasks still run.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}
