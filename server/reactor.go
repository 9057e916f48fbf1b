package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kbukum/gourde/logger"
)

// DefaultReactorSize is the worker count of a reactor that was never resized.
const DefaultReactorSize = 10

// ErrReactorStopped is returned when work is submitted after Stop.
var ErrReactorStopped = stderrors.New("reactor stopped")

// Task is a unit of blocking work run on the reactor's worker pool.
type Task func(ctx context.Context) error

// Reactor is a bounded worker pool that request handlers use to move
// blocking work off the connection goroutines.
type Reactor struct {
	mu      sync.Mutex
	size    int
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	stopped bool
}

// NewReactor creates a pool of size workers. Sizes below one are raised to one.
func NewReactor(size int) *Reactor {
	if size < 1 {
		size = 1
	}
	return &Reactor{
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Size returns the current worker count.
func (r *Reactor) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Resize changes the worker count. Tasks already running keep their slot
// in the previous pool until they finish.
func (r *Reactor) Resize(size int) {
	if size < 1 {
		size = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if size == r.size {
		return
	}
	r.size = size
	r.sem = semaphore.NewWeighted(int64(size))
}

// Submit runs task on a worker, waiting for a free slot until ctx is done.
// Task errors are logged through the global logger current at the time of
// failure.
func (r *Reactor) Submit(ctx context.Context, task Task) error {
	sem, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	go func() {
		defer r.release(sem)
		if err := r.run(ctx, task); err != nil {
			logger.WithComponent("reactor").Error("task failed", logger.ErrorFields("submit", err))
		}
	}()
	return nil
}

// Call runs task on a worker and waits for its result.
func (r *Reactor) Call(ctx context.Context, task Task) error {
	sem, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		defer r.release(sem)
		done <- r.run(ctx, task)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new work and waits for running tasks, or for ctx.
func (r *Reactor) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Reactor) acquire(ctx context.Context) (*semaphore.Weighted, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil, ErrReactorStopped
	}
	sem := r.sem
	r.wg.Add(1)
	r.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		r.wg.Done()
		return nil, err
	}
	return sem, nil
}

func (r *Reactor) release(sem *semaphore.Weighted) {
	sem.Release(1)
	r.wg.Done()
}

// run converts a panicking task into an error.
func (r *Reactor) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return task(ctx)
}
