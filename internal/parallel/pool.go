package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool is a bounded budget of worker goroutines for fork-join recursion.
//
// The calling goroutine always counts as one worker, so a pool created
// with N workers spawns at most N-1 extra goroutines at any time, however
// deeply forks are nested. A branch that cannot get a slot immediately runs
// inline on the forking goroutine, which keeps nested forks deadlock free.
//
// A nil *Pool, or one with a single worker, runs every branch inline in
// argument order.
type Pool struct {
	workers int
	sem     *semaphore.Weighted
}

// NewPool creates a pool with the given number of workers.
// A non-positive value selects runtime.GOMAXPROCS(0).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: workers}
	if workers > 1 {
		p.sem = semaphore.NewWeighted(int64(workers - 1))
	}
	return p
}

// Workers reports the worker budget, including the calling goroutine.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Fork runs the branches and returns once all of them have finished.
//
// Each branch except the last is handed to a spare worker when one is
// free; the last branch, and any branch that finds no free worker, runs
// on the caller. Fork returns the first error observed, but never before
// every branch has completed.
func (p *Pool) Fork(branches ...func() error) error {
	var ec ErrorCollector
	if p == nil || p.sem == nil {
		for _, branch := range branches {
			ec.SetError(branch())
		}
		return ec.Err()
	}

	var g errgroup.Group
	last := len(branches) - 1
	for i, branch := range branches {
		if i < last && p.sem.TryAcquire(1) {
			g.Go(func() error {
				defer p.sem.Release(1)
				return branch()
			})
			continue
		}
		ec.SetError(branch())
	}
	ec.SetError(g.Wait())
	return ec.Err()
}
