// Package parallel runs per-file jobs on a fixed set of workers.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	// WorkerFunc queues a job. It may block while every worker is busy.
	WorkerFunc func(func())
	// WaitFunc blocks until queued jobs are finished. With done set no more
	// jobs may be queued afterwards.
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg      sync.WaitGroup
	skipped atomic.Uint64
	Workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start launches numWorkers workers, GOMAXPROCS when numWorkers < 1. A single
// worker runs jobs inline. Once ctx is done, queued and new jobs are dropped
// and counted by Skipped.
func Start(ctx context.Context, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Workers: numWorkers,
		Wait:    func(bool) {},
		Cancel:  func() {},
	}
	pool.Do = func(f func()) {
		if ctx.Err() != nil {
			pool.skipped.Add(1)
			return
		}
		f()
	}
	if numWorkers == 1 {
		return pool
	}

	workChan := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range workChan {
				if ctx.Err() != nil {
					pool.skipped.Add(1)
					continue
				}
				f()
			}
		})
	}

	pool.Do = func(f func()) {
		select {
		case workChan <- f:
		case <-ctx.Done():
			pool.skipped.Add(1)
		}
	}
	pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}

// Skipped is the number of jobs dropped because the context ended.
func (p *Pool) Skipped() uint64 {
	return p.skipped.Load()
}
