// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// host executors of go-bulk. A Pool is created once per device and reused by
// every launch on it, so a launch costs a few channel sends instead of a
// goroutine spawn per group.
//
// Usage:
//
//	pool := workerpool.New(runtime.NumCPU())
//	defer pool.Close()
//
//	err := pool.ParallelFor(groups, func(start, end int) error {
//	    for g := start; g < end; g++ {
//	        if err := runGroup(g); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem

	// mu is held for reading while work is sent and for writing by Close,
	// so workC is never closed under a sender.
	mu     sync.RWMutex
	closed bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe, also while other goroutines are
// running ParallelFor: their calls complete on the pool or, once it is
// closed, on the caller.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.workC)
	}
}

// acquire locks the pool for sending work. It returns false, without
// holding the lock, if the pool is closed.
func (p *Pool) acquire() bool {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false
	}
	return true
}

// firstError keeps the first non-nil error reported by any worker.
type firstError struct {
	once   sync.Once
	failed atomic.Bool
	err    error
}

func (f *firstError) set(err error) {
	if err == nil {
		return
	}
	f.once.Do(func() {
		f.err = err
		f.failed.Store(true)
	})
}

// ParallelFor executes fn over [0, n) split into one contiguous chunk per
// worker and blocks until every chunk is done. Chunks are ceil(n/workers)
// long; trailing workers whose chunk starts at or past n get no work.
//
// fn receives (start, end) indices where work should process [start, end).
// The first error returned by any chunk is returned; other chunks still run
// to completion.
func (p *Pool) ParallelFor(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}

	workers := min(p.numWorkers, n)
	if workers == 1 || !p.acquire() {
		// Sequential on a single worker or a closed pool
		return fn(0, n)
	}

	chunkSize := (n + workers - 1) / workers

	var (
		wg    sync.WaitGroup
		first firstError
	)
	wg.Add(workers)

	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}

		p.workC <- workItem{
			fn: func() {
				first.set(fn(start, end))
			},
			barrier: &wg,
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	return first.err
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing, which balances load when work per index varies. It blocks until
// all work completes.
//
// After the first error no further indices are handed out; indices already
// running finish. The first error is returned.
func (p *Pool) ParallelForAtomic(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if min(p.numWorkers, n) == 1 || !p.acquire() {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	workers := min(p.numWorkers, n)

	var (
		nextIdx atomic.Int64
		wg      sync.WaitGroup
		first   firstError
	)
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for !first.failed.Load() {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					first.set(fn(idx))
				}
			},
			barrier: &wg,
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	return first.err
}
