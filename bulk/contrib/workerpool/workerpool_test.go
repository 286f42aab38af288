// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	err := pool.ParallelFor(n, func(start, end int) error {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ParallelFor: %v", err)
	}

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForChunksDisjoint(t *testing.T) {
	pool := New(7)
	defer pool.Close()

	for _, n := range []int{1, 6, 7, 8, 50, 1001} {
		hits := make([]atomic.Int32, n)
		err := pool.ParallelFor(n, func(start, end int) error {
			for i := start; i < end; i++ {
				hits[i].Add(1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("n=%d: ParallelFor: %v", n, err)
		}
		for i := range hits {
			if got := hits[i].Load(); got != 1 {
				t.Errorf("n=%d: index %d visited %d times, want 1", n, i, got)
			}
		}
	}
}

func TestParallelForError(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	errBoom := errors.New("boom")
	var chunks atomic.Int32
	err := pool.ParallelFor(100, func(start, end int) error {
		chunks.Add(1)
		if start == 0 {
			return errBoom
		}
		return nil
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("ParallelFor error = %v, want %v", err, errBoom)
	}
	if chunks.Load() != 4 {
		t.Errorf("chunks run = %d, want 4", chunks.Load())
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	err := pool.ParallelForAtomic(n, func(i int) error {
		results[i] = i * 2
		return nil
	})
	if err != nil {
		t.Fatalf("ParallelForAtomic: %v", err)
	}

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomicStopsOnError(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	errBoom := errors.New("boom")
	var visited atomic.Int32
	err := pool.ParallelForAtomic(10000, func(i int) error {
		visited.Add(1)
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("ParallelForAtomic error = %v, want %v", err, errBoom)
	}
	// Each worker may have grabbed one index before seeing the failure.
	if v := visited.Load(); v > 2 {
		t.Errorf("visited = %d after first error, want <= 2", v)
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Test with n smaller than workers
	n := 3
	var count atomic.Int32

	_ = pool.ParallelFor(n, func(start, end int) error {
		count.Add(int32(end - start))
		return nil
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	_ = pool.ParallelFor(0, func(start, end int) error {
		called = true
		return nil
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Should still work (sequential fallback)
	_ = pool.ParallelFor(n, func(start, end int) error {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
		return nil
	})
	_ = pool.ParallelForAtomic(n, func(i int) error {
		results[i]++
		return nil
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2+1 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2+1)
		}
	}
}

func TestCloseDuringParallelFor(t *testing.T) {
	for range 200 {
		pool := New(4)
		var covered atomic.Int64
		done := make(chan error, 2)
		go func() {
			done <- pool.ParallelFor(1000, func(start, end int) error {
				covered.Add(int64(end - start))
				return nil
			})
		}()
		go func() {
			done <- pool.ParallelForAtomic(1000, func(int) error {
				covered.Add(1)
				return nil
			})
		}()
		pool.Close()
		for range 2 {
			if err := <-done; err != nil {
				t.Fatalf("ParallelFor error = %v", err)
			}
		}
		if got := covered.Load(); got != 2000 {
			t.Fatalf("covered %d indices, want 2000", got)
		}
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.ParallelFor(n, func(start, end int) error {
			for j := start; j < end; j++ {
				_ = j * j
			}
			return nil
		})
	}
}

func BenchmarkParallelForAtomic(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.ParallelForAtomic(n, func(i int) error {
			_ = i * i
			return nil
		})
	}
}
