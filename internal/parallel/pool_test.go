package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}

	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestWorkerPool_NilPool(t *testing.T) {
	var pool *WorkerPool

	if pool.Workers() != 1 {
		t.Errorf("nil Workers() = %d, want 1", pool.Workers())
	}
	if pool.IsRunning() {
		t.Error("nil pool should not report running")
	}

	var counter int
	pool.ExecuteAll([]func(){
		func() { counter++ },
		func() { counter++ },
	})
	if counter != 2 {
		t.Errorf("counter = %d, want 2", counter)
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() {
			counter.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAllDisjointWrites(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	out := make([]int, 64)
	work := make([]func(), len(out))
	for i := range work {
		work[i] = func() { out[i] = i * i }
	}

	pool.ExecuteAll(work)

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestWorkerPool_ExecuteAllEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	// Should not block or panic.
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

func TestWorkerPool_ExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after Close")
	}

	var counter atomic.Int64
	work := make([]func(), 10)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	pool.ExecuteAll(work)

	if counter.Load() != 10 {
		t.Errorf("counter = %d, want 10 (closed pool runs work serially)", counter.Load())
	}
}

func TestWorkerPool_ConcurrentCallers(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const callers = 8
	const tasks = 50

	var wg sync.WaitGroup
	results := make([]int64, callers)

	for c := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local atomic.Int64
			work := make([]func(), tasks)
			for i := range work {
				work[i] = func() { local.Add(1) }
			}
			pool.ExecuteAll(work)
			results[c] = local.Load()
		}()
	}

	wg.Wait()

	for c, got := range results {
		if got != tasks {
			t.Errorf("caller %d completed %d tasks, want %d", c, got, tasks)
		}
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()
}

func BenchmarkWorkerPool_ExecuteAll(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	work := make([]func(), 64)
	for i := range work {
		work[i] = func() {}
	}

	b.ReportAllocs()
	for b.Loop() {
		pool.ExecuteAll(work)
	}
}
