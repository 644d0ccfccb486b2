package parallel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/biocatalog/pkg/logging"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	var executed atomic.Bool
	if err := pool.SubmitContext(context.Background(), func() { executed.Store(true) }); err != nil {
		t.Errorf("Task submission failed: %v", err)
	}

	pool.Close()

	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers+1, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}

	for _, n := range []int{0, -3} {
		pool := newPool(t, n)
		if pool.Workers() < 1 {
			t.Errorf("NewWorkerPool(%d) has %d workers", n, pool.Workers())
		}
		pool.Close()
	}

	pool := newPool(t, 3)
	defer pool.Close()
	if pool.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", pool.Workers())
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.SubmitContext(context.Background(), func() {
				atomic.AddInt64(&counter, 1)
			}); err != nil {
				t.Errorf("SubmitContext failed: %v", err)
			}
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace closes the pool while tasks are being submitted
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					_ = pool.SubmitContext(context.Background(), func() { time.Sleep(time.Millisecond) })
				}
			}()
		}

		time.Sleep(time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()
	pool.Close()

	if err := pool.SubmitContext(context.Background(), func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}
}

func TestWorkerPoolSubmitContextCancelled(t *testing.T) {
	pool := newPool(t, 1)

	release := make(chan struct{})
	// One task blocks the worker, two more fill the queue
	for i := 0; i < 3; i++ {
		if err := pool.SubmitContext(context.Background(), func() { <-release }); err != nil {
			t.Fatalf("SubmitContext failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.SubmitContext(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}

	close(release)
	pool.Close()
}

func TestWorkerPoolWithPanic(t *testing.T) {
	var buf bytes.Buffer
	pool, err := NewWorkerPool(2, logging.NewJSONLogger(&buf, logging.DebugLevel))
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var completed atomic.Int32
	ctx := context.Background()
	_ = pool.SubmitContext(ctx, func() { panic("layout exploded") })
	for i := 0; i < 5; i++ {
		_ = pool.SubmitContext(ctx, func() { completed.Add(1) })
	}
	pool.Close()

	if completed.Load() != 5 {
		t.Errorf("Expected 5 tasks after panic, got %d", completed.Load())
	}
	if !strings.Contains(buf.String(), "layout exploded") {
		t.Errorf("Panic not logged: %s", buf.String())
	}
}

func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(8, nil)
	defer pool.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.SubmitContext(ctx, func() {})
	}
}
