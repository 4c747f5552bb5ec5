package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEnqueueFull(t *testing.T) {
	// Pool is never started so nothing drains the queue
	pool := NewPool(PoolConfig{
		QueueSize: 1,
		Sink:      &MockSink{},
		Logger:    zap.NewNop(),
	})

	rec1 := testRecord(1)
	if !pool.Enqueue(&rec1) {
		t.Fatal("Failed to enqueue first record")
	}

	rec2 := testRecord(2)
	start := time.Now()
	enqueued := pool.Enqueue(&rec2)
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
	if pool.QueueDepth() != 1 {
		t.Errorf("QueueDepth = %d, want 1", pool.QueueDepth())
	}
}

func TestEnqueueNil(t *testing.T) {
	pool := NewPool(PoolConfig{Sink: &MockSink{}})
	if pool.Enqueue(nil) {
		t.Error("nil record must not be enqueued")
	}
}

func TestPoolBatchesBySize(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		QueueSize:     100,
		BatchSize:     5,
		FlushInterval: time.Hour,
		Sink:          sink,
	})
	pool.Start(context.Background())

	for i := 0; i < 10; i++ {
		rec := testRecord(i)
		if !pool.Enqueue(&rec) {
			t.Fatalf("enqueue %d failed", i)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.Total() < 10 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	pool.Stop()

	if sink.Total() != 10 {
		t.Fatalf("expected 10 records written, got %d", sink.Total())
	}
	for i, b := range sink.Batches {
		if len(b) != 5 {
			t.Errorf("batch %d has %d records, want 5", i, len(b))
		}
	}
}

func TestPoolFlushesOnInterval(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: 10 * time.Millisecond,
		Sink:          sink,
	})
	pool.Start(context.Background())
	defer pool.Stop()

	rec := testRecord(150)
	pool.Enqueue(&rec)

	deadline := time.Now().Add(2 * time.Second)
	for sink.Total() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.Total() != 1 {
		t.Fatal("partial batch was not flushed on interval")
	}
}

func TestPoolStopDrainsQueue(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   2,
		BatchSize:     1000,
		FlushInterval: time.Hour,
		Sink:          sink,
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 25; i++ {
		rec := testRecord(i)
		pool.Enqueue(&rec)
	}

	// Cancelling the parent must not discard queued records
	cancel()
	pool.Stop()

	if sink.Total() != 25 {
		t.Fatalf("expected 25 records after drain, got %d", sink.Total())
	}

	rec := testRecord(99)
	if pool.Enqueue(&rec) {
		t.Error("Enqueue after Stop should shed the record")
	}
	pool.Stop()
}

func TestPoolSinkFailureDoesNotStopWorkers(t *testing.T) {
	sink := &MockSink{Err: errSinkDown}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		BatchSize:     1,
		FlushInterval: time.Hour,
		Sink:          sink,
	})
	pool.Start(context.Background())

	for i := 0; i < 3; i++ {
		rec := testRecord(i)
		pool.Enqueue(&rec)
	}
	pool.Stop()

	if len(sink.Batches) != 3 {
		t.Errorf("expected 3 attempted batches, got %d", len(sink.Batches))
	}
}

func TestPool_RaceCondition(t *testing.T) {
	sink := &MockSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   2,
		QueueSize:     1000,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		Sink:          sink,
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec := testRecord(j)
				rec.RequestID = fmt.Sprintf("req-%d-%d", g, j)
				if pool.Enqueue(&rec) {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
				if j%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	wg.Wait()
	pool.Stop()

	if sink.Total() != accepted {
		t.Errorf("written %d records, accepted %d", sink.Total(), accepted)
	}
}
