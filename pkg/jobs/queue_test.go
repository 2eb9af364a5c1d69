package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueProcessesTasks(t *testing.T) {
	var processed int32
	done := make(chan struct{})

	q := NewQueue("test", func(ctx context.Context, task Task) error {
		if atomic.AddInt32(&processed, 1) == 3 {
			close(done)
		}
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(Task{Kind: "noop"}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks not processed in time")
	}
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, task Task) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Task{Kind: "noop"}))
}

func TestQueueRetriesFailedTask(t *testing.T) {
	var mu sync.Mutex
	attempts := make([]int, 0, 2)
	done := make(chan struct{})

	q := NewQueue("retry", func(ctx context.Context, task Task) error {
		mu.Lock()
		attempts = append(attempts, task.Attempt)
		count := len(attempts)
		mu.Unlock()
		if count == 1 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task{Kind: "flaky"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not retried")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1}, attempts)
}
