package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueueRunsSubmittedTasks(t *testing.T) {
	q := NewQueue(8, 1, zap.NewNop())
	done := make(chan struct{})

	q.Submit("ping", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	q.Close()
}

func TestQueueRetriesFailedTaskOnce(t *testing.T) {
	q := NewQueue(8, 1, zap.NewNop())
	var calls atomic.Int32

	q.Submit("flaky", func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("first attempt fails")
		}
		return nil
	})
	q.Close()

	require.Equal(t, int32(2), calls.Load())
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(1, 1, zap.NewNop())
	block := make(chan struct{})
	q.Submit("blocker", func(ctx context.Context) error {
		<-block
		return nil
	})

	// Fill the buffer, then one more that must be dropped without blocking.
	q.Submit("buffered", func(ctx context.Context) error { return nil })
	doneFast := make(chan struct{})
	go func() {
		q.Submit("dropped", func(ctx context.Context) error { return nil })
		close(doneFast)
	}()
	select {
	case <-doneFast:
	case <-time.After(time.Second):
		t.Fatal("submit blocked on full queue")
	}

	close(block)
	q.Close()
}
