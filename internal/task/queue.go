// Package task runs background side effects (notification delivery, media
// generation) off the request path. Failures are logged and retried once,
// never propagated to the request that queued them.
package task

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// Queue is a buffered background worker. Submit never blocks the caller
// beyond the buffer; a full buffer drops the task with a log line rather
// than stalling a request.
type Queue struct {
	jobs   chan job
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewQueue(buffer, workers int, logger *zap.Logger) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	if workers <= 0 {
		workers = 1
	}
	q := &Queue{jobs: make(chan job, buffer), logger: logger}
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}
	return q
}

// Submit queues fn for background execution.
func (q *Queue) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case q.jobs <- job{name: name, fn: fn}:
	default:
		q.logger.Warn("task queue full, dropping task", zap.String("task", name))
	}
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (q *Queue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for j := range q.jobs {
		ctx := context.Background()
		err := j.fn(ctx)
		if err != nil {
			q.logger.Warn("background task failed, retrying once",
				zap.String("task", j.name), zap.Error(err))
			err = j.fn(ctx)
		}
		if err != nil {
			q.logger.Error("background task failed after retry",
				zap.String("task", j.name), zap.Error(err))
		}
	}
}
