package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

// Task represents a unit of work to be processed by the worker pool
type Task func(ctx context.Context) error

// WorkerPool manages concurrent processing of tasks
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.RWMutex
	logger      *slog.Logger
}

// NewWorkerPool creates a pool with the given number of workers and queue size
func NewWorkerPool(workerCount, queueSize int, logger *slog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < workerCount {
		queueSize = workerCount * 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("worker pool started", "workers", wp.workerCount)
}

// Submit queues a task, blocking while the queue is full until ctx ends.
func (wp *WorkerPool) Submit(ctx context.Context, task Task) error {
	wp.closeMux.RLock()
	defer wp.closeMux.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.taskQueue <- task:
		return nil
	case <-wp.ctx.Done():
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops accepting tasks and blocks until queued tasks complete
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue) // No more tasks
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.logger.Info("worker pool drained")
}

// Shutdown cancels running tasks and waits for the workers to exit
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		select {
		case <-wp.ctx.Done():
			wp.logger.Warn("worker cancelled, dropping queued task", "worker", id)
			continue
		default:
		}

		if err := task(wp.ctx); err != nil {
			wp.logger.Error("task failed", "worker", id, "error", err)
		}
	}
}
