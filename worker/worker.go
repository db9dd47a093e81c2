// Package worker drains the ingest queue with a supervised pool. Failures are
// recorded against the task, never propagated to the request that queued it.
package worker

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"go.uber.org/zap"
)

// dequeueWait is how long one poll blocks before looping back to check stop.
const dequeueWait = 5 * time.Second

// Ingester runs the full ingestion chain for one media file.
type Ingester interface {
	Ingest(ctx context.Context, filePath, publicURL string) error
}

// TaskSource is the queue surface the pool needs.
type TaskSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.IngestTask, error)
	SetTaskStatus(ctx context.Context, taskID, status string) error
	StoreTaskResult(ctx context.Context, taskID string, result map[string]any) error
}

// Worker is a pool of goroutines processing ingest tasks.
type Worker struct {
	source     TaskSource
	ingester   Ingester
	numWorkers int
	logger     *zap.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(source TaskSource, ingester Ingester, numWorkers int, logger *zap.Logger) *Worker {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	return &Worker{
		source:     source,
		ingester:   ingester,
		numWorkers: numWorkers,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the pool. Workers run until Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting ingest workers", zap.Int("count", w.numWorkers))
	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

// Stop signals the pool and waits for in-flight tasks to drain.
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("all ingest workers stopped")
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))
	log.Info("worker started")

	for {
		select {
		case <-w.stopChan:
			log.Info("worker stopped")
			return
		case <-ctx.Done():
			log.Info("worker context cancelled")
			return
		default:
			task, err := w.source.Dequeue(ctx, dequeueWait)
			if err != nil {
				log.Error("dequeue failed", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if task == nil {
				continue
			}
			w.process(ctx, log, task)
		}
	}
}

func (w *Worker) process(ctx context.Context, log *zap.Logger, task *queue.IngestTask) {
	log.Info("processing ingest task",
		zap.String("task_id", task.TaskID),
		zap.String("file", task.FilePath))

	if err := w.source.SetTaskStatus(ctx, task.TaskID, queue.StatusProcessing); err != nil {
		log.Error("failed to update task status", zap.Error(err))
	}

	err := w.ingester.Ingest(ctx, task.FilePath, task.PublicURL)
	if task.RemoveLocal {
		if rmErr := os.Remove(task.FilePath); rmErr != nil {
			log.Warn("failed to remove local copy", zap.Error(rmErr))
		}
	}
	if err != nil {
		log.Error("ingest failed",
			zap.String("task_id", task.TaskID),
			zap.Error(err))
		w.finish(ctx, log, task.TaskID, queue.StatusFailed, map[string]any{"error": err.Error()})
		return
	}

	w.finish(ctx, log, task.TaskID, queue.StatusCompleted, map[string]any{
		"file_path": task.FilePath,
		"url":       task.PublicURL,
	})
}

func (w *Worker) finish(ctx context.Context, log *zap.Logger, taskID, status string, result map[string]any) {
	if err := w.source.SetTaskStatus(ctx, taskID, status); err != nil {
		log.Error("failed to update task status", zap.Error(err))
	}
	if err := w.source.StoreTaskResult(ctx, taskID, result); err != nil {
		log.Error("failed to store task result", zap.Error(err))
	}
}
