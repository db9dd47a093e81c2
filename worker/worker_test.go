package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"go.uber.org/zap"
)

// memorySource is an in-memory TaskSource for driving the pool in tests.
type memorySource struct {
	mu       sync.Mutex
	tasks    []*queue.IngestTask
	statuses map[string][]string
	results  map[string]map[string]any
}

func newMemorySource(tasks ...*queue.IngestTask) *memorySource {
	return &memorySource{
		tasks:    tasks,
		statuses: make(map[string][]string),
		results:  make(map[string]map[string]any),
	}
}

func (m *memorySource) Dequeue(_ context.Context, _ time.Duration) (*queue.IngestTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		time.Sleep(5 * time.Millisecond)
		return nil, nil
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	return task, nil
}

func (m *memorySource) SetTaskStatus(_ context.Context, taskID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[taskID] = append(m.statuses[taskID], status)
	return nil
}

func (m *memorySource) StoreTaskResult(_ context.Context, taskID string, result map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[taskID] = result
	return nil
}

func (m *memorySource) statusHistory(taskID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.statuses[taskID]...)
}

func (m *memorySource) result(taskID string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[taskID]
}

type recordingIngester struct {
	mu    sync.Mutex
	calls []string
	err   error
	done  chan struct{}
}

func (r *recordingIngester) Ingest(_ context.Context, filePath, _ string) error {
	r.mu.Lock()
	r.calls = append(r.calls, filePath)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return r.err
}

func waitFor(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for task processing")
	}
}

func TestWorkerProcessesTaskToCompletion(t *testing.T) {
	source := newMemorySource(&queue.IngestTask{
		TaskID:    "t1",
		FilePath:  "/tmp/clip.wav",
		PublicURL: "http://assets/clip.wav",
	})
	ingester := &recordingIngester{done: make(chan struct{})}

	pool := New(source, ingester, 1, zap.NewNop())
	pool.Start(context.Background())
	waitFor(t, ingester.done)
	pool.Stop()

	history := source.statusHistory("t1")
	if len(history) < 2 || history[0] != queue.StatusProcessing || history[len(history)-1] != queue.StatusCompleted {
		t.Errorf("status history: got %v", history)
	}
	result := source.result("t1")
	if result["url"] != "http://assets/clip.wav" {
		t.Errorf("result: got %v", result)
	}
}

func TestWorkerRecordsFailureWithoutPropagating(t *testing.T) {
	source := newMemorySource(&queue.IngestTask{TaskID: "t2", FilePath: "/tmp/bad.mp3"})
	ingester := &recordingIngester{err: errors.New("upstream exploded"), done: make(chan struct{})}

	pool := New(source, ingester, 2, zap.NewNop())
	pool.Start(context.Background())
	waitFor(t, ingester.done)
	pool.Stop()

	history := source.statusHistory("t2")
	if len(history) == 0 || history[len(history)-1] != queue.StatusFailed {
		t.Errorf("status history: got %v", history)
	}
	result := source.result("t2")
	if result["error"] != "upstream exploded" {
		t.Errorf("result: got %v", result)
	}
}

func TestWorkerStopDrains(t *testing.T) {
	source := newMemorySource()
	ingester := &recordingIngester{}

	pool := New(source, ingester, 3, zap.NewNop())
	pool.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
