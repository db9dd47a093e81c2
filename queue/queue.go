// Package queue is the Redis-backed ingest task queue. Each task also gets a
// status key and a result key so the process can observe detached work.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IngestQueue is the list key worker pools drain.
const IngestQueue = "media_ingest"

// Task lifecycle states.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// taskTTL bounds how long status/result keys linger.
const taskTTL = 24 * time.Hour

// IngestTask describes one detached ingestion.
type IngestTask struct {
	TaskID    string    `json:"task_id"`
	FilePath  string    `json:"file_path"`
	PublicURL string    `json:"public_url"`
	UserID    string    `json:"user_id"`
	Created   time.Time `json:"created"`
	// RemoveLocal tells the worker to delete FilePath once the asset has
	// been processed; set when the durable copy lives in object storage.
	RemoveLocal bool `json:"remove_local"`
}

// Queue wraps the Redis client.
type Queue struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &Queue{client: client}, nil
}

// Close releases the Redis connection.
func (q *Queue) Close() error {
	return q.client.Close()
}

// Enqueue pushes a task and marks it queued. Returns the assigned task id.
func (q *Queue) Enqueue(ctx context.Context, task IngestTask) (string, error) {
	task.TaskID = uuid.NewString()
	task.Created = time.Now()

	data, err := json.Marshal(task)
	if err != nil {
		return "", err
	}
	if err := q.client.RPush(ctx, IngestQueue, data).Err(); err != nil {
		return "", fmt.Errorf("enqueue: %w", err)
	}
	if err := q.SetTaskStatus(ctx, task.TaskID, StatusQueued); err != nil {
		return "", err
	}
	return task.TaskID, nil
}

// Dequeue blocks up to timeout for the next task. Returns (nil, nil) when the
// queue stays empty.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*IngestTask, error) {
	result, err := q.client.BLPop(ctx, timeout, IngestQueue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, errors.New("invalid result format from redis")
	}

	var task IngestTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTaskStatus records the task's lifecycle state.
func (q *Queue) SetTaskStatus(ctx context.Context, taskID, status string) error {
	return q.client.Set(ctx, statusKey(taskID), status, taskTTL).Err()
}

// GetTaskStatus returns "unknown" for ids Redis has never seen or expired.
func (q *Queue) GetTaskStatus(ctx context.Context, taskID string) (string, error) {
	status, err := q.client.Get(ctx, statusKey(taskID)).Result()
	if errors.Is(err, redis.Nil) {
		return "unknown", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// StoreTaskResult keeps the outcome of a completed or failed task.
func (q *Queue) StoreTaskResult(ctx context.Context, taskID string, result map[string]any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return q.client.Set(ctx, resultKey(taskID), data, taskTTL).Err()
}

// GetTaskResult returns (nil, nil) when no result was stored.
func (q *Queue) GetTaskResult(ctx context.Context, taskID string) (map[string]any, error) {
	data, err := q.client.Get(ctx, resultKey(taskID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func statusKey(taskID string) string { return fmt.Sprintf("task:%s:status", taskID) }
func resultKey(taskID string) string { return fmt.Sprintf("task:%s:result", taskID) }
