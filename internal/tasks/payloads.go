package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names shared by producers and the worker.
const (
	TypeResumePurge = "resume:purge"
)

// ResumePurgePayload lists resume objects whose applications are gone.
type ResumePurgePayload struct {
	ObjectKeys    []string `json:"object_keys"`
	CorrelationID string   `json:"correlation_id"`
}

// NewResumePurgeTask builds a purge task for keys.
func NewResumePurgeTask(keys []string, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResumePurgePayload{
		ObjectKeys:    keys,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResumePurge, payload, asynq.MaxRetry(10)), nil
}

// ParseResumePurgePayload decodes a purge task.
func ParseResumePurgePayload(task *asynq.Task) (ResumePurgePayload, error) {
	var payload ResumePurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	return payload, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue enqueues background work on asynq.
type Queue struct {
	client enqueuer
}

func NewQueue(client *asynq.Client) *Queue {
	return &Queue{client: client}
}

// EnqueueResumePurge schedules deletion of keys. An empty list is a no-op.
func (q *Queue) EnqueueResumePurge(ctx context.Context, keys []string, correlationID string) error {
	if len(keys) == 0 {
		return nil
	}
	task, err := NewResumePurgeTask(keys, correlationID)
	if err != nil {
		return fmt.Errorf("build purge task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue purge task: %w", err)
	}
	return nil
}
