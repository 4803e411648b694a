package tasks

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestEnqueueResumePurge(t *testing.T) {
	rec := &recordingEnqueuer{}
	q := &Queue{client: rec}

	require.NoError(t, q.EnqueueResumePurge(context.Background(), []string{"resumes/3/a.pdf", "resumes/4/b.pdf"}, "cid-1"))
	require.Len(t, rec.tasks, 1)
	assert.Equal(t, TypeResumePurge, rec.tasks[0].Type())

	payload, err := ParseResumePurgePayload(rec.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"resumes/3/a.pdf", "resumes/4/b.pdf"}, payload.ObjectKeys)
	assert.Equal(t, "cid-1", payload.CorrelationID)
}

func TestEnqueueResumePurgeSkipsEmpty(t *testing.T) {
	rec := &recordingEnqueuer{}
	q := &Queue{client: rec}

	require.NoError(t, q.EnqueueResumePurge(context.Background(), nil, "cid"))
	assert.Empty(t, rec.tasks)
}

func TestParseResumePurgePayloadRejectsGarbage(t *testing.T) {
	_, err := ParseResumePurgePayload(asynq.NewTask(TypeResumePurge, []byte("{")))
	assert.Error(t, err)
}
