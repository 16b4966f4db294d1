package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job{ID: "job-1"})
	require.Error(t, err)
}

func TestQueueProcessesJobs(t *testing.T) {
	processed := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		processed <- job
		return nil
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Type: "noop"}))

	select {
	case job := <-processed:
		assert.Equal(t, "job-1", job.ID)
		assert.False(t, job.Enqueued.IsZero(), "enqueue stamps the job")
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	assert.Equal(t, 0, q.Depth(), "buffer drains once the worker picks the job up")
}
