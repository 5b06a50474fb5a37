package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	require.NoError(t, q.Enqueue(Job{ID: "b"}))

	got := []string{<-done, <-done}
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "x"}))
}

func TestQueueCancelRunningJob(t *testing.T) {
	started := make(chan struct{})
	result := make(chan error, 1)
	q := NewQueue("cancel", func(ctx context.Context, job Job) error {
		close(started)
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	<-started
	assert.True(t, q.Cancel("job-1"))

	select {
	case err := <-result:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("handler did not observe cancellation")
	}
}

func TestQueueCancelQueuedJob(t *testing.T) {
	release := make(chan struct{})
	results := make(chan error, 2)
	q := NewQueue("queued", func(ctx context.Context, job Job) error {
		if job.ID == "blocker" {
			<-release
			results <- nil
			return nil
		}
		results <- ctx.Err()
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "blocker"}))
	require.NoError(t, q.Enqueue(Job{ID: "later"}))
	assert.False(t, q.Cancel("later"))
	close(release)

	assert.NoError(t, <-results)
	assert.ErrorIs(t, <-results, context.Canceled)
}

func TestQueueFull(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(release)
		q.Stop()
	}()

	var err error
	for i := 0; i < 5 && err == nil; i++ {
		err = q.Enqueue(Job{ID: string(rune('a' + i))})
	}
	assert.ErrorIs(t, err, ErrQueueFull)
}
