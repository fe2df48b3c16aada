package common

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobQueueRunsJobsInOrder(t *testing.T) {
	queue := NewJobQueue(4, NewConsoleLogger(io.Discard))
	results := make(chan int, 3)

	for i := 1; i <= 3; i++ {
		i := i
		assert.True(t, queue.TryEnqueue("job", func() error {
			results <- i
			if i == 2 {
				return errors.New("failing jobs don't stop the queue")
			}
			return nil
		}))
	}

	assert.Equal(t, 1, <-results)
	assert.Equal(t, 2, <-results)
	assert.Equal(t, 3, <-results)
	queue.Stop()
}

func TestJobQueueRejectsWhenFull(t *testing.T) {
	queue := NewJobQueue(1, NewConsoleLogger(io.Discard))
	started := make(chan struct{})
	release := make(chan struct{})
	assert.True(t, queue.TryEnqueue("blocking", func() error {
		close(started)
		<-release
		return nil
	}))
	<-started

	assert.True(t, queue.TryEnqueue("queued", func() error { return nil }))
	assert.False(t, queue.TryEnqueue("rejected", func() error { return nil }))

	close(release)
	queue.Stop()
}
