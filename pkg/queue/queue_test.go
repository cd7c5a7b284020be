package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruberanziza1/alx-project-nexus/pkg/queue"
)

var (
	handled  atomic.Int32
	failures atomic.Int32
)

type countJob struct {
	Val string `json:"val"`
}

func (j *countJob) Handle() error {
	handled.Add(1)
	return nil
}

type alwaysFailJob struct{}

func (j *alwaysFailJob) Handle() error {
	failures.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.Register("*queue_test.countJob", func() queue.Job { return &countJob{} })
	queue.Register("*queue_test.alwaysFailJob", func() queue.Job { return &alwaysFailJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatchAndProcess(t *testing.T) {
	before := handled.Load()
	require.NoError(t, queue.Dispatch(&countJob{Val: "hello"}))
	waitFor(t, func() bool { return handled.Load() > before })
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	before := failures.Load()
	require.NoError(t, queue.Dispatch(&alwaysFailJob{}))

	// SetMaxRetry(1) means a single attempt before the job is parked.
	waitFor(t, func() bool { return failures.Load() >= before+1 })
	waitFor(t, func() bool { return len(queue.FailedJobs()) > 0 })
}

func TestDispatchConcurrent(t *testing.T) {
	before := handled.Load()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, queue.Dispatch(&countJob{Val: "c"}))
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return handled.Load() >= before+20 })
}
