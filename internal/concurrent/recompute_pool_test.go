package concurrent

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", io.Discard)
}

func TestRecomputePoolProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	processed := make(map[int64]int)

	pool := NewRecomputePool(2, 10, func(toolID int64) error {
		mu.Lock()
		processed[toolID]++
		mu.Unlock()
		return nil
	}, nil, 0, testLogger())

	pool.Start()

	for id := int64(1); id <= 5; id++ {
		assert.True(t, pool.Enqueue(id))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(processed) == 5
	}, 2*time.Second, 10*time.Millisecond)

	pool.Stop()

	stats := pool.GetStats()
	assert.Equal(t, int64(5), stats.Enqueued)
	assert.Equal(t, int64(5), stats.Recomputed)
	assert.Zero(t, stats.Failed)
}

func TestRecomputePoolRejectsWhenStopped(t *testing.T) {
	pool := NewRecomputePool(1, 1, func(int64) error { return nil }, nil, 0, testLogger())

	assert.False(t, pool.Enqueue(1))

	pool.Start()
	pool.Stop()

	assert.False(t, pool.Enqueue(1))
}

func TestRecomputePoolCountsFailures(t *testing.T) {
	var calls int64

	pool := NewRecomputePool(1, 10, func(int64) error {
		atomic.AddInt64(&calls, 1)
		return assert.AnError
	}, nil, 0, testLogger())

	pool.Start()
	assert.True(t, pool.Enqueue(7))

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	pool.Stop()

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.Failed)
	assert.Zero(t, stats.Recomputed)
}

func TestRecomputePoolSweepEnqueues(t *testing.T) {
	var mu sync.Mutex
	processed := make(map[int64]bool)

	sweep := func() ([]int64, error) {
		return []int64{11, 12}, nil
	}

	pool := NewRecomputePool(1, 10, func(toolID int64) error {
		mu.Lock()
		processed[toolID] = true
		mu.Unlock()
		return nil
	}, sweep, 20*time.Millisecond, testLogger())

	pool.Start()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return processed[11] && processed[12]
	}, 2*time.Second, 10*time.Millisecond)

	pool.Stop()
}

func TestRecomputePoolFullQueueDoesNotStrandTool(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	processed := make(map[int64]int)

	pool := NewRecomputePool(1, 1, func(toolID int64) error {
		<-release
		mu.Lock()
		processed[toolID]++
		mu.Unlock()
		return nil
	}, nil, 0, testLogger())

	pool.Start()

	// First job occupies the single worker, second fills the queue.
	require.True(t, pool.Enqueue(1))
	require.Eventually(t, func() bool {
		return pool.QueueLength() == 0
	}, 2*time.Second, time.Millisecond)
	require.True(t, pool.Enqueue(2))

	// A queued id stays deduplicated, a rejected one must not.
	assert.False(t, pool.Enqueue(2))
	assert.False(t, pool.Enqueue(3))

	close(release)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return processed[1] == 1 && processed[2] == 1
	}, 2*time.Second, time.Millisecond)

	assert.True(t, pool.Enqueue(3))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return processed[3] == 1
	}, 2*time.Second, time.Millisecond)

	pool.Stop()

	stats := pool.GetStats()
	assert.Equal(t, int64(3), stats.Enqueued)
	assert.Equal(t, int64(1), stats.QueueFull)
}

func TestRecomputePoolRepeatedEnqueueSameTool(t *testing.T) {
	var count int64

	pool := NewRecomputePool(4, 16, func(int64) error {
		atomic.AddInt64(&count, 1)
		return nil
	}, nil, 0, testLogger())

	pool.Start()
	defer pool.Stop()

	// Each round the id must become enqueueable again once a worker
	// picks it up; a stranded pending entry would stall a round.
	for i := 0; i < 1000; i++ {
		require.Eventually(t, func() bool {
			return pool.Enqueue(42)
		}, 2*time.Second, 100*time.Microsecond)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 1000
	}, 2*time.Second, time.Millisecond)
}
