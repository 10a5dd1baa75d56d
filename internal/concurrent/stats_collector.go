package concurrent

import (
	"sync"
	"sync/atomic"
	"time"
)

// RecomputeStats is a point-in-time snapshot of the pool's work:
// how many recomputes were enqueued, how many ran, and how long they take.
type RecomputeStats struct {
	Enqueued         int64
	Recomputed       int64
	Failed           int64
	QueueFull        int64
	AvgRecomputeTime time.Duration
}

type recomputeStatsCollector struct {
	enqueued   int64
	recomputed int64
	failed     int64
	queueFull  int64

	mutex     sync.Mutex
	totalTime time.Duration
	samples   int64
}

func newRecomputeStatsCollector() *recomputeStatsCollector {
	return &recomputeStatsCollector{}
}

func (sc *recomputeStatsCollector) markEnqueued() {
	atomic.AddInt64(&sc.enqueued, 1)
}

func (sc *recomputeStatsCollector) markQueueFull() {
	atomic.AddInt64(&sc.queueFull, 1)
}

func (sc *recomputeStatsCollector) markFailed() {
	atomic.AddInt64(&sc.failed, 1)
}

func (sc *recomputeStatsCollector) markRecomputed(d time.Duration) {
	atomic.AddInt64(&sc.recomputed, 1)

	sc.mutex.Lock()
	sc.totalTime += d
	sc.samples++
	sc.mutex.Unlock()
}

func (sc *recomputeStatsCollector) snapshot() RecomputeStats {
	sc.mutex.Lock()
	totalTime, samples := sc.totalTime, sc.samples
	sc.mutex.Unlock()

	stats := RecomputeStats{
		Enqueued:   atomic.LoadInt64(&sc.enqueued),
		Recomputed: atomic.LoadInt64(&sc.recomputed),
		Failed:     atomic.LoadInt64(&sc.failed),
		QueueFull:  atomic.LoadInt64(&sc.queueFull),
	}

	if samples > 0 {
		stats.AvgRecomputeTime = totalTime / time.Duration(samples)
	}

	return stats
}
