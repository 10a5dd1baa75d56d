package concurrent

import (
	"context"
	"sync"
	"time"

	"toolhub/pkg/logger"
	"toolhub/pkg/metrics"
)

// RecomputeFunc re-reads a tool's ratings and writes the fresh average.
type RecomputeFunc = func(toolID int64) error

// SweepFunc lists the tool ids a periodic sweep should recompute.
type SweepFunc = func() ([]int64, error)

// RecomputePool runs aggregate recomputation in the background. Ratings
// normally update the average inline; the pool exists for the failure
// path (a rating was saved but the aggregate write failed) and for the
// periodic sweep that heals any drift. A tool id already waiting in the
// queue is not enqueued twice.
type RecomputePool struct {
	numWorkers    int
	jobQueue      chan int64
	recompute     RecomputeFunc
	sweep         SweepFunc
	sweepInterval time.Duration
	pending       map[int64]struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	logger        logger.Logger
	started       bool
	mutex         sync.Mutex
	stats         *recomputeStatsCollector
}

func NewRecomputePool(numWorkers int, queueSize int, recompute RecomputeFunc, sweep SweepFunc, sweepInterval time.Duration, logger logger.Logger) *RecomputePool {
	ctx, cancel := context.WithCancel(context.Background())

	return &RecomputePool{
		numWorkers:    numWorkers,
		jobQueue:      make(chan int64, queueSize),
		recompute:     recompute,
		sweep:         sweep,
		sweepInterval: sweepInterval,
		pending:       make(map[int64]struct{}),
		ctx:           ctx,
		cancel:        cancel,
		logger:        logger,
		started:       false,
		stats:         newRecomputeStatsCollector(),
	}
}

func (rp *RecomputePool) Start() {
	rp.mutex.Lock()
	defer rp.mutex.Unlock()

	if rp.started {
		return
	}

	rp.logger.Info("Yeniden hesaplama havuzu başlatılıyor", map[string]interface{}{
		"num_workers":    rp.numWorkers,
		"queue_size":     cap(rp.jobQueue),
		"sweep_interval": rp.sweepInterval.String(),
	})

	for i := 0; i < rp.numWorkers; i++ {
		rp.wg.Add(1)
		workerID := i
		go func() {
			defer rp.wg.Done()
			rp.worker(workerID)
		}()
	}

	if rp.sweep != nil && rp.sweepInterval > 0 {
		rp.wg.Add(1)
		go func() {
			defer rp.wg.Done()
			rp.sweeper()
		}()
	}

	metrics.UpdateRecomputeStats(0, rp.numWorkers)
	rp.started = true
}

func (rp *RecomputePool) Stop() {
	rp.mutex.Lock()
	if !rp.started {
		rp.mutex.Unlock()
		return
	}
	rp.started = false
	rp.mutex.Unlock()

	rp.logger.Info("Yeniden hesaplama havuzu durduruluyor", map[string]interface{}{})
	// The queue is never closed; workers and the sweeper exit through the
	// context, so a late Enqueue can never hit a closed channel.
	rp.cancel()
	rp.wg.Wait()
	metrics.UpdateRecomputeStats(0, 0)
}

// Enqueue queues a tool for recomputation without blocking. A full queue
// or a duplicate id returns false; the periodic sweep covers both cases.
func (rp *RecomputePool) Enqueue(toolID int64) bool {
	rp.mutex.Lock()
	if !rp.started {
		rp.mutex.Unlock()
		return false
	}
	if _, waiting := rp.pending[toolID]; waiting {
		rp.mutex.Unlock()
		return false
	}
	// Workers delete the pending entry on receive, so it must exist
	// before the send; a failed send rolls it back below.
	rp.pending[toolID] = struct{}{}
	rp.mutex.Unlock()

	// Non-blocking send
	select {
	case rp.jobQueue <- toolID:
		rp.stats.markEnqueued()
		metrics.UpdateRecomputeStats(len(rp.jobQueue), rp.numWorkers)
		rp.logger.Info("Araç yeniden hesaplama kuyruğuna eklendi", map[string]interface{}{
			"tool_id": toolID,
		})
		return true
	default:
		rp.mutex.Lock()
		delete(rp.pending, toolID)
		rp.mutex.Unlock()

		rp.stats.markQueueFull()
		rp.logger.Warn("Yeniden hesaplama kuyruğu dolu", map[string]interface{}{
			"tool_id": toolID,
		})
		return false
	}
}

func (rp *RecomputePool) worker(id int) {
	rp.logger.Info("İşçi başlatıldı", map[string]interface{}{"worker_id": id})

	for {
		select {
		case <-rp.ctx.Done():
			rp.logger.Info("İşçi durduruldu", map[string]interface{}{"worker_id": id})
			return
		case toolID, ok := <-rp.jobQueue:
			if !ok {
				rp.logger.Info("Kuyruk kapatıldı, işçi durduruluyor", map[string]interface{}{"worker_id": id})
				return
			}

			rp.mutex.Lock()
			delete(rp.pending, toolID)
			rp.mutex.Unlock()

			startTime := time.Now()
			err := rp.recompute(toolID)
			processingTime := time.Since(startTime)

			if err != nil {
				rp.stats.markFailed()
				rp.logger.Error("Ortalama yeniden hesaplanamadı", map[string]interface{}{
					"worker_id":       id,
					"tool_id":         toolID,
					"error":           err.Error(),
					"processing_time": processingTime.String(),
				})
			} else {
				rp.stats.markRecomputed(processingTime)
				rp.logger.Info("Ortalama yeniden hesaplandı", map[string]interface{}{
					"worker_id":       id,
					"tool_id":         toolID,
					"processing_time": processingTime.String(),
				})
			}

			metrics.UpdateRecomputeStats(len(rp.jobQueue), rp.numWorkers)
		}
	}
}

func (rp *RecomputePool) sweeper() {
	ticker := time.NewTicker(rp.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rp.ctx.Done():
			return
		case <-ticker.C:
			toolIDs, err := rp.sweep()
			if err != nil {
				rp.logger.Error("Sweep listesi alınamadı", map[string]interface{}{"error": err.Error()})
				continue
			}

			for _, id := range toolIDs {
				rp.Enqueue(id)
			}

			rp.logger.Info("Sweep tamamlandı", map[string]interface{}{"tool_count": len(toolIDs)})
		}
	}
}

func (rp *RecomputePool) GetStats() RecomputeStats {
	return rp.stats.snapshot()
}

func (rp *RecomputePool) QueueLength() int {
	return len(rp.jobQueue)
}

func (rp *RecomputePool) QueueCapacity() int {
	return cap(rp.jobQueue)
}
