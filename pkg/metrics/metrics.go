package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_http_requests_total",
			Help: "Toplam HTTP istek sayısı",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolhub_http_request_duration_seconds",
			Help:    "HTTP istek süresi (saniye)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_database_operations_total",
			Help: "Toplam veritabanı operasyonu sayısı",
		},
		[]string{"operation", "entity"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolhub_database_operation_duration_seconds",
			Help:    "Veritabanı operasyon süresi (saniye)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "entity"},
	)

	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_ratings_submitted_total",
			Help: "Gönderilen toplam değerlendirme sayısı",
		},
		[]string{"status"},
	)

	BookmarkOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_bookmark_operations_total",
			Help: "Yer imi işlemlerinin toplam sayısı",
		},
		[]string{"operation", "result"},
	)

	RecomputeQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "toolhub_recompute_queue_size",
			Help: "Ortalama yeniden hesaplama kuyruğundaki iş sayısı",
		},
	)

	RecomputeActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "toolhub_recompute_active_workers",
			Help: "Aktif yeniden hesaplama worker sayısı",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "toolhub_cache_hits_total",
			Help: "Önbellek isabet sayısı",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "toolhub_cache_misses_total",
			Help: "Önbellek isabet etmeme sayısı",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordDatabaseOperation(operation, entity string, duration time.Duration) {
	DatabaseOperationsTotal.WithLabelValues(operation, entity).Inc()
	DatabaseOperationDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
}

func RecordRatingSubmission(status string) {
	RatingsSubmitted.WithLabelValues(status).Inc()
}

func RecordBookmarkOperation(operation, result string) {
	BookmarkOperations.WithLabelValues(operation, result).Inc()
}

func UpdateRecomputeStats(queueSize, activeWorkers int) {
	RecomputeQueueSize.Set(float64(queueSize))
	RecomputeActiveWorkers.Set(float64(activeWorkers))
}

func RecordCacheHit() {
	CacheHits.Inc()
}

func RecordCacheMiss() {
	CacheMisses.Inc()
}
