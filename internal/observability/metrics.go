package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonic_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harmonic_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedCompositionLatency records how long assembling one viewer feed takes.
	FeedCompositionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harmonic_feed_composition_latency_seconds",
		Help:    "Feed composition latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FeedCacheRequests counts feed cache lookups by result (hit or miss).
	FeedCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonic_feed_cache_requests_total",
		Help: "Total feed cache lookups by result",
	}, []string{"result"})

	// FeedItemsSkipped counts malformed items dropped during composition.
	FeedItemsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harmonic_feed_items_skipped_total",
		Help: "Total malformed items skipped during feed composition",
	})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "harmonic_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonic_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonic_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// CoverProcessingLatency records cover upload processing time by format.
	CoverProcessingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harmonic_cover_processing_latency_seconds",
		Help:    "Cover image processing latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
)

// ObserveFeedComposition records one feed build started at start.
func ObserveFeedComposition(start time.Time, skipped int) {
	FeedCompositionLatency.Observe(time.Since(start).Seconds())
	if skipped > 0 {
		FeedItemsSkipped.Add(float64(skipped))
	}
}

// RecordFeedCacheHit increments the feed cache hit counter.
func RecordFeedCacheHit() { FeedCacheRequests.WithLabelValues("hit").Inc() }

// RecordFeedCacheMiss increments the feed cache miss counter.
func RecordFeedCacheMiss() { FeedCacheRequests.WithLabelValues("miss").Inc() }

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
