// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shayarihub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrors counts Redis failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// SearchRequests counts searches by sort mode and whether free text was given.
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_search_requests_total",
		Help: "Search requests by sort mode",
	}, []string{"sort", "has_query"})

	// SearchSuggestionsServed counts searches that returned did-you-mean titles.
	SearchSuggestionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shayarihub_search_suggestions_served_total",
		Help: "Searches that returned at least one suggestion",
	})

	// TypeaheadLookups counts autocomplete lookups by kind and cache outcome.
	TypeaheadLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_typeahead_lookups_total",
		Help: "Autocomplete lookups by kind and cache result",
	}, []string{"kind", "cache"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_like_toggles_total",
		Help: "Like toggles by resulting state",
	}, []string{"result"})

	// ModerationActions counts completed admin actions.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_moderation_actions_total",
		Help: "Completed moderation actions by type",
	}, []string{"action"})

	// AuthEvents counts registrations, logins and logouts.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_auth_events_total",
		Help: "Authentication events by type",
	}, []string{"event"})

	// WebSocketConnections is the number of open notification sockets.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shayarihub_websocket_connections",
		Help: "Number of active notification WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client was slow.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shayarihub_websocket_backpressure_drops_total",
		Help: "WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// TrackQuery returns a function that records query latency when called,
// typically deferred.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
