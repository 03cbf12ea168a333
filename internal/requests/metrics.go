// Package requests – Prometheus instrumentation for the synchronization core.
//
// Counters here make the core's consistency mechanics observable: how often
// snapshots are fetched, how many resolved stale and were dropped, how many
// realtime events were applied, and how the optimistic-create path behaves.
package requests

import "github.com/prometheus/client_golang/prometheus"

var (
	// snapshotFetches counts snapshot fetches issued by the cache store,
	// labeled by outcome (applied, superseded, error).
	snapshotFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_snapshot_fetches_total",
			Help: "Total snapshot fetches issued by the cache store.",
		},
		[]string{"outcome"},
	)

	// feedEventsApplied counts realtime change events applied to the merged
	// view, labeled by operation.
	feedEventsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_feed_events_applied_total",
			Help: "Total realtime change events applied to the merged view.",
		},
		[]string{"op"},
	)

	// optimisticCreates counts optimistic request insertions, labeled by
	// outcome (confirmed, rolled_back).
	optimisticCreates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_optimistic_creates_total",
			Help: "Total optimistic request creations by outcome.",
		},
		[]string{"outcome"},
	)

	// newRequestNotifications counts "new request" notifications, labeled by
	// whether they were delivered or suppressed as the actor's own echo.
	newRequestNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_new_request_notifications_total",
			Help: "Total new-request notifications by delivery outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		snapshotFetches,
		feedEventsApplied,
		optimisticCreates,
		newRequestNotifications,
	)
}
