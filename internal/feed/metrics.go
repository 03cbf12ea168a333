package feed

import "github.com/prometheus/client_golang/prometheus"

// eventsDropped counts change events dropped because a subscriber's buffer
// was full, labeled by operation. Non-zero values mean the periodic snapshot
// refresh is covering for lost events.
var eventsDropped = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "feed_events_dropped_total",
		Help: "Total change feed events dropped due to full subscriber buffers.",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(eventsDropped)
}
