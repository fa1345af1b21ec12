// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispermap_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whispermap_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "whispermap_realtime_clients",
		Help: "Currently connected realtime clients.",
	})

	RealtimeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispermap_realtime_events_total",
			Help: "Events published to the realtime hub by kind.",
		},
		[]string{"kind"},
	)

	RealtimeDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispermap_realtime_dropped_total",
			Help: "Events dropped because the hub or a client queue was full.",
		},
		[]string{"reason"},
	)

	ReactionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispermap_reaction_mutations_total",
			Help: "Reaction add/remove/toggle requests by reaction type.",
		},
		[]string{"op", "type"},
	)
)
