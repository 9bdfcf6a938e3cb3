// Package metrics provides Prometheus instrumentation for the merechat
// client. It exposes counters for frame and message throughput, gauges for
// in-flight state, and a histogram for history fetch latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReconnectsTotal counts scheduled gateway reconnect attempts.
	ReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "merechat_reconnects_total",
		Help: "Total number of scheduled gateway reconnect attempts",
	})

	// FramesReceived counts raw frames read from the gateway socket.
	FramesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "merechat_frames_received_total",
		Help: "Total number of WebSocket frames received from the gateway",
	})

	// FramesDropped counts inbound frames discarded as malformed or of an
	// unknown type.
	FramesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "merechat_frames_dropped_total",
		Help: "Total number of inbound frames dropped (malformed or unknown type)",
	})

	// MessagesTotal counts chat messages, labeled by path: "sent_ws",
	// "sent_rest", "received", or "duplicate".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "merechat_messages_total",
		Help: "Total number of chat messages processed",
	}, []string{"path"})

	// PendingMessages tracks optimistic messages awaiting gateway
	// confirmation.
	PendingMessages = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "merechat_pending_messages",
		Help: "Current number of optimistic messages awaiting confirmation",
	})

	// HistoryFetchSeconds records history page fetch latency in seconds.
	HistoryFetchSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "merechat_history_fetch_seconds",
		Help:    "History page fetch latency in seconds",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})
)

func init() {
	prometheus.MustRegister(
		ReconnectsTotal,
		FramesReceived,
		FramesDropped,
		MessagesTotal,
		PendingMessages,
		HistoryFetchSeconds,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
