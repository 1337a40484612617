// Package metrics registers the prometheus collectors exposed by the
// server's side HTTP listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "whisperstream_connections_active",
		Help: "Currently connected clients (0 or 1)",
	})

	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whisperstream_connections_total",
		Help: "Total client connections accepted",
	})

	CommitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whisperstream_commits_total",
		Help: "Total transcript segments committed",
	})

	TrimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whisperstream_trims_total",
		Help: "Total audio/hypothesis buffer trims at completed segment boundaries",
	})

	RecognizerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whisperstream_recognizer_duration_seconds",
		Help:    "Recognizer Transcribe call latency",
		Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.0, 2.0, 5.0},
	}, []string{"backend"})

	RecognizerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whisperstream_recognizer_errors_total",
		Help: "Recognizer Transcribe call failures",
	}, []string{"backend"})

	BytesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whisperstream_bytes_received_total",
		Help: "Total decoded audio bytes received from clients",
	})
)
