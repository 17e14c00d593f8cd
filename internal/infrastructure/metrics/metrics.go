// Package metrics holds the domain-level Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP collectors fed by the request middleware
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being served",
	})
)

var (
	// UpstreamErrors counts failed calls to external data sources
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of failed upstream requests",
		},
		[]string{"source"},
	)

	// UpstreamLatency observes external request durations
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	PortfolioFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_fetches_total",
		Help: "Total number of portfolio fetches",
	})

	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_submitted_total",
		Help: "Total number of ratings stored",
	})

	ReactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactions_submitted_total",
			Help: "Total number of reactions stored",
		},
		[]string{"emoji"},
	)

	// NFTMints counts mint attempts by result: success, failed, rejected
	NFTMints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nft_mints_total",
			Help: "Total number of mint attempts",
		},
		[]string{"result"},
	)

	FrameActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frame_actions_total",
			Help: "Total number of frame button presses",
		},
		[]string{"button"},
	)

	// RealtimeClients tracks open websocket feeds
	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_clients",
		Help: "Number of connected realtime clients",
	})
)
