package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	pollCyclesTotal       *prometheus.CounterVec
	pollLatencySeconds    *prometheus.HistogramVec
	staleDropsTotal       prometheus.Counter
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the poller.
func RegisterMetrics() {
	registerOnce.Do(func() {
		pollCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poll_cycles_total",
			Help: "Total number of poll cycles run, by trigger and outcome.",
		}, []string{"trigger", "outcome"})

		pollLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poll_latency_seconds",
			Help:    "Latency distribution for check-list fetches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"trigger"})

		staleDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poll_stale_responses_dropped_total",
			Help: "Responses discarded because a newer fetch already applied.",
		})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agent_requests_total",
			Help: "Total number of local dashboard API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agent_request_latency_seconds",
			Help:    "Latency distribution for local dashboard API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(pollCyclesTotal, pollLatencySeconds, staleDropsTotal, requestsTotal, requestLatencySeconds)
	})
}

// Requests exposes the counter for local API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for local API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// PollCycles exposes the counter for completed poll cycles.
func PollCycles() *prometheus.CounterVec {
	RegisterMetrics()
	return pollCyclesTotal
}

// PollLatency exposes the latency histogram for check-list fetches.
func PollLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return pollLatencySeconds
}

// StaleDrops exposes the counter for discarded stale responses.
func StaleDrops() prometheus.Counter {
	RegisterMetrics()
	return staleDropsTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
