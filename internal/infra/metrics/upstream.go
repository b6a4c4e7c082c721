package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(upstreamRequestsTotal, upstreamLatencyMs)
}

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests to exchange venues by venue, endpoint and success.",
		},
		[]string{"venue", "endpoint", "success"},
	)

	upstreamLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_ms",
			Help:    "Exchange venue request latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"venue", "endpoint"},
	)
)

func ObserveUpstream(venue, endpoint string, elapsed time.Duration, success bool) {
	upstreamRequestsTotal.WithLabelValues(norm(venue), norm(endpoint), strconv.FormatBool(success)).Inc()
	upstreamLatencyMs.WithLabelValues(norm(venue), norm(endpoint)).Observe(float64(elapsed.Milliseconds()))
}
