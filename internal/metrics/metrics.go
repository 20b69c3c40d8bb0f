package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the console's collectors.
	Registry = prometheus.NewRegistry()

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_console",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Calls made to the marketplace API, by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "admin_console",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls made to the marketplace API.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"endpoint"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_console",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Console API requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	staleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admin_console",
			Subsystem: "workflow",
			Name:      "stale_responses_total",
			Help:      "Upstream responses discarded because a newer one was already applied.",
		},
		[]string{"feature", "operation"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "admin_console",
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently held in memory.",
		},
	)
)

func init() {
	Registry.MustRegister(upstreamRequests, upstreamDuration, httpRequests, staleResponses, activeSessions)
}

// ObserveUpstream records one marketplace API call.
func ObserveUpstream(endpoint, outcome string, d time.Duration) {
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func StaleResponse(feature, operation string) {
	staleResponses.WithLabelValues(feature, operation).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// Middleware counts console requests by matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
