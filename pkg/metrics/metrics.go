// Package metrics provides Prometheus instrumentation for partsdesk.
//
// Two metric families exist: the HTTP metrics of the frontend itself,
// and upstream metrics for calls made against the parts backend.
//
// Wire it up once when building the frontend:
//
//	r.Use(metrics.Middleware)
//	r.Get("/metrics", metrics.Handler().ServeHTTP)
//	api.Observe = metrics.ObserveUpstream
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each frontend request takes,
	// broken down by method, path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "partsdesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all frontend requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "partsdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "partsdesk",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// UpstreamRequestTotal counts calls against the parts backend.
	// Status "0" means no response was received (transport failure).
	UpstreamRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "partsdesk",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of backend API requests.",
		},
		[]string{"method", "path", "status"},
	)

	// UpstreamRequestDuration tracks backend API call latency.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "partsdesk",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// DefaultRegistry is the Prometheus registry used by partsdesk.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		UpstreamRequestTotal,
		UpstreamRequestDuration,
	)
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// ObserveUpstream satisfies rest.Observer: install it on the backend
// client to record every outbound API call.
func ObserveUpstream(method, path string, status int, elapsed time.Duration) {
	s := strconv.Itoa(status)
	UpstreamRequestTotal.WithLabelValues(method, path, s).Inc()
	UpstreamRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// statusWriter captures the response code for instrumentation.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count, and in-flight gauge for every
// frontend request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.status)
		RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
