// Package metrics defines the Prometheus collectors for the CV maker.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cvmaker"

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	persistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "persistence_errors_total",
			Help:      "Failed store loads and writes, by store and operation.",
		},
		[]string{"store", "op"},
	)

	storeResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "store_resets_total",
			Help:      "Stores reset to empty on load, by store and reason.",
		},
		[]string{"store", "reason"},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "artifacts_total",
			Help:      "Exported artifacts by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	previewSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "preview",
			Name:      "subscribers",
			Help:      "Connected live-preview websocket clients.",
		},
	)
)

// Register adds all collectors to the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, requestsInFlight,
			persistenceErrors, storeResets, exportsTotal, previewSubscribers)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// ObserveRequest records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	requestTotal.WithLabelValues(method, path, code).Inc()
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func RequestStarted() func() {
	requestsInFlight.Inc()
	return requestsInFlight.Dec
}

// PersistenceError counts a failed load or write of a store.
func PersistenceError(store, op string) {
	persistenceErrors.WithLabelValues(store, op).Inc()
}

// StoreReset counts a store discarded on load.
func StoreReset(store, reason string) {
	storeResets.WithLabelValues(store, reason).Inc()
}

// ExportDone counts one artifact export.
func ExportDone(format string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	exportsTotal.WithLabelValues(format, outcome).Inc()
}

// PreviewSubscribers sets the live-preview client gauge.
func PreviewSubscribers(n int) {
	previewSubscribers.Set(float64(n))
}
