// Package pmimetrics implements a pmi.Observer backed by
// prometheus/client_golang, exposing per-operation counts by backend
// mode and status, plus a barrier-latency histogram, via promhttp.
package pmimetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flux-framework/pmi-go/pkg/pmi"
)

// Observer records every Dispatcher operation as a counter labeled by
// operation, backend mode, and resulting status, and times Barrier calls
// in a histogram.
type Observer struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	barrierTime prometheus.Histogram

	barrierStart time.Time
}

// NewObserver constructs an Observer and registers its collectors on a
// fresh registry.
func NewObserver() *Observer {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pmi",
		Name:      "operations_total",
		Help:      "Total bootstrap operations by operation, backend mode, and status.",
	}, []string{"operation", "mode", "status"})

	barrierTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pmi",
		Name:      "barrier_seconds",
		Help:      "Time spent inside Barrier calls.",
		Buckets:   prometheus.DefBuckets,
	})

	registry.MustRegister(operations, barrierTime)

	return &Observer{registry: registry, operations: operations, barrierTime: barrierTime}
}

// Observe satisfies pmi.Observer. Barrier timing is approximate: it
// measures from the previous Observe call to this one, since the
// Dispatcher only reports operation completion, not start.
func (o *Observer) Observe(op, mode string, status pmi.Status) {
	now := time.Now()
	o.operations.WithLabelValues(op, mode, status.String()).Inc()
	if op == "barrier" && !o.barrierStart.IsZero() {
		o.barrierTime.Observe(now.Sub(o.barrierStart).Seconds())
	}
	o.barrierStart = now
}

// Registry returns the underlying prometheus.Registry for tests or
// alternate exposition.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler returns an http.Handler serving this Observer's metrics in the
// Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
