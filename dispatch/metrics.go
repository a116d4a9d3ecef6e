package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFailed        = "failed"
	outcomeHandled       = "handled"
	outcomeMisconfigured = "misconfigured"
	outcomeUnmatched     = "unmatched"
)

type metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchback",
			Name:      "dispatches_total",
			Help:      "Requests dispatched, by handler and outcome.",
		}, []string{"handler", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "switchback",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching a request, handler included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
	}
}

// observe is a no-op on a nil *metrics.
func (m *metrics) observe(handler, outcome string, start time.Time) {
	if m == nil {
		return
	}

	m.dispatches.WithLabelValues(handler, outcome).Inc()
	m.duration.WithLabelValues(handler).Observe(time.Since(start).Seconds())
}
