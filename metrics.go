package dispatch

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware exposes dispatch counters and latencies through prometheus.
type MetricsMiddleware struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetricsMiddleware registers the dispatch metrics on the provided registerer.
func NewMetricsMiddleware(reg prometheus.Registerer) *MetricsMiddleware {
	mdl := &MetricsMiddleware{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "invocations_total",
			Help:      "Invocations processed, partitioned by handler key, method and outcome.",
		}, []string{"key", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Name:      "invocation_duration_seconds",
			Help:      "Time spent inside handler methods.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"key", "method"}),
	}
	reg.MustRegister(mdl.invocations, mdl.duration)
	return mdl
}

func (mdl *MetricsMiddleware) HandleOutward(invocation string, data any, err error, elapsed time.Duration) {
	key, method, _ := strings.Cut(invocation, ":")
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mdl.invocations.WithLabelValues(key, method, outcome).Inc()
	mdl.duration.WithLabelValues(key, method).Observe(elapsed.Seconds())
}
