package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors exported by the widget server.
type Metrics struct {
	registry *prometheus.Registry

	Predictions      prometheus.Counter
	PredictionErrors prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics builds the collectors on a private registry so repeated
// construction (tests, restarts) never trips duplicate registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		Predictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "properati",
			Subsystem: "widget",
			Name:      "predictions_total",
			Help:      "Number of successful price predictions served.",
		}),
		PredictionErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "properati",
			Subsystem: "widget",
			Name:      "prediction_errors_total",
			Help:      "Number of prediction requests rejected or failed.",
		}),
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "properati",
			Subsystem: "widget",
			Name:      "request_duration_seconds",
			Help:      "Latency of widget HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// Handler serves the private registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
