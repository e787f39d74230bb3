package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_alert"

// Metrics holds the Prometheus counters, histograms, and gauges for the prediction service.
type Metrics struct {
	ModelsLoaded       prometheus.Gauge
	Predictions        *prometheus.CounterVec   // labels: model, alert={green,yellow,orange,red,unknown}
	PredictionErrors   *prometheus.CounterVec   // labels: model
	PredictionDuration *prometheus.HistogramVec // labels: model

	// Prediction event publishing.
	EventsPublished     prometheus.Counter
	EventPublishErrors  prometheus.Counter
	EventPublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all service metrics and registers them with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.ModelsLoaded,
		m.Predictions,
		m.PredictionErrors,
		m.PredictionDuration,
		m.EventsPublished,
		m.EventPublishErrors,
		m.EventPublishEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ModelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "models_loaded",
			Help:      "Number of classifier artifacts loaded at startup.",
		}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions by model and decoded alert level.",
		}, []string{"model", "alert"}),
		PredictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_errors_total",
			Help:      "Predictions rejected by the classifier.",
		}, []string{"model"}),
		PredictionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent inside a single classifier call.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"model"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Prediction events written to the event topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Failed prediction event publishes.",
		}),
		EventPublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_publish_enabled",
			Help:      "1 when prediction events are published to Kafka, 0 otherwise.",
		}),
	}
}
