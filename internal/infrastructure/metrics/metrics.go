package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the analysis pipeline
type Metrics struct {
	PredictionsTotal     *prometheus.CounterVec
	PredictionDuration   prometheus.Histogram
	ExplanationFallbacks *prometheus.CounterVec
	HeatmapFailures      prometheus.Counter
}

// New registers and returns the pipeline metrics
func New() *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scanna_predictions_total",
			Help: "Total number of classifier predictions by label",
		}, []string{"label"}),
		PredictionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanna_prediction_duration_seconds",
			Help:    "Classifier forward pass duration",
			Buckets: prometheus.DefBuckets,
		}),
		ExplanationFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scanna_explanation_fallbacks_total",
			Help: "Explanations served from the static fallback by reason",
		}, []string{"reason"}),
		HeatmapFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scanna_heatmap_failures_total",
			Help: "Heatmap renders that fell back to the original image",
		}),
	}
}
