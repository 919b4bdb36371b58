package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	DossiersFetched  prometheus.Counter
	ExportsGenerated *prometheus.CounterVec
	ProcessingTime   prometheus.Histogram
	ErrorsCount      *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		DossiersFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dossiers_fetched_total",
			Help:      "The total number of operator dossiers fetched upstream",
		}),
		ExportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_generated_total",
			Help:      "The total number of export artifacts written",
		}, []string{"kind"}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dossier_processing_time_seconds",
			Help:      "Time taken to fetch and derive an expediente view",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
