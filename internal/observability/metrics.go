package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит счётчики и гистограммы процесса калибровки
type Metrics struct {
	PartitionsCalibrated prometheus.Counter
	PartitionsFailed     prometheus.Counter
	ObjectiveEvaluations prometheus.Counter

	PartitionDuration prometheus.Histogram
	TrainingCases     prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в реестре Prometheus по умолчанию
func NewMetrics() *Metrics {
	m := &Metrics{
		PartitionsCalibrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emos",
			Name:      "partitions_calibrated_total",
			Help:      "Total partitions with successfully estimated coefficients.",
		}),
		PartitionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emos",
			Name:      "partitions_failed_total",
			Help:      "Total partitions that failed assembly or estimation.",
		}),
		ObjectiveEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emos",
			Name:      "objective_evaluations_total",
			Help:      "Total CRPS objective evaluations across all partitions.",
		}),
		PartitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "emos",
			Name:      "partition_duration_seconds",
			Help:      "Duration of a complete assemble-estimate cycle per partition.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		TrainingCases: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "emos",
			Name:      "training_cases",
			Help:      "Number of usable training days per partition.",
			Buckets:   []float64{1, 3, 5, 10, 15, 20, 30, 45, 60},
		}),
	}

	prometheus.MustRegister(
		m.PartitionsCalibrated,
		m.PartitionsFailed,
		m.ObjectiveEvaluations,
		m.PartitionDuration,
		m.TrainingCases,
	)

	return m
}

// NewMetricsForTesting создаёт метрики без регистрации, чтобы избежать
// паники "already registered" в параллельных тестах
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PartitionsCalibrated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emos", Name: "partitions_calibrated_total"}),
		PartitionsFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emos", Name: "partitions_failed_total"}),
		ObjectiveEvaluations: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emos", Name: "objective_evaluations_total"}),
		PartitionDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "emos", Name: "partition_duration_seconds"}),
		TrainingCases:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "emos", Name: "training_cases"}),
	}
}
