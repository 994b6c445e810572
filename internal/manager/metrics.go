package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoringd",
			Subsystem: "pipeline",
			Name:      "model_loads_total",
			Help:      "Model artifact loads from disk by result",
		},
		[]string{"result"},
	)

	modelLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scoringd",
			Subsystem: "pipeline",
			Name:      "model_load_duration_seconds",
			Help:      "Duration of model artifact loads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoringd",
			Subsystem: "pipeline",
			Name:      "cache_lookups_total",
			Help:      "Predictor cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	rowsScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scoringd",
			Subsystem: "pipeline",
			Name:      "rows_scored_total",
			Help:      "Total number of data rows scored",
		},
	)

	pipelineFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoringd",
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Failed scoring pipelines by error kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, modelLoadDuration, cacheLookupsTotal, rowsScoredTotal, pipelineFailuresTotal)
}
