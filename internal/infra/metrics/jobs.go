package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(generationJobsTotal, stageLatencyMs) }

var generationJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_jobs_processed_total",
		Help: "Total number of generation jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed', 'timeout'
)

var stageLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "generation_stage_latency_ms",
		Help:    "Pipeline stage execution latency in milliseconds.",
		Buckets: []float64{50, 200, 500, 1000, 2500, 5000, 15000, 30000, 60000, 180000},
	},
	[]string{"stage"},
)

func IncGenerationJob(status string) {
	generationJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveStageLatency(stage string, ms int64) {
	stageLatencyMs.WithLabelValues(norm(stage)).Observe(float64(ms))
}
