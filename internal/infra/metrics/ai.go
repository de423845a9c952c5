package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(modelCallsTotal, modelRetriesTotal, modelPromptTokens) }

var modelCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "model_calls_total",
		Help: "Model invocations by model and outcome.",
	},
	[]string{"model", "outcome"}, // 'ok', 'error'
)

var modelRetriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "model_retries_total",
		Help: "Retried model call attempts per model.",
	},
	[]string{"model"},
)

var modelPromptTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "model_prompt_tokens_total",
		Help: "Estimated prompt tokens sent per model.",
	},
	[]string{"model"},
)

func IncModelCall(model, outcome string) {
	modelCallsTotal.WithLabelValues(norm(model), norm(outcome)).Inc()
}

func IncModelRetry(model string) {
	modelRetriesTotal.WithLabelValues(norm(model)).Inc()
}

func AddPromptTokens(model string, n int) {
	if n > 0 {
		modelPromptTokens.WithLabelValues(norm(model)).Add(float64(n))
	}
}
