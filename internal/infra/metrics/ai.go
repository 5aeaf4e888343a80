package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(aiCallsLatencyMs, aiOutputTokens)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"provider", "model", "success"},
	)

	aiOutputTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_output_tokens_total",
			Help: "Sum of completion tokens per provider/model (best-effort tokenizer count).",
		},
		[]string{"provider", "model"},
	)
)

func ObserveAICall(provider, model string, elapsed time.Duration, success bool) {
	aiCallsLatencyMs.WithLabelValues(provider, model, strconv.FormatBool(success)).
		Observe(float64(elapsed.Milliseconds()))
}

func AddAIOutputTokens(provider, model string, n int) {
	if n > 0 {
		aiOutputTokens.WithLabelValues(provider, model).Add(float64(n))
	}
}
