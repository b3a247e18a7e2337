// Package metrics exposes prometheus instrumentation for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "relay_requests_total",
		Help:      "LLM relay requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	relayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gateway",
		Name:      "relay_duration_seconds",
		Help:      "Wall time of LLM relay requests, including streaming.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"provider", "stream"})

	debitAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "debit_attempts_total",
		Help:      "Ledger debit attempts by outcome.",
	}, []string{"outcome"})

	searchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "search_requests_total",
		Help:      "Search upstream requests by family and outcome.",
	}, []string{"family", "outcome"})

	tokensRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "tokens_relayed_total",
		Help:      "Prompt and completion tokens reported by upstreams.",
	}, []string{"provider", "direction"})
)

// RecordRelayRequest records an LLM relay attempt and its wall time.
func RecordRelayRequest(provider string, stream bool, start time.Time, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	streamLabel := "false"
	if stream {
		streamLabel = "true"
	}
	relayRequests.WithLabelValues(provider, outcome).Inc()
	relayDuration.WithLabelValues(provider, streamLabel).Observe(time.Since(start).Seconds())
}

// RecordTokens records upstream-reported token usage.
func RecordTokens(provider string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		tokensRelayed.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		tokensRelayed.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	}
}

// RecordDebit records a ledger debit attempt.
func RecordDebit(outcome string) {
	debitAttempts.WithLabelValues(outcome).Inc()
}

// RecordSearch records a search upstream attempt.
func RecordSearch(family string, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	searchRequests.WithLabelValues(family, outcome).Inc()
}
