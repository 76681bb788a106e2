// Package metrics defines Prometheus collectors for request counts,
// latency, retry counts, and token usage. No other package in this module
// imports it; values reach the collectors only through the Observe
// methods.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors groups the request, latency, retry, and token metrics.
// A zero-value Collectors is unusable; use NewCollectors.
type Collectors struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    *prometheus.CounterVec
	TokensTotal     *prometheus.CounterVec
}

// NewCollectors builds a fresh, unregistered set of collectors labeled
// by provider (and, for tokens, by kind: "prompt"/"completion").
func NewCollectors() *Collectors {
	return &Collectors{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siumai", Name: "requests_total",
			Help: "Total chat/embed/etc. calls made, labeled by provider and outcome.",
		}, []string{"provider", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "siumai", Name: "request_duration_seconds",
			Help:    "Wall-clock duration of a call including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siumai", Name: "retries_total",
			Help: "Retry attempts issued by the executor, labeled by provider and error kind.",
		}, []string{"provider", "kind"}),
		TokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siumai", Name: "tokens_total",
			Help: "Tokens consumed, labeled by provider and kind (prompt/completion).",
		}, []string{"provider", "kind"}),
	}
}

// MustRegister registers every collector against reg (typically
// prometheus.DefaultRegisterer, or a caller-owned registry for tests).
func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.RequestsTotal, c.RequestDuration, c.RetriesTotal, c.TokensTotal)
}

// ObserveRequest records one completed call.
func (c *Collectors) ObserveRequest(provider, outcome string, seconds float64) {
	c.RequestsTotal.WithLabelValues(provider, outcome).Inc()
	c.RequestDuration.WithLabelValues(provider).Observe(seconds)
}

// ObserveRetry records one retry attempt.
func (c *Collectors) ObserveRetry(provider, kind string) {
	c.RetriesTotal.WithLabelValues(provider, kind).Inc()
}

// ObserveTokens records prompt/completion token counts from a Usage.
func (c *Collectors) ObserveTokens(provider string, prompt, completion int) {
	c.TokensTotal.WithLabelValues(provider, "prompt").Add(float64(prompt))
	c.TokensTotal.WithLabelValues(provider, "completion").Add(float64(completion))
}
