// Package metrics holds the prometheus collectors for ingest, normalization and the llm client
// every recorder is safe on a nil *Metrics so tests and disabled deployments skip wiring
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the collectors registered on it
type Metrics struct {
	reg *prometheus.Registry

	ingest     *prometheus.CounterVec
	runs       *prometheus.CounterVec
	records    *prometheus.CounterVec
	llmSeconds *prometheus.HistogramVec
	llmTokens  prometheus.Counter
}

// New builds a registry with process and go collectors plus the b4b series
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		ingest: f.NewCounterVec(prometheus.CounterOpts{
			Name: "b4b_ingest_total",
			Help: "Inbound messages by dedup outcome",
		}, []string{"outcome"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "b4b_normalizer_runs_total",
			Help: "Normalizer runs by outcome",
		}, []string{"outcome"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "b4b_normalizer_records_total",
			Help: "Raw messages settled by the normalizer",
		}, []string{"outcome"}),
		llmSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "b4b_llm_request_seconds",
			Help:    "Latency of llm completion calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 90},
		}, []string{"op", "result"}),
		llmTokens: f.NewCounter(prometheus.CounterOpts{
			Name: "b4b_llm_tokens_total",
			Help: "Tokens reported by the llm usage block",
		}),
	}
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Ingest counts one inbound message by outcome (inserted, duplicate, blank, error)
func (m *Metrics) Ingest(outcome string) {
	if m == nil {
		return
	}
	m.ingest.WithLabelValues(outcome).Inc()
}

// Run counts one normalizer run by outcome (ok, partial, empty, busy, error)
func (m *Metrics) Run(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

// Records adds n messages under outcome (processed, failed, pending, unknown)
func (m *Metrics) Records(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(outcome).Add(float64(n))
}

// LLM observes one completion call
func (m *Metrics) LLM(op string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.llmSeconds.WithLabelValues(op, result).Observe(took.Seconds())
}

// Tokens adds reported usage
func (m *Metrics) Tokens(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.llmTokens.Add(float64(n))
}
