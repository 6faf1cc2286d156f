// Package metrics defines the Prometheus collectors of the service. A
// Metrics value is created once in main and passed to the components that
// record into it; a nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "career_compass"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	skillResults      *prometheus.CounterVec
	stateRetries      prometheus.Counter
	questionBankCache *prometheus.CounterVec
	knowledgeChunks   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		skillResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_skill_results_total",
			Help:      "Per-skill assessment outcomes by status and level.",
		}, []string{"status", "level"}),
		stateRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skill_state_retries_total",
			Help:      "Skill state updates retried after a concurrency conflict.",
		}),
		questionBankCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_bank_cache_total",
			Help:      "Question bank cache lookups by result.",
		}, []string{"result"}),
		knowledgeChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_chunks_ingested_total",
			Help:      "Knowledge chunks written to the vector store.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.skillResults,
		m.stateRetries,
		m.questionBankCache,
		m.knowledgeChunks,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSkillResult(status, level string) {
	if m == nil {
		return
	}
	m.skillResults.WithLabelValues(status, level).Inc()
}

func (m *Metrics) IncStateRetry() {
	if m == nil {
		return
	}
	m.stateRetries.Inc()
}

// ObserveQuestionBankCache records "hit", "miss" or "error".
func (m *Metrics) ObserveQuestionBankCache(result string) {
	if m == nil {
		return
	}
	m.questionBankCache.WithLabelValues(result).Inc()
}

func (m *Metrics) AddKnowledgeChunks(n int) {
	if m == nil {
		return
	}
	m.knowledgeChunks.Add(float64(n))
}
