package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple services never collide.
type Metrics struct {
	registry      *prometheus.Registry
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	LoadDuration  *prometheus.HistogramVec
	ChartRequests *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_hits_total",
			Help:      "Dataset lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_misses_total",
			Help:      "Dataset lookups that required a load.",
		}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_seconds",
			Help:      "Time spent loading a dataset from its source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		ChartRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_requests_total",
			Help:      "Charts built, by output format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CacheHits,
		m.CacheMisses,
		m.LoadDuration,
		m.ChartRequests,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
