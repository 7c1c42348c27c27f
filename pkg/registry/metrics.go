package registry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "resumetpl"

type metrics struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	failures *prometheus.CounterVec
	cached   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "cache_hits_total",
			Help:      "Template loads served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "cache_misses_total",
			Help:      "Template loads that reached the source.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "load_failures_total",
			Help:      "Template loads that failed, by reason.",
		}, []string{"reason"}),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "cached_templates",
			Help:      "Templates currently held in the cache.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.failures, m.cached} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registry: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *metrics) failure(reason string) {
	if m != nil {
		m.failures.WithLabelValues(reason).Inc()
	}
}

func (m *metrics) size(n int) {
	if m != nil {
		m.cached.Set(float64(n))
	}
}
