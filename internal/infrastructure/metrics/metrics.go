// Package metrics exposes store and tracker counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "omni"

// Metrics implements port.Recorder on a private registry, so several
// instances (tests, one-shot CLI commands) never collide.
type Metrics struct {
	registry *prometheus.Registry

	// Session store
	SessionsLocal     prometheus.Gauge
	SessionsSynced    prometheus.Gauge
	SyncedSkipped     *prometheus.CounterVec
	TierWriteFailures *prometheus.CounterVec

	// Suspension tracker
	TabsSuspended  prometheus.Counter
	TabsRestored   prometheus.Counter
	OrphansRemoved prometheus.Counter

	// Search
	Searches      prometheus.Counter
	SearchResults prometheus.Histogram
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SessionsLocal: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_local",
			Help:      "Sessions held in the local tier",
		}),
		SessionsSynced: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_synced",
			Help:      "Sessions held in the synced tier projection",
		}),
		SyncedSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synced_writes_skipped_total",
			Help:      "Synced tier writes skipped, by reason",
		}, []string{"reason"}),
		TierWriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tier_write_failures_total",
			Help:      "Failed persistence writes, by tier",
		}, []string{"tier"}),

		TabsSuspended: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabs_suspended_total",
			Help:      "Tabs suspended",
		}),
		TabsRestored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabs_restored_total",
			Help:      "Suspended tabs restored",
		}),
		OrphansRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphans_swept_total",
			Help:      "Suspended-tab records removed by the orphan sweep",
		}),

		Searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches performed",
		}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionsStored(local, synced int) {
	m.SessionsLocal.Set(float64(local))
	m.SessionsSynced.Set(float64(synced))
}

func (m *Metrics) SyncedWriteSkipped(reason string) {
	m.SyncedSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) TierWriteFailed(tier string) {
	m.TierWriteFailures.WithLabelValues(tier).Inc()
}

func (m *Metrics) TabSuspended() { m.TabsSuspended.Inc() }

func (m *Metrics) TabRestored() { m.TabsRestored.Inc() }

func (m *Metrics) OrphansSwept(n int) {
	if n > 0 {
		m.OrphansRemoved.Add(float64(n))
	}
}

func (m *Metrics) SearchPerformed(results int) {
	m.Searches.Inc()
	m.SearchResults.Observe(float64(results))
}
