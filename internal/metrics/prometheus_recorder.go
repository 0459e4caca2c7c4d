package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "postindex"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	loadDuration  *prom.HistogramVec
	loadOutcomes  *prom.CounterVec
	indexedPosts  prom.Gauge
	skipped       *prom.CounterVec
	swaps         prom.Counter
	reloadRetries *prom.CounterVec
	queries       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.loadDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of content loads by source",
			Buckets:   prom.DefBuckets,
		}, []string{"source"})
		pr.loadOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "load_outcomes_total",
			Help:      "Content load outcomes by source",
		}, []string{"source", "outcome"})
		pr.indexedPosts = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_posts",
			Help:      "Number of posts in the current snapshot",
		})
		pr.skipped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_records_total",
			Help:      "Malformed records skipped under the partial load policy",
		}, []string{"source"})
		pr.swaps = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_swaps_total",
			Help:      "Number of times a new snapshot replaced the current one",
		})
		pr.reloadRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reload_retries_total",
			Help:      "Reload retries after transient failures",
		}, []string{"source"})
		pr.queries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Index queries by kind",
		}, []string{"kind"})
		reg.MustRegister(pr.loadDuration, pr.loadOutcomes, pr.indexedPosts, pr.skipped, pr.swaps, pr.reloadRetries, pr.queries)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveLoadDuration(source string, d time.Duration) {
	if p == nil || p.loadDuration == nil {
		return
	}
	p.loadDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLoadOutcome(source string, outcome ResultLabel) {
	if p == nil || p.loadOutcomes == nil {
		return
	}
	p.loadOutcomes.WithLabelValues(source, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetIndexedPosts(n int) {
	if p == nil || p.indexedPosts == nil {
		return
	}
	p.indexedPosts.Set(float64(n))
}

func (p *PrometheusRecorder) AddSkippedRecords(source string, n int) {
	if p == nil || p.skipped == nil || n <= 0 {
		return
	}
	p.skipped.WithLabelValues(source).Add(float64(n))
}

func (p *PrometheusRecorder) IncSnapshotSwap() {
	if p == nil || p.swaps == nil {
		return
	}
	p.swaps.Inc()
}

func (p *PrometheusRecorder) IncReloadRetry(source string) {
	if p == nil || p.reloadRetries == nil {
		return
	}
	p.reloadRetries.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) IncQuery(kind QueryKind) {
	if p == nil || p.queries == nil {
		return
	}
	p.queries.WithLabelValues(string(kind)).Inc()
}
