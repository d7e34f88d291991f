package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	insightsTotal *prometheus.CounterVec
	degradedTotal *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		insightsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeinsight_insights_total",
				Help: "Total number of insights generated",
			},
			[]string{"outcome"},
		),
		degradedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeinsight_degraded_total",
				Help: "Total number of degraded upstream components",
			},
			[]string{"component"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeinsight_cache_total",
				Help: "Insight cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradeinsight_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradeinsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordInsight records a generated insight by outcome
// ("template", "hybrid", or "fallback").
func (r *Recorder) RecordInsight(outcome string) {
	r.insightsTotal.WithLabelValues(outcome).Inc()
}

// RecordDegraded records a degraded upstream component.
func (r *Recorder) RecordDegraded(component string) {
	r.degradedTotal.WithLabelValues(component).Inc()
}

// RecordCache records a cache lookup outcome.
func (r *Recorder) RecordCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheTotal.WithLabelValues(outcome).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
