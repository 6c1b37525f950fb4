package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder publishes screening pipeline metrics to Prometheus
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	filterRemoved *prometheus.CounterVec
	signals       *prometheus.GaugeVec
	universeSize  prometheus.Gauge
	lastRun       prometheus.Gauge
}

// New creates a Recorder bound to its own registry
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsscreen_runs_total",
				Help: "Total number of screening runs by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rsscreen_stage_duration_seconds",
				Help:    "Duration of screening pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		filterRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsscreen_filter_removed_total",
				Help: "Rows removed by each screening filter",
			},
			[]string{"filter"},
		),
		signals: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rsscreen_signals",
				Help: "Number of ranked records per signal in the last run",
			},
			[]string{"signal"},
		),
		universeSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rsscreen_universe_size",
			Help: "Number of symbols entering the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rsscreen_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
	}
}

// RecordRun counts a finished run
func (r *Recorder) RecordRun(strategy, outcome string, unix float64) {
	r.runsTotal.WithLabelValues(strategy, outcome).Inc()
	if outcome == "success" {
		r.lastRun.Set(unix)
	}
}

// RecordStage records a stage latency in seconds
func (r *Recorder) RecordStage(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordFilterRemoved adds the rows a filter dropped
func (r *Recorder) RecordFilterRemoved(filter string, removed int) {
	r.filterRemoved.WithLabelValues(filter).Add(float64(removed))
}

// RecordSignal sets the per-signal count of the last run
func (r *Recorder) RecordSignal(signal string, count int) {
	r.signals.WithLabelValues(signal).Set(float64(count))
}

// RecordUniverse sets the universe size of the last run
func (r *Recorder) RecordUniverse(size int) {
	r.universeSize.Set(float64(size))
}

// Registry exposes the underlying registry (tests, custom exporters)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
