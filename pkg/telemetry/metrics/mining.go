package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"millwright/judgment/pkg/config"
)

// MiningMetrics tracks mining runs.
//
// Metrics:
//   - judgment_mining_runs_total: runs by status
//   - judgment_mining_run_duration_seconds: run duration
//   - judgment_mining_records_total: records by state (screened, dropped)
//   - judgment_mining_candidates_total: proposed candidates by method
//   - judgment_mining_rejected_candidates_total: rejected candidates by reason
//   - judgment_mining_source_errors_total: failed external sources
//   - judgment_mining_fused_confidence: confidence of the last fused rule
//   - judgment_mining_last_fused_timestamp_seconds: when the last rule was fused
type MiningMetrics struct {
	runsTotal          *prometheus.CounterVec
	runDuration        prometheus.Histogram
	recordsTotal       *prometheus.CounterVec
	candidatesTotal    *prometheus.CounterVec
	rejectedTotal      *prometheus.CounterVec
	sourceErrorsTotal  *prometheus.CounterVec
	fusedConfidence    prometheus.Gauge
	lastFusedTimestamp prometheus.Gauge
}

// NewMiningMetrics creates and registers mining metrics with the provided
// registry.
func NewMiningMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *MiningMetrics {
	mm := &MiningMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of mining runs by status",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of mining runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
		),

		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_total",
				Help:      "Total number of feedback records by screening state",
			},
			[]string{"state"},
		),

		candidatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "candidates_total",
				Help:      "Total number of candidate rules by method",
			},
			[]string{"method"},
		),

		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rejected_candidates_total",
				Help:      "Total number of candidate rules rejected before fusion",
			},
			[]string{"reason"},
		),

		sourceErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "source_errors_total",
				Help:      "Total number of failed candidate sources",
			},
			[]string{"source"},
		),

		fusedConfidence: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fused_confidence",
				Help:      "Confidence of the most recently fused rule",
			},
		),

		lastFusedTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_fused_timestamp_seconds",
				Help:      "Unix time of the most recently fused rule",
			},
		),
	}

	registry.MustRegister(
		mm.runsTotal,
		mm.runDuration,
		mm.recordsTotal,
		mm.candidatesTotal,
		mm.rejectedTotal,
		mm.sourceErrorsTotal,
		mm.fusedConfidence,
		mm.lastFusedTimestamp,
	)

	return mm
}

// RecordRun records a completed run.
func (mm *MiningMetrics) RecordRun(status string, duration time.Duration, screened, dropped int) {
	mm.runsTotal.WithLabelValues(status).Inc()
	mm.runDuration.Observe(duration.Seconds())
	mm.recordsTotal.WithLabelValues("screened").Add(float64(screened))
	mm.recordsTotal.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordCandidates records proposed candidates for a method.
func (mm *MiningMetrics) RecordCandidates(method string, count int) {
	mm.candidatesTotal.WithLabelValues(method).Add(float64(count))
}

// RecordRejected records a rejected candidate.
func (mm *MiningMetrics) RecordRejected(reason string) {
	mm.rejectedTotal.WithLabelValues(reason).Inc()
}

// RecordSourceError records a failed source.
func (mm *MiningMetrics) RecordSourceError(source string) {
	mm.sourceErrorsTotal.WithLabelValues(source).Inc()
}

// RecordFusedRule records the latest fused rule.
func (mm *MiningMetrics) RecordFusedRule(confidence float64, at time.Time) {
	mm.fusedConfidence.Set(confidence)
	mm.lastFusedTimestamp.Set(float64(at.Unix()))
}
