package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"millwright/judgment/pkg/config"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/rulelang/eval"
)

// Collector owns every judgment metric family on a private registry.
// Batch runs export the registry to a textfile after each run.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	evaluationMetrics *EvaluationMetrics
	miningMetrics     *MiningMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "judgment",
//		Subsystem: "mining",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RunDurationBuckets) == 0 {
		cfg.RunDurationBuckets = config.DefaultRunDurationBuckets()
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		evaluationMetrics: NewEvaluationMetrics(cfg, registry),
		miningMetrics:     NewMiningMetrics(cfg, registry),
	}
}

// ObserveEvaluation records one rule evaluation. It satisfies
// eval.Observer.
func (c *Collector) ObserveEvaluation(result bool, err error, d time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.evaluationMetrics.RecordEvaluation(outcome(result, err), d)
}

// RecordRun records a completed mining run.
//
// Parameters:
//   - status: "fused", "no_rule" or "error"
//   - duration: total run duration
//   - screened: records that decoded
//   - dropped: records that did not
func (c *Collector) RecordRun(status string, duration time.Duration, screened, dropped int) {
	if !c.config.Enabled {
		return
	}

	c.miningMetrics.RecordRun(status, duration, screened, dropped)
}

// RecordCandidates records the number of candidates one method proposed.
func (c *Collector) RecordCandidates(method string, count int) {
	if !c.config.Enabled {
		return
	}

	c.miningMetrics.RecordCandidates(method, count)
}

// RecordRejected records a candidate rejected before fusion.
//
// Parameters:
//   - reason: "syntax", "semantic", "confidence" or "support"
func (c *Collector) RecordRejected(reason string) {
	if !c.config.Enabled {
		return
	}

	c.miningMetrics.RecordRejected(reason)
}

// RecordSourceError records a failed external candidate source.
func (c *Collector) RecordSourceError(source string) {
	if !c.config.Enabled {
		return
	}

	c.miningMetrics.RecordSourceError(source)
}

// RecordFusedRule records the confidence of the rule a run produced.
func (c *Collector) RecordFusedRule(confidence float64, at time.Time) {
	if !c.config.Enabled {
		return
	}

	c.miningMetrics.RecordFusedRule(confidence, at)
}

// WriteToTextfile writes the registry to path in the node-exporter
// textfile format. An empty path or a disabled collector does nothing.
func (c *Collector) WriteToTextfile(path string) error {
	if !c.config.Enabled || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// outcome classifies an evaluation for the outcome label.
func outcome(result bool, err error) string {
	switch {
	case err == nil && result:
		return "match"
	case err == nil:
		return "no_match"
	case errors.Is(err, eval.ErrInvalidRecord):
		return "invalid_record"
	case rlerrors.IsSyntax(err):
		return "syntax_error"
	default:
		return "semantic_error"
	}
}
