package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"millwright/judgment/pkg/config"
	"millwright/judgment/pkg/rulelang/eval"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:            true,
		Namespace:          "test",
		Subsystem:          "mining",
		RunDurationBuckets: []float64{0.1, 1, 10},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if NewCollector(testConfig(), nil).Registry() == nil {
		t.Error("nil registry should be replaced")
	}
}

func TestCollector_ObserveEvaluation(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	evaluator := eval.NewEvaluator(collector)
	data := map[string]any{"temperature": 90.0}

	evaluations := []string{
		"temperature > 80",
		"temperature > 80",
		"temperature < 80",
		"temperature >",
		"pressure > 1",
	}
	for _, expr := range evaluations {
		_, _ = evaluator.Evaluate(expr, data)
	}

	tests := []struct {
		outcome string
		want    float64
	}{
		{"match", 2},
		{"no_match", 1},
		{"syntax_error", 1},
		{"semantic_error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(collector.evaluationMetrics.evaluationsTotal.WithLabelValues(tt.outcome))
		if got != tt.want {
			t.Errorf("evaluations_total{outcome=%q} = %v, want %v", tt.outcome, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(collector.evaluationMetrics.evaluationDuration); n != 1 {
		t.Errorf("evaluation duration series = %d, want 1", n)
	}
}

func TestOutcome_InvalidRecord(t *testing.T) {
	if got := outcome(false, eval.ErrInvalidRecord); got != "invalid_record" {
		t.Errorf("outcome(ErrInvalidRecord) = %q", got)
	}
}

func TestCollector_MiningMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordRun("fused", 200*time.Millisecond, 8, 2)
	collector.RecordRun("no_rule", time.Second, 4, 0)
	collector.RecordCandidates("frequency", 3)
	collector.RecordCandidates("frequency", 2)
	collector.RecordRejected("syntax")
	collector.RecordSourceError("file:llm.yaml")
	collector.RecordFusedRule(0.9, time.Unix(1700000000, 0))

	mm := collector.miningMetrics
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"runs fused", testutil.ToFloat64(mm.runsTotal.WithLabelValues("fused")), 1},
		{"runs no_rule", testutil.ToFloat64(mm.runsTotal.WithLabelValues("no_rule")), 1},
		{"screened", testutil.ToFloat64(mm.recordsTotal.WithLabelValues("screened")), 12},
		{"dropped", testutil.ToFloat64(mm.recordsTotal.WithLabelValues("dropped")), 2},
		{"candidates", testutil.ToFloat64(mm.candidatesTotal.WithLabelValues("frequency")), 5},
		{"rejected", testutil.ToFloat64(mm.rejectedTotal.WithLabelValues("syntax")), 1},
		{"source errors", testutil.ToFloat64(mm.sourceErrorsTotal.WithLabelValues("file:llm.yaml")), 1},
		{"confidence", testutil.ToFloat64(mm.fusedConfidence), 0.9},
		{"timestamp", testutil.ToFloat64(mm.lastFusedTimestamp), 1700000000},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordRun("fused", time.Second, 1, 1)
	collector.ObserveEvaluation(true, nil, time.Millisecond)

	if got := testutil.ToFloat64(collector.miningMetrics.runsTotal.WithLabelValues("fused")); got != 0 {
		t.Errorf("disabled collector recorded runs = %v", got)
	}

	path := filepath.Join(t.TempDir(), "judgment.prom")
	if err := collector.WriteToTextfile(path); err != nil {
		t.Fatalf("WriteToTextfile() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled collector should not write a textfile")
	}
}

func TestCollector_WriteToTextfile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordRun("fused", time.Second, 10, 0)

	path := filepath.Join(t.TempDir(), "judgment.prom")
	if err := collector.WriteToTextfile(path); err != nil {
		t.Fatalf("WriteToTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `test_mining_runs_total{status="fused"} 1`) {
		t.Errorf("textfile missing run counter:\n%s", data)
	}

	if err := collector.WriteToTextfile(""); err != nil {
		t.Errorf("WriteToTextfile(\"\") error = %v, want nil", err)
	}
}

func TestCollector_ImplementsObserver(t *testing.T) {
	var _ eval.Observer = NewCollector(testConfig(), nil)
}
