package heuristic

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/rulelang"
)

func sample(positive bool, temp, vibration float64) mining.FeedbackRecord {
	return mining.FeedbackRecord{
		InputJSON:  fmt.Sprintf(`{"temperature": %v, "vibration": %v}`, temp, vibration),
		IsPositive: positive,
	}
}

func separable() []mining.FeedbackRecord {
	return []mining.FeedbackRecord{
		sample(true, 95, 45),
		sample(true, 92, 40),
		sample(true, 90, 42),
		sample(true, 88, 38),
		sample(true, 93, 41),
		sample(false, 70, 60),
		sample(false, 75, 65),
		sample(false, 72, 58),
		sample(false, 68, 62),
		sample(false, 71, 64),
	}
}

func newSynth(t *testing.T, cfg *Config) *Synthesizer {
	t.Helper()
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSynthesize(t *testing.T) {
	s := newSynth(t, nil)

	rules := s.Synthesize(separable())
	if len(rules) != 2 {
		t.Fatalf("Synthesize() returned %d rules, want 2: %v", len(rules), rules)
	}

	tests := []struct {
		expr       string
		confidence float64
		support    int
	}{
		{"temperature > 80", 0.85, 8},
		{"vibration > 80", 0.80, 8},
	}
	for i, tt := range tests {
		r := rules[i]
		if r.Expression != tt.expr {
			t.Errorf("rules[%d].Expression = %q, want %q", i, r.Expression, tt.expr)
		}
		if math.Abs(r.Confidence-tt.confidence) > 1e-9 {
			t.Errorf("rules[%d].Confidence = %v, want %v", i, r.Confidence, tt.confidence)
		}
		if r.SupportCount != tt.support || r.TotalCount != 10 {
			t.Errorf("rules[%d] support = %d/%d, want %d/10", i, r.SupportCount, r.TotalCount, tt.support)
		}
		if r.Method != mining.MethodHeuristicTree {
			t.Errorf("rules[%d].Method = %q", i, r.Method)
		}
		feature := r.Expression[:len(r.Expression)-len(" > 80")]
		if r.FeatureImportance[feature] != r.Confidence || len(r.FeatureImportance) != 1 {
			t.Errorf("rules[%d].FeatureImportance = %v", i, r.FeatureImportance)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("rules[%d].Validate() = %v", i, err)
		}
	}
}

func TestSynthesize_InsufficientRecords(t *testing.T) {
	s := newSynth(t, nil)

	rules := s.Synthesize(separable()[:3])
	if rules == nil || len(rules) != 0 {
		t.Errorf("Synthesize(3 records) = %#v, want empty slice", rules)
	}

	_, err := s.Fit(separable()[:9])
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Fit(9 records) error = %v, want ErrInsufficientData", err)
	}
}

func TestSynthesize_NoFeatures(t *testing.T) {
	s := newSynth(t, DefaultConfig().WithMinSamplesSplit(2))

	records := []mining.FeedbackRecord{
		{InputJSON: `{"status": "hot", "bad key": 3}`, IsPositive: true},
		{InputJSON: `{"status": "cold"}`},
	}
	if rules := s.Synthesize(records); len(rules) != 0 {
		t.Errorf("Synthesize() = %v, want empty", rules)
	}
}

func TestSynthesize_TopKAndOrder(t *testing.T) {
	s := newSynth(t, DefaultConfig().WithMinSamplesSplit(2))

	records := []mining.FeedbackRecord{
		{InputJSON: `{"e": 1, "d": 2, "c": true, "b": 4, "a": 5, "label": "x"}`, IsPositive: true},
		{InputJSON: `{"e": 0, "d": 0, "c": false, "b": 0, "a": 0}`},
	}

	rules := s.Synthesize(records)
	var got []string
	for _, r := range rules {
		got = append(got, r.Expression)
	}
	want := []string{"a > 80", "b > 80", "c > 80"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].Confidence > rules[i-1].Confidence {
			t.Errorf("rules not sorted by confidence: %v", rules)
		}
	}
}

func TestConfidence(t *testing.T) {
	deep := newSynth(t, nil)
	shallow := newSynth(t, DefaultConfig().WithMaxDepth(1))

	tests := []struct {
		name  string
		s     *Synthesizer
		index int
		want  float64
	}{
		{"first feature", deep, 0, 0.85},
		{"third feature", deep, 2, 0.75},
		{"clamped at floor", deep, 20, 0.5},
		{"shallow penalty", shallow, 0, 0.75},
		{"shallow clamped", shallow, 5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Confidence(tt.index); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestSynthesize_RulesRoundTrip(t *testing.T) {
	s := newSynth(t, nil)
	records := separable()
	for _, r := range s.Synthesize(records) {
		if _, err := rulelang.Check(r.Expression, "temperature", "vibration"); err != nil {
			t.Errorf("Check(%q) error = %v", r.Expression, err)
		}
	}
}

func TestFit(t *testing.T) {
	s := newSynth(t, nil)

	model, err := s.Fit(separable())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if fmt.Sprint(model.Features) != "[temperature vibration]" {
		t.Errorf("Features = %v, want [temperature vibration]", model.Features)
	}
	if model.Depth != 1 || model.Leaves != 2 {
		t.Errorf("Depth = %d, Leaves = %d; want 1, 2", model.Depth, model.Leaves)
	}
	if model.Accuracy != 1 {
		t.Errorf("Accuracy = %v, want 1", model.Accuracy)
	}
	if model.Importance["temperature"] != 1 || model.Importance["vibration"] != 0 {
		t.Errorf("Importance = %v, want all weight on temperature", model.Importance)
	}

	paths := model.PositivePaths()
	if len(paths) != 1 || paths[0] != "temperature > 81.5" {
		t.Errorf("PositivePaths() = %q, want [temperature > 81.5]", paths)
	}
	for _, p := range paths {
		if _, err := rulelang.Check(p); err != nil {
			t.Errorf("path %q does not parse: %v", p, err)
		}
	}

	if got := model.Predict([]float64{85, 0}); got != 1 {
		t.Errorf("Predict(85) = %d, want 1", got)
	}
	if got := model.Predict([]float64{60, 0}); got != 0 {
		t.Errorf("Predict(60) = %d, want 0", got)
	}
}

func TestFit_RespectsMaxDepth(t *testing.T) {
	// XOR-like labels need two levels to separate
	var records []mining.FeedbackRecord
	for i := 0; i < 40; i++ {
		a, b := i%2, (i/2)%2
		records = append(records, mining.FeedbackRecord{
			InputJSON:  fmt.Sprintf(`{"a": %d, "b": %d, "noise": %d}`, a, b, i),
			IsPositive: a != b,
		})
	}

	for _, depth := range []int{1, 2, 3} {
		s := newSynth(t, DefaultConfig().WithMaxDepth(depth).WithMinSamplesSplit(2))
		model, err := s.Fit(records)
		if err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		if model.Depth > depth {
			t.Errorf("max depth %d: fitted depth %d", depth, model.Depth)
		}
		if model.Leaves > 1<<depth {
			t.Errorf("max depth %d: %d leaves", depth, model.Leaves)
		}
	}
}

func TestFit_SkipsUndecodableRecords(t *testing.T) {
	s := newSynth(t, nil)

	records := append([]mining.FeedbackRecord{{InputJSON: "garbage", IsPositive: true}}, separable()...)
	model, err := s.Fit(records)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if model.Root.Samples != 10 {
		t.Errorf("root samples = %d, want 10", model.Root.Samples)
	}

	rules := s.Synthesize(records)
	if len(rules) == 0 || rules[0].TotalCount != 11 {
		t.Errorf("Synthesize() total = %v, want 11 (all records)", rules)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero depth", DefaultConfig().WithMaxDepth(0), true},
		{"min samples one", DefaultConfig().WithMinSamplesSplit(1), true},
		{"zero top k", DefaultConfig().WithTopK(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, mining.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func BenchmarkSynthesize(b *testing.B) {
	s, _ := New(nil, nil)
	records := make([]mining.FeedbackRecord, 0, 500)
	for i := 0; i < 500; i++ {
		records = append(records, sample(i%2 == 0, float64(60+i%40), float64(30+i%25)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Synthesize(records)
	}
}
