package fusion

import (
	"errors"
	"math"
	"testing"

	"millwright/judgment/pkg/mining"
)

func newEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func rule(expr string, conf float64, method mining.Method) mining.CandidateRule {
	return mining.CandidateRule{Expression: expr, Confidence: conf, Method: method}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFuse_AgreementBonus(t *testing.T) {
	e := newEngine(t, nil)

	got := e.Fuse([][]mining.CandidateRule{
		{rule("temp>85", 0.8, mining.MethodFrequency)},
		{rule("temp>85", 0.9, mining.MethodLLM)},
	})
	if got == nil {
		t.Fatal("Fuse() = nil, want a rule")
	}
	if !approx(got.Confidence, 0.90) {
		t.Errorf("Confidence = %v, want 0.90", got.Confidence)
	}
	if got.Method != mining.MethodIntegrated {
		t.Errorf("Method = %q, want %q", got.Method, mining.MethodIntegrated)
	}
	if got.Expression != "temp>85" {
		t.Errorf("Expression = %q, want %q", got.Expression, "temp>85")
	}
}

func TestFuse_BelowFloor(t *testing.T) {
	e := newEngine(t, DefaultConfig().WithMinConfidence(0.9))

	got := e.Fuse([][]mining.CandidateRule{{rule("temp > 85", 0.8, mining.MethodFrequency)}})
	if got != nil {
		t.Errorf("Fuse() = %v, want nil", got)
	}
}

func TestFuse_EmptyInputs(t *testing.T) {
	e := newEngine(t, nil)

	for name, sets := range map[string][][]mining.CandidateRule{
		"nil":        nil,
		"empty sets": {{}, {}},
		"blank rule": {{rule("   ", 0.99, mining.MethodLLM)}},
	} {
		if got := e.Fuse(sets); got != nil {
			t.Errorf("%s: Fuse() = %v, want nil", name, got)
		}
	}
}

func TestFuse_WeightedMean(t *testing.T) {
	e := newEngine(t, nil)

	// (0.9×0.4 + 0.7×0.5) / 0.9 + 0.05
	got := e.Fuse([][]mining.CandidateRule{
		{rule("a > 1", 0.9, mining.MethodHeuristicTree)},
		{rule("a > 1", 0.7, mining.MethodFrequency)},
	})
	want := (0.9*0.4+0.7*0.5)/0.9 + 0.05
	if got == nil || !approx(got.Confidence, want) {
		t.Errorf("Fuse() = %v, want confidence %v", got, want)
	}
}

func TestFuse_UnknownMethodUsesDefaultWeight(t *testing.T) {
	e := newEngine(t, DefaultConfig().WithDefaultWeight(0.25))

	got := e.Fuse([][]mining.CandidateRule{
		{rule("a > 1", 1.0, mining.Method("decision_tree"))},
		{rule("a > 1", 0.5, mining.MethodFrequency)},
	})
	want := (1.0*0.25+0.5*0.5)/0.75 + 0.05
	if got == nil || !approx(got.Confidence, want) {
		t.Errorf("Fuse() = %v, want confidence %v", got, want)
	}
}

func TestFuse_BonusCappedAtOne(t *testing.T) {
	e := newEngine(t, nil)

	got := e.Fuse([][]mining.CandidateRule{
		{rule("a > 1", 0.99, mining.MethodFrequency)},
		{rule("a > 1", 0.98, mining.MethodLLM)},
		{rule("a > 1", 1.0, mining.MethodHeuristicTree)},
	})
	if got == nil || got.Confidence != 1.0 {
		t.Errorf("Fuse() = %v, want confidence capped at 1.0", got)
	}
}

func TestFuse_ZeroWeights(t *testing.T) {
	e := newEngine(t, DefaultConfig().WithWeight(mining.MethodLLM, 0).WithMinConfidence(0))

	got := e.Fuse([][]mining.CandidateRule{{rule("a > 1", 0.9, mining.MethodLLM)}})
	if got == nil || got.Confidence != 0 {
		t.Errorf("Fuse() = %v, want confidence 0 for zero total weight", got)
	}
}

func TestFuse_NormalizationGroups(t *testing.T) {
	e := newEngine(t, nil)

	got := e.Fuse([][]mining.CandidateRule{
		{rule("  Temperature  >  85 ", 0.8, mining.MethodFrequency)},
		{rule("temperature > 85", 0.8, mining.MethodLLM)},
	})
	if got == nil {
		t.Fatal("Fuse() = nil, want a rule")
	}
	if !approx(got.Confidence, 0.85) {
		t.Errorf("Confidence = %v, want 0.85 (grouped with bonus)", got.Confidence)
	}
	if got.Expression != "Temperature  >  85" {
		t.Errorf("Expression = %q, want the first contributor's trimmed text", got.Expression)
	}
}

func TestFuse_PicksMostConfident(t *testing.T) {
	e := newEngine(t, nil)

	got := e.Fuse([][]mining.CandidateRule{
		{rule("a > 1", 0.75, mining.MethodFrequency), rule("b > 2", 0.72, mining.MethodFrequency)},
		{rule("b > 2", 0.80, mining.MethodLLM)},
	})
	// b > 2: (0.72×0.5 + 0.8×0.5)/1.0 + 0.05 = 0.81
	if got == nil || got.Expression != "b > 2" || !approx(got.Confidence, 0.81) {
		t.Errorf("Fuse() = %v, want b > 2 at 0.81", got)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	e := newEngine(t, nil)

	withSupport := func(r mining.CandidateRule, s, n int) mining.CandidateRule {
		r.SupportCount, r.TotalCount = s, n
		return r
	}

	groups := e.Rank([][]mining.CandidateRule{{
		withSupport(rule("c > 1", 0.8, mining.MethodFrequency), 3, 10),
		withSupport(rule("b > 1", 0.8, mining.MethodFrequency), 7, 10),
		withSupport(rule("a > 1", 0.8, mining.MethodFrequency), 3, 10),
	}})

	var got []string
	for _, g := range groups {
		got = append(got, g.Key)
	}
	want := []string{"b > 1", "a > 1", "c > 1"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("Rank() order = %q, want %q", got, want)
		}
	}
}

func TestFuse_CountsAndImportance(t *testing.T) {
	e := newEngine(t, nil)

	a := rule("t > 80", 0.85, mining.MethodHeuristicTree)
	a.SupportCount, a.TotalCount = 8, 10
	a.FeatureImportance = map[string]float64{"t": 0.85}

	b := rule("t > 80", 0.9, mining.MethodFrequency)
	b.SupportCount, b.TotalCount = 5, 5
	b.FeatureImportance = map[string]float64{"t": 0.45, "v": 0.2}

	got := e.Fuse([][]mining.CandidateRule{{a}, {b}})
	if got == nil {
		t.Fatal("Fuse() = nil")
	}
	if got.SupportCount != 8 || got.TotalCount != 10 {
		t.Errorf("support = %d/%d, want 8/10", got.SupportCount, got.TotalCount)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if !approx(got.FeatureImportance["t"], 0.65) || !approx(got.FeatureImportance["v"], 0.1) {
		t.Errorf("FeatureImportance = %v, want t=0.65 v=0.1", got.FeatureImportance)
	}
}

func TestFuse_SupportNeverExceedsTotal(t *testing.T) {
	e := newEngine(t, DefaultConfig().WithMinConfidence(0))

	a := rule("x", 0.9, mining.MethodLLM)
	a.SupportCount, a.TotalCount = 9, 0 // malformed external candidate
	got := e.Fuse([][]mining.CandidateRule{{a}})
	if got == nil || got.SupportCount > got.TotalCount {
		t.Errorf("Fuse() = %v, want support clamped to total", got)
	}
}

func TestFuse_DoesNotMutateInputs(t *testing.T) {
	e := newEngine(t, nil)

	imp := map[string]float64{"t": 0.8}
	in := [][]mining.CandidateRule{
		{{Expression: " T > 1 ", Confidence: 0.8, Method: mining.MethodFrequency, FeatureImportance: imp}},
		{{Expression: "t > 1", Confidence: 0.8, Method: mining.MethodLLM, FeatureImportance: imp}},
	}
	_ = e.Fuse(in)

	if in[0][0].Expression != " T > 1 " || in[0][0].Method != mining.MethodFrequency {
		t.Errorf("input rule mutated: %+v", in[0][0])
	}
	if imp["t"] != 0.8 {
		t.Errorf("input importance mutated: %v", imp)
	}
}

func TestNormalizeExpression(t *testing.T) {
	tests := map[string]string{
		"Temperature  >  85  &&  Vibration  <  50": "temperature > 85 && vibration < 50",
		"\ta>1\n":                                   "a>1",
		"":                                          "",
	}
	for in, want := range tests {
		if got := NormalizeExpression(in); got != want {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"negative weight", DefaultConfig().WithWeight(mining.MethodLLM, -1), true},
		{"NaN weight", DefaultConfig().WithWeight(mining.MethodLLM, math.NaN()), true},
		{"negative default", DefaultConfig().WithDefaultWeight(-0.1), true},
		{"bonus above one", DefaultConfig().WithAgreementBonus(2), true},
		{"floor above one", DefaultConfig().WithMinConfidence(1.1), true},
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

func TestConfig_Weight(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Weight(mining.MethodHeuristicTree) != 0.4 {
		t.Errorf("Weight(heuristic_tree) = %v, want 0.4", cfg.Weight(mining.MethodHeuristicTree))
	}
	if cfg.Weight("custom") != 0.5 {
		t.Errorf("Weight(custom) = %v, want 0.5", cfg.Weight("custom"))
	}
}
