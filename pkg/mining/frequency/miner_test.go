package frequency

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/rulelang"
	"millwright/judgment/pkg/rulelang/eval"
)

func newMiner(t *testing.T, cfg *Config) *Miner {
	t.Helper()
	m, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func record(positive bool, json string) mining.FeedbackRecord {
	return mining.FeedbackRecord{InputJSON: json, IsPositive: positive}
}

func TestCalculateThreshold(t *testing.T) {
	m := newMiner(t, nil)

	tests := []struct {
		in, want float64
	}{
		{88, 85},
		{92, 85},
		{43, 40},
		{87.5, 85}, // rounds half away from zero
		{2, -5},
		{-12, -15},
	}
	for _, tt := range tests {
		if got := m.CalculateThreshold(tt.in); got != tt.want {
			t.Errorf("CalculateThreshold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	m10 := newMiner(t, DefaultConfig().WithRoundStep(10))
	if got := m10.CalculateThreshold(88); got != 80 {
		t.Errorf("CalculateThreshold(88) with step 10 = %v, want 80", got)
	}
}

func TestExtractConditions(t *testing.T) {
	m := newMiner(t, nil)

	tests := []struct {
		name string
		json string
		want []string
	}{
		{
			name: "numeric",
			json: `{"temperature": 90, "vibration": 45}`,
			want: []string{"temperature > 85", "vibration > 40"},
		},
		{
			name: "boolean",
			json: `{"is_critical": true, "is_normal": false}`,
			want: []string{"is_critical == true", "is_normal == false"},
		},
		{
			name: "string",
			json: `{"status": "error", "quote": "say \"hi\""}`,
			want: []string{`quote == "say \"hi\""`, `status == "error"`},
		},
		{
			name: "nested, null and invalid names skipped",
			json: `{"meta": {"a": 1}, "tags": [1], "note": null, "bad key": 1, "ok": 12.5}`,
			want: []string{"ok > 10"},
		},
		{
			name: "fractional threshold",
			json: `{"ratio": 0.7}`,
			want: []string{"ratio > -5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ExtractConditions(tt.json)
			if err != nil {
				t.Fatalf("ExtractConditions() error = %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("ExtractConditions() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := m.ExtractConditions(`[1, 2]`); !errors.Is(err, eval.ErrInvalidRecord) {
		t.Errorf("ExtractConditions(array) error = %v, want ErrInvalidRecord", err)
	}
}

func TestExtractConditions_HoldOnSource(t *testing.T) {
	m := newMiner(t, nil)

	inputs := []string{
		`{"big": 1e300, "ok": 7}`,
		`{"n": 12345678901234567890, "ok": 7}`,
		`{"neg": -1e300, "small": 1e-300, "ok": 7}`,
	}
	for _, input := range inputs {
		conditions, err := m.ExtractConditions(input)
		if err != nil {
			t.Fatalf("ExtractConditions(%s) error = %v", input, err)
		}
		data, err := eval.DecodeRecord([]byte(input))
		if err != nil {
			t.Fatal(err)
		}

		found := false
		for _, c := range conditions {
			found = found || c == "ok > 0"
			ok, err := rulelang.Evaluate(c, data)
			if err != nil || !ok {
				t.Errorf("Evaluate(%q) on %s = %v, %v; want true", c, input, ok, err)
			}
		}
		if !found {
			t.Errorf("ExtractConditions(%s) = %q, want it to include \"ok > 0\"", input, conditions)
		}
	}
}

func TestMine_RecurringThreshold(t *testing.T) {
	m := newMiner(t, nil)

	var records []mining.FeedbackRecord
	for _, temp := range []int{88, 89, 90, 91, 92} {
		records = append(records, record(true, fmt.Sprintf(`{"temperature": %d}`, temp)))
	}
	records = append(records, record(false, `{"temperature": 20}`))

	rules := m.Mine(records)
	if len(rules) != 1 {
		t.Fatalf("Mine() returned %d rules, want 1: %v", len(rules), rules)
	}

	r := rules[0]
	if r.Expression != "temperature > 85" {
		t.Errorf("Expression = %q, want %q", r.Expression, "temperature > 85")
	}
	if r.SupportCount != 5 || r.TotalCount != 5 {
		t.Errorf("support = %d/%d, want 5/5", r.SupportCount, r.TotalCount)
	}
	if math.Abs(r.Confidence-0.9) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.9", r.Confidence)
	}
	if r.Method != mining.MethodFrequency {
		t.Errorf("Method = %q, want %q", r.Method, mining.MethodFrequency)
	}
}

func TestMine_ThresholdFiltering(t *testing.T) {
	m := newMiner(t, nil)

	// status occurs in 4 of 5 positives (kept at 0.8), line in 3 of 5 (dropped)
	records := []mining.FeedbackRecord{
		record(true, `{"status": "hot", "line": "A"}`),
		record(true, `{"status": "hot", "line": "A"}`),
		record(true, `{"status": "hot", "line": "A"}`),
		record(true, `{"status": "hot", "line": "B"}`),
		record(true, `{"status": "cold", "line": "B"}`),
	}

	rules := m.Mine(records)
	if len(rules) != 1 {
		t.Fatalf("Mine() = %v, want one rule", rules)
	}
	if rules[0].Expression != `status == "hot"` || rules[0].SupportCount != 4 {
		t.Errorf("rule = %v, want status == \"hot\" with support 4", rules[0])
	}
	if math.Abs(rules[0].Confidence-0.72) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.72", rules[0].Confidence)
	}
}

func TestMine_MinCountToleratesFloatError(t *testing.T) {
	m := newMiner(t, DefaultConfig().WithThreshold(0.7))

	// 10 × 0.7 is 7.000000000000001 in float64; 7 occurrences must be enough
	var records []mining.FeedbackRecord
	for i := 0; i < 10; i++ {
		flag := i < 7
		records = append(records, record(true, fmt.Sprintf(`{"flag": %t}`, flag)))
	}

	rules := m.Mine(records)
	if len(rules) != 1 || rules[0].Expression != "flag == true" {
		t.Errorf("Mine() = %v, want flag == true", rules)
	}
}

func TestMine_Ordering(t *testing.T) {
	m := newMiner(t, DefaultConfig().WithThreshold(0.5))

	records := []mining.FeedbackRecord{
		record(true, `{"b": true, "a": true, "c": 1}`),
		record(true, `{"b": true, "a": true, "c": 50}`),
		record(true, `{"b": true, "a": false, "c": 50}`),
		record(true, `{"b": true, "a": true, "c": 50}`),
	}

	rules := m.Mine(records)
	var got []string
	for _, r := range rules {
		got = append(got, r.Expression)
	}
	want := []string{"b == true", "a == true", "c > 45"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Mine() order = %q, want %q", got, want)
	}
}

func TestMine_EmptyResults(t *testing.T) {
	m := newMiner(t, nil)

	tests := []struct {
		name    string
		records []mining.FeedbackRecord
	}{
		{"no records", nil},
		{"no positives", []mining.FeedbackRecord{record(false, `{"a": 1}`)}},
		{"no recurring condition", []mining.FeedbackRecord{
			record(true, `{"a": 10}`),
			record(true, `{"a": 50}`),
			record(true, `{"a": 90}`),
		}},
		{"only malformed", []mining.FeedbackRecord{record(true, `not json`), record(true, `[1]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := m.Mine(tt.records)
			if rules == nil || len(rules) != 0 {
				t.Errorf("Mine() = %#v, want empty non-nil slice", rules)
			}
		})
	}
}

func TestMine_MalformedRecordsCountTowardTotal(t *testing.T) {
	m := newMiner(t, nil)

	records := []mining.FeedbackRecord{
		record(true, `{"a": true}`),
		record(true, `{"a": true}`),
		record(true, `{"a": true}`),
		record(true, `{"a": true}`),
		record(true, `oops`),
	}

	rules := m.Mine(records)
	if len(rules) != 1 || rules[0].TotalCount != 5 || rules[0].SupportCount != 4 {
		t.Errorf("Mine() = %v, want a == true with support 4/5", rules)
	}
}

func TestMine_RulesRoundTrip(t *testing.T) {
	m := newMiner(t, DefaultConfig().WithThreshold(0.5))

	records := []mining.FeedbackRecord{
		record(true, `{"temperature": 91.3, "door_open": false, "line": "B-2", "operator": "kim \"k\""}`),
		record(true, `{"temperature": 88, "door_open": false, "line": "B-2", "operator": "kim \"k\""}`),
	}

	rules := m.Mine(records)
	if len(rules) != 4 {
		t.Fatalf("Mine() returned %d rules, want 4: %v", len(rules), rules)
	}
	data, _ := records[0].Decode()
	for _, r := range rules {
		if _, err := rulelang.Check(r.Expression, mining.SortedKeys(data)...); err != nil {
			t.Errorf("Check(%q) error = %v", r.Expression, err)
		}
		ok, err := rulelang.Evaluate(r.Expression, data)
		if err != nil || !ok {
			t.Errorf("Evaluate(%q) = %v, %v; want true on the mined record", r.Expression, ok, err)
		}
	}
}

func TestCombineConditions(t *testing.T) {
	if got := CombineConditions(nil); got != "true" {
		t.Errorf("CombineConditions(nil) = %q, want %q", got, "true")
	}
	if got := CombineConditions([]string{"a > 1"}); got != "a > 1" {
		t.Errorf("CombineConditions(one) = %q", got)
	}
	got := CombineConditions([]string{"a > 1", "b == true"})
	if got != "a > 1 && b == true" {
		t.Errorf("CombineConditions(two) = %q", got)
	}
	if _, err := rulelang.Check(CombineConditions(nil)); err != nil {
		t.Errorf("empty combination does not parse: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero threshold", DefaultConfig().WithThreshold(0), true},
		{"threshold above one", DefaultConfig().WithThreshold(1.5), true},
		{"zero step", DefaultConfig().WithRoundStep(0), true},
		{"zero discount", DefaultConfig().WithDiscount(0), true},
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

	if _, err := New(DefaultConfig().WithRoundStep(-1), nil); err == nil {
		t.Error("New() with invalid config expected error")
	}
}

func BenchmarkMine(b *testing.B) {
	m, _ := New(nil, nil)
	records := make([]mining.FeedbackRecord, 0, 1000)
	for i := 0; i < 1000; i++ {
		records = append(records, record(i%3 != 0,
			fmt.Sprintf(`{"temperature": %d, "vibration": %d, "door_open": %t}`, 80+i%10, 30+i%7, i%2 == 0)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Mine(records)
	}
}
