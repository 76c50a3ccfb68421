package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"millwright/judgment/pkg/mining"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestFile_Propose(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml document",
			file: "llm.yaml",
			content: `
rules:
  - expression: "  temperature > 85 "
    confidence: 0.9
    support_count: 4
    total_count: 5
  - expression: vibration < 50
    confidence: 0.7
    method: frequency
`,
		},
		{
			name: "json list",
			file: "llm.json",
			content: `[
  {"expression": "temperature > 85", "confidence": 0.9, "support_count": 4, "total_count": 5},
  {"expression": "vibration < 50", "confidence": 0.7, "method": "frequency"}
]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFile(writeFile(t, tt.file, tt.content), "")

			rules, err := src.Propose(context.Background(), nil)
			if err != nil {
				t.Fatalf("Propose() error = %v", err)
			}
			if len(rules) != 2 {
				t.Fatalf("Propose() returned %d rules, want 2", len(rules))
			}
			if rules[0].Expression != "temperature > 85" {
				t.Errorf("Expression = %q, want trimmed text", rules[0].Expression)
			}
			if rules[0].Method != mining.MethodLLM {
				t.Errorf("Method = %q, want default %q", rules[0].Method, mining.MethodLLM)
			}
			if rules[1].Method != mining.MethodFrequency {
				t.Errorf("explicit Method = %q, want %q", rules[1].Method, mining.MethodFrequency)
			}
			if rules[0].SupportCount != 4 || rules[0].TotalCount != 5 {
				t.Errorf("counts = %d/%d, want 4/5", rules[0].SupportCount, rules[0].TotalCount)
			}
		})
	}
}

func TestFile_Name(t *testing.T) {
	if got := NewFile("/var/lib/judgment/llm.yaml", mining.MethodLLM).Name(); got != "file:llm.yaml" {
		t.Errorf("Name() = %q, want %q", got, "file:llm.yaml")
	}
}

func TestFile_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewFile(filepath.Join(t.TempDir(), "missing.yaml"), "").Propose(ctx, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bad := NewFile(writeFile(t, "bad.yaml", "rules: 42"), "")
	if _, err := bad.Propose(ctx, nil); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("bad format error = %v, want ErrInvalidFormat", err)
	}

	big := NewFile(writeFile(t, "big.yaml", "rules: []"), "").WithMaxFileSize(2)
	if _, err := big.Propose(ctx, nil); err == nil {
		t.Error("oversized file expected error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	ok := NewFile(writeFile(t, "ok.yaml", "rules: []"), "")
	if _, err := ok.Propose(cancelled, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"empty document", "", 0, false},
		{"empty list", "[]", 0, false},
		{"mapping without rules", "other: 1", 0, true},
		{"scalar", "hello", 0, true},
		{"malformed", "rules: [", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(rules) != tt.want {
				t.Errorf("Parse() returned %d rules, want %d", len(rules), tt.want)
			}
		})
	}
}

func TestFunc(t *testing.T) {
	src := NewFunc("static", func(_ context.Context, records []mining.FeedbackRecord) ([]mining.CandidateRule, error) {
		return []mining.CandidateRule{{Expression: "a > 1", Confidence: 0.8, TotalCount: len(records)}}, nil
	})

	if src.Name() != "static" {
		t.Errorf("Name() = %q", src.Name())
	}
	rules, err := src.Propose(context.Background(), make([]mining.FeedbackRecord, 3))
	if err != nil || len(rules) != 1 || rules[0].TotalCount != 3 {
		t.Errorf("Propose() = %v, %v", rules, err)
	}

	var _ CandidateSource = src
	var _ CandidateSource = (*File)(nil)
}
