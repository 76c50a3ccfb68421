package mining

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"millwright/judgment/pkg/rulelang/eval"
)

// Method identifies where a candidate rule came from.
type Method string

const (
	// MethodFrequency marks rules from the frequency pattern miner.
	MethodFrequency Method = "frequency"

	// MethodHeuristicTree marks rules from the heuristic rule synthesizer.
	MethodHeuristicTree Method = "heuristic_tree"

	// MethodLLM marks rules proposed by an external LLM-backed miner.
	MethodLLM Method = "llm"

	// MethodIntegrated marks rules produced by the fusion engine.
	MethodIntegrated Method = "integrated"
)

// IsKnown reports whether m is one of the built-in methods. Unknown
// methods are still accepted by the fusion engine with its default weight.
func (m Method) IsKnown() bool {
	switch m {
	case MethodFrequency, MethodHeuristicTree, MethodLLM, MethodIntegrated:
		return true
	}
	return false
}

// Sentinel errors
var (
	// ErrInvalidConfig indicates an invalid miner or fusion configuration.
	ErrInvalidConfig = errors.New("invalid mining configuration")

	// ErrEmptyExpression indicates a candidate without an expression.
	ErrEmptyExpression = errors.New("candidate expression is empty")

	// ErrConfidenceRange indicates a confidence outside [0, 1].
	ErrConfidenceRange = errors.New("candidate confidence outside [0, 1]")

	// ErrSupportRange indicates negative counts or support above total.
	ErrSupportRange = errors.New("candidate support count exceeds total count")
)

// CandidateRule is a proposed boolean expression with its confidence and
// provenance. Rules are treated as immutable once produced.
type CandidateRule struct {
	Expression        string             `json:"expression" yaml:"expression"`
	Confidence        float64            `json:"confidence" yaml:"confidence"`
	Method            Method             `json:"method" yaml:"method"`
	SupportCount      int                `json:"support_count" yaml:"support_count"`
	TotalCount        int                `json:"total_count" yaml:"total_count"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty" yaml:"feature_importance,omitempty"`
}

// SupportRatio returns SupportCount / TotalCount, or 0 when TotalCount is 0.
func (r CandidateRule) SupportRatio() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.SupportCount) / float64(r.TotalCount)
}

// IsConfident reports whether the confidence meets threshold.
func (r CandidateRule) IsConfident(threshold float64) bool {
	return r.Confidence >= threshold
}

// Validate checks the shape invariants of a candidate. It does not parse
// the expression; see rulelang.Check for that.
func (r CandidateRule) Validate() error {
	if strings.TrimSpace(r.Expression) == "" {
		return ErrEmptyExpression
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrConfidenceRange, r.Confidence)
	}
	if r.SupportCount < 0 || r.TotalCount < 0 || r.SupportCount > r.TotalCount {
		return fmt.Errorf("%w: %d/%d", ErrSupportRange, r.SupportCount, r.TotalCount)
	}
	return nil
}

// String renders the rule for logs.
func (r CandidateRule) String() string {
	return fmt.Sprintf("%s [%s confidence=%.3f support=%d/%d]",
		r.Expression, r.Method, r.Confidence, r.SupportCount, r.TotalCount)
}

// FeedbackRecord is one labeled observation: the record a judgment was
// made on, serialized as a flat JSON object, and whether the outcome was
// accepted.
type FeedbackRecord struct {
	InputJSON  string `json:"input_json" yaml:"input_json"`
	IsPositive bool   `json:"is_positive" yaml:"is_positive"`
	LabelID    string `json:"label_id" yaml:"label_id"`
}

// Decode parses InputJSON. Records that are not JSON objects return
// eval.ErrInvalidRecord.
func (f FeedbackRecord) Decode() (map[string]any, error) {
	return eval.DecodeRecord([]byte(f.InputJSON))
}

// Positives returns the positively labeled records, preserving order.
func Positives(records []FeedbackRecord) []FeedbackRecord {
	out := make([]FeedbackRecord, 0, len(records))
	for _, r := range records {
		if r.IsPositive {
			out = append(out, r)
		}
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
