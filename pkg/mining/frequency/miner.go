package frequency

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/rulelang/ast"
	"millwright/judgment/pkg/rulelang/eval"
	"millwright/judgment/pkg/rulelang/lexer"
)

// countSlack absorbs float error in threshold × positives, so 10 × 0.7
// needs 7 records and not 8.
const countSlack = 1e-9

// Miner derives per-field conditions from positively labeled feedback and
// keeps those that recur in enough records.
type Miner struct {
	config *Config
	logger *slog.Logger
}

// New creates a frequency miner. A nil config uses DefaultConfig.
func New(config *Config, logger *slog.Logger) (*Miner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{
		config: config,
		logger: logger.With("component", "frequency_miner"),
	}, nil
}

// Method returns the provenance stamped on mined rules.
func (m *Miner) Method() mining.Method { return mining.MethodFrequency }

// Mine returns the recurring conditions among the positive records,
// sorted by confidence descending, then expression. Empty feedback or no
// recurring condition returns an empty slice.
func (m *Miner) Mine(records []mining.FeedbackRecord) []mining.CandidateRule {
	positives := mining.Positives(records)
	if len(positives) == 0 {
		return []mining.CandidateRule{}
	}

	total := len(positives)
	counts := make(map[string]int)
	skipped := 0

	for _, record := range positives {
		conditions, err := m.ExtractConditions(record.InputJSON)
		if err != nil {
			skipped++
			m.logger.Debug("skipping undecodable feedback record",
				"label_id", record.LabelID,
				"error", err,
			)
			continue
		}
		for _, c := range conditions {
			counts[c]++
		}
	}

	minCount := int(math.Ceil(float64(total)*m.config.Threshold - countSlack))

	rules := make([]mining.CandidateRule, 0)
	for condition, count := range counts {
		if count < minCount {
			continue
		}
		ratio := float64(count) / float64(total)
		rules = append(rules, mining.CandidateRule{
			Expression:   condition,
			Confidence:   ratio * m.config.Discount,
			Method:       mining.MethodFrequency,
			SupportCount: count,
			TotalCount:   total,
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		return rules[i].Expression < rules[j].Expression
	})

	m.logger.Debug("frequency mining complete",
		"positives", total,
		"skipped", skipped,
		"distinct_conditions", len(counts),
		"min_count", minCount,
		"rules", len(rules),
	)

	return rules
}

// CalculateThreshold rounds v to the nearest step and steps back one
// unit, giving a threshold every value in that bucket exceeds.
// With a step of 5, 88 gives 85 and 43 gives 40.
func (m *Miner) CalculateThreshold(v float64) float64 {
	step := m.config.RoundStep
	return math.Round(v/step)*step - step
}

// ExtractConditions turns a flat JSON object into one condition per
// scalar field, in key order. Numbers become "field > t", booleans
// "field == true|false" and strings "field == \"value\"". Null, nested
// values and keys that are not valid variable names are skipped, as are
// numbers so large that stepping back one unit is lost to rounding. A
// non-object input returns eval.ErrInvalidRecord.
func (m *Miner) ExtractConditions(inputJSON string) ([]string, error) {
	data, err := eval.DecodeRecord([]byte(inputJSON))
	if err != nil {
		return nil, err
	}

	conditions := make([]string, 0, len(data))
	for _, key := range mining.SortedKeys(data) {
		if !lexer.IsIdentifier(key) {
			continue
		}
		switch v := data[key].(type) {
		case float64:
			t := m.CalculateThreshold(v)
			if !(t < v) {
				continue
			}
			conditions = append(conditions, fmt.Sprintf("%s > %s", key, ast.FormatNumber(t)))
		case bool:
			conditions = append(conditions, fmt.Sprintf("%s == %s", key, strconv.FormatBool(v)))
		case string:
			conditions = append(conditions, fmt.Sprintf("%s == %s", key, strconv.Quote(v)))
		}
	}
	return conditions, nil
}

// CombineConditions joins conditions with &&. An empty list combines to
// the always-true rule "true".
func CombineConditions(conditions []string) string {
	if len(conditions) == 0 {
		return "true"
	}
	return strings.Join(conditions, " && ")
}
