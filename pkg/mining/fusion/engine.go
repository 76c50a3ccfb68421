package fusion

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"millwright/judgment/pkg/mining"
)

// Engine merges candidate rule sets from independent sources into the
// single best rule.
type Engine struct {
	config *Config
	logger *slog.Logger
}

// New creates a fusion engine. A nil config uses DefaultConfig.
func New(config *Config, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config: config,
		logger: logger.With("component", "fusion_engine"),
	}, nil
}

// Group is the fused result for one normalized expression.
type Group struct {
	Key   string
	Rule  mining.CandidateRule
	Rules []mining.CandidateRule
}

// Fuse returns the most confident fused rule, or nil when no group
// reaches MinConfidence. Empty input is not an error.
func (e *Engine) Fuse(sets [][]mining.CandidateRule) *mining.CandidateRule {
	groups := e.Rank(sets)
	if len(groups) == 0 {
		return nil
	}
	best := groups[0].Rule
	return &best
}

// Rank fuses every group and returns the survivors of the confidence
// floor, most confident first. Ties are broken by support, then by
// normalized expression.
func (e *Engine) Rank(sets [][]mining.CandidateRule) []Group {
	var order []string
	members := make(map[string][]mining.CandidateRule)

	for _, set := range sets {
		for _, rule := range set {
			key := NormalizeExpression(rule.Expression)
			if key == "" {
				continue
			}
			if _, seen := members[key]; !seen {
				order = append(order, key)
			}
			members[key] = append(members[key], rule)
		}
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		rules := members[key]
		fused := e.fuseGroup(rules)
		if fused.Confidence < e.config.MinConfidence {
			e.logger.Debug("dropping fused rule below confidence floor",
				"expression", fused.Expression,
				"confidence", fused.Confidence,
				"contributors", len(rules),
			)
			continue
		}
		groups = append(groups, Group{Key: key, Rule: fused, Rules: rules})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Rule, groups[j].Rule
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.SupportCount != b.SupportCount {
			return a.SupportCount > b.SupportCount
		}
		return groups[i].Key < groups[j].Key
	})

	e.logger.Debug("fused candidate rules",
		"groups", len(order),
		"surviving", len(groups),
	)

	return groups
}

// fuseGroup computes the weighted confidence, agreement bonus, merged
// feature importance and counts of one group.
func (e *Engine) fuseGroup(rules []mining.CandidateRule) mining.CandidateRule {
	var weighted, totalWeight float64
	support, total := 0, 0
	importance := make(map[string]float64)

	for _, r := range rules {
		w := e.config.Weight(r.Method)
		weighted += r.Confidence * w
		totalWeight += w
		support = max(support, r.SupportCount)
		total = max(total, r.TotalCount)
		for feature, score := range r.FeatureImportance {
			importance[feature] += score
		}
	}

	confidence := 0.0
	if totalWeight > 0 {
		confidence = weighted / totalWeight
	}
	if len(rules) >= 2 {
		confidence = math.Min(confidence+e.config.AgreementBonus, 1.0)
	}

	fused := mining.CandidateRule{
		Expression:   strings.TrimSpace(rules[0].Expression),
		Confidence:   confidence,
		Method:       mining.MethodIntegrated,
		SupportCount: min(support, total),
		TotalCount:   total,
	}

	if len(importance) > 0 {
		for feature := range importance {
			importance[feature] /= float64(len(rules))
		}
		fused.FeatureImportance = importance
	}

	return fused
}

// NormalizeExpression returns the grouping key of an expression: trimmed,
// internal whitespace collapsed to single spaces, and lowercased.
// It governs equivalence only; fused rules keep their original spelling.
func NormalizeExpression(expr string) string {
	return strings.ToLower(strings.Join(strings.Fields(expr), " "))
}
