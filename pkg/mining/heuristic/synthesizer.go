package heuristic

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/rulelang/lexer"
)

const (
	baseConfidence = 0.85
	confidenceStep = 0.05
	shallowPenalty = 0.1
	minConfidence  = 0.5
	maxConfidence  = 0.95

	// ruleThreshold is the fixed cut-off of synthesized rules.
	ruleThreshold = "80"

	// supportSlack keeps 10 × 0.7999999999999999 at a support of 8.
	supportSlack = 1e-9
)

// ErrInsufficientData indicates too few records, or no numeric or boolean
// features, to fit a tree.
var ErrInsufficientData = errors.New("insufficient data to fit a tree")

// Synthesizer fits a classification tree to labeled feedback and emits a
// small ranked set of single-feature rules.
//
// The emitted rules do not come from the tree's split points: each
// feature f at position i yields "f > 80" with a confidence that decays
// with i. The fitted model is logged and available from Fit for
// inspection.
type Synthesizer struct {
	config *Config
	logger *slog.Logger
}

// New creates a synthesizer. A nil config uses DefaultConfig.
func New(config *Config, logger *slog.Logger) (*Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		config: config,
		logger: logger.With("component", "heuristic_synthesizer"),
	}, nil
}

// Method returns the provenance stamped on synthesized rules.
func (s *Synthesizer) Method() mining.Method { return mining.MethodHeuristicTree }

// Synthesize returns at most TopK rules sorted by confidence. Fewer than
// MinSamplesSplit records, or no usable feature, returns an empty slice.
func (s *Synthesizer) Synthesize(records []mining.FeedbackRecord) []mining.CandidateRule {
	model, err := s.Fit(records)
	if err != nil {
		s.logger.Debug("skipping heuristic synthesis",
			"records", len(records),
			"reason", err,
		)
		return []mining.CandidateRule{}
	}

	s.logger.Debug("fitted classification tree",
		"records", len(records),
		"features", len(model.Features),
		"depth", model.Depth,
		"leaves", model.Leaves,
		"accuracy", model.Accuracy,
		"positive_paths", model.PositivePaths(),
	)

	total := len(records)
	rules := make([]mining.CandidateRule, 0, len(model.Features))
	for i, feature := range model.Features {
		confidence := s.Confidence(i)
		rules = append(rules, mining.CandidateRule{
			Expression:        feature + " > " + ruleThreshold,
			Confidence:        confidence,
			Method:            mining.MethodHeuristicTree,
			SupportCount:      int(math.Floor(float64(total)*confidence + supportSlack)),
			TotalCount:        total,
			FeatureImportance: map[string]float64{feature: confidence},
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Confidence > rules[j].Confidence
	})

	if len(rules) > s.config.TopK {
		rules = rules[:s.config.TopK]
	}
	return rules
}

// Confidence returns the heuristic confidence of the feature at index:
// 0.85 minus 0.05 per position, minus 0.1 when MaxDepth is below 2,
// clamped to [0.5, 0.95].
func (s *Synthesizer) Confidence(index int) float64 {
	c := baseConfidence - float64(index)*confidenceStep
	if s.config.MaxDepth < 2 {
		c -= shallowPenalty
	}
	return math.Min(math.Max(c, minConfidence), maxConfidence)
}

// Fit builds the feature matrix from records and fits a Gini tree
// bounded by MaxDepth and MinSamplesSplit.
//
// Features are the keys of the first decodable record whose values are
// numbers or booleans, in sorted order. Booleans become 1 or 0; missing
// or non-numeric values become 0. Undecodable records are left out of the
// matrix.
func (s *Synthesizer) Fit(records []mining.FeedbackRecord) (*Model, error) {
	if len(records) < s.config.MinSamplesSplit {
		return nil, fmt.Errorf("%w: %d records, need %d", ErrInsufficientData, len(records), s.config.MinSamplesSplit)
	}

	var features []string
	x := make([][]float64, 0, len(records))
	y := make([]int, 0, len(records))

	for _, record := range records {
		data, err := record.Decode()
		if err != nil {
			continue
		}
		if features == nil {
			features = featureNames(data)
			if len(features) == 0 {
				return nil, fmt.Errorf("%w: no numeric or boolean features", ErrInsufficientData)
			}
		}

		row := make([]float64, len(features))
		for i, name := range features {
			row[i] = numeric(data[name])
		}
		x = append(x, row)

		label := 0
		if record.IsPositive {
			label = 1
		}
		y = append(y, label)
	}

	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no decodable records", ErrInsufficientData)
	}

	return fitTree(features, x, y, s.config.MaxDepth, s.config.MinSamplesSplit), nil
}

// featureNames returns the sorted keys holding numbers or booleans.
// Keys that are not valid variable names are left out so every
// synthesized rule parses.
func featureNames(data map[string]any) []string {
	names := make([]string, 0, len(data))
	for _, key := range mining.SortedKeys(data) {
		if !lexer.IsIdentifier(key) {
			continue
		}
		switch data[key].(type) {
		case float64, bool:
			names = append(names, key)
		}
	}
	return names
}

func numeric(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
	}
	return 0
}
