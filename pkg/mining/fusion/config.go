package fusion

import (
	"fmt"
	"math"

	"millwright/judgment/pkg/mining"
)

// Config contains configuration for the rule fusion engine. It is built
// once by the caller and shared by every Fuse call.
type Config struct {
	// Weights is the weight of each candidate source in the weighted
	// confidence average.
	// Default: frequency 0.5, llm 0.5, heuristic_tree 0.4.
	Weights map[mining.Method]float64

	// DefaultWeight applies to methods missing from Weights.
	// Default: 0.5.
	DefaultWeight float64

	// AgreementBonus is added when two or more candidates share a
	// normalized expression. The result is capped at 1.0.
	// Default: 0.05.
	AgreementBonus float64

	// MinConfidence is the floor a fused rule must reach.
	// Default: 0.70.
	MinConfidence float64
}

// DefaultConfig returns the default fusion configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: map[mining.Method]float64{
			mining.MethodFrequency:     0.5,
			mining.MethodLLM:           0.5,
			mining.MethodHeuristicTree: 0.4,
		},
		DefaultWeight:  0.5,
		AgreementBonus: 0.05,
		MinConfidence:  0.70,
	}
}

// Validate validates the fusion configuration.
func (c *Config) Validate() error {
	for method, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight for %q must be a non-negative number, got %v", mining.ErrInvalidConfig, method, w)
		}
	}
	if c.DefaultWeight < 0 || math.IsNaN(c.DefaultWeight) {
		return fmt.Errorf("%w: default weight must be non-negative, got %v", mining.ErrInvalidConfig, c.DefaultWeight)
	}
	if c.AgreementBonus < 0 || c.AgreementBonus > 1 {
		return fmt.Errorf("%w: agreement bonus must be in [0, 1], got %v", mining.ErrInvalidConfig, c.AgreementBonus)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence must be in [0, 1], got %v", mining.ErrInvalidConfig, c.MinConfidence)
	}
	return nil
}

// Weight returns the weight of a method, falling back to DefaultWeight.
func (c *Config) Weight(method mining.Method) float64 {
	if w, ok := c.Weights[method]; ok {
		return w
	}
	return c.DefaultWeight
}

// WithWeight sets the weight of one method.
func (c *Config) WithWeight(method mining.Method, weight float64) *Config {
	if c.Weights == nil {
		c.Weights = make(map[mining.Method]float64)
	}
	c.Weights[method] = weight
	return c
}

// WithDefaultWeight sets the weight of unlisted methods.
func (c *Config) WithDefaultWeight(weight float64) *Config {
	c.DefaultWeight = weight
	return c
}

// WithAgreementBonus sets the agreement bonus.
func (c *Config) WithAgreementBonus(bonus float64) *Config {
	c.AgreementBonus = bonus
	return c
}

// WithMinConfidence sets the confidence floor.
func (c *Config) WithMinConfidence(min float64) *Config {
	c.MinConfidence = min
	return c
}
