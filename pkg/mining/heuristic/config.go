package heuristic

import (
	"fmt"

	"millwright/judgment/pkg/mining"
)

// Config contains configuration for the heuristic rule synthesizer.
type Config struct {
	// MaxDepth bounds the fitted tree. Below 2 the emitted confidences are
	// penalized, since a stump says little about feature interaction.
	// Default: 3.
	MaxDepth int

	// MinSamplesSplit is the minimum number of records needed to split a
	// node, and to synthesize anything at all.
	// Default: 10.
	MinSamplesSplit int

	// TopK caps the number of emitted rules.
	// Default: 3.
	TopK int
}

// DefaultConfig returns the default synthesizer configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:        3,
		MinSamplesSplit: 10,
		TopK:            3,
	}
}

// Validate validates the synthesizer configuration.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1, got %d", mining.ErrInvalidConfig, c.MaxDepth)
	}
	if c.MinSamplesSplit < 2 {
		return fmt.Errorf("%w: min samples split must be at least 2, got %d", mining.ErrInvalidConfig, c.MinSamplesSplit)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: top k must be at least 1, got %d", mining.ErrInvalidConfig, c.TopK)
	}
	return nil
}

// WithMaxDepth sets the maximum tree depth.
func (c *Config) WithMaxDepth(depth int) *Config {
	c.MaxDepth = depth
	return c
}

// WithMinSamplesSplit sets the minimum samples needed to split.
func (c *Config) WithMinSamplesSplit(n int) *Config {
	c.MinSamplesSplit = n
	return c
}

// WithTopK sets the maximum number of emitted rules.
func (c *Config) WithTopK(k int) *Config {
	c.TopK = k
	return c
}
