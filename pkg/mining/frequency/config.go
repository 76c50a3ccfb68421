package frequency

import (
	"fmt"

	"millwright/judgment/pkg/mining"
)

// Config contains configuration for the frequency pattern miner.
type Config struct {
	// Threshold is the share of positive records a condition must occur in
	// to be kept.
	// Default: 0.80.
	Threshold float64

	// RoundStep is the bucket width used to turn numeric values into
	// thresholds.
	// Default: 5.0.
	RoundStep float64

	// Discount scales the support ratio into a confidence, so a condition
	// seen in every positive record is still not fully trusted.
	// Default: 0.9.
	Discount float64
}

// DefaultConfig returns the default miner configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold: 0.80,
		RoundStep: 5.0,
		Discount:  0.9,
	}
}

// Validate validates the miner configuration.
func (c *Config) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: frequency threshold must be in (0, 1], got %v", mining.ErrInvalidConfig, c.Threshold)
	}
	if c.RoundStep <= 0 {
		return fmt.Errorf("%w: round step must be positive, got %v", mining.ErrInvalidConfig, c.RoundStep)
	}
	if c.Discount <= 0 || c.Discount > 1 {
		return fmt.Errorf("%w: discount must be in (0, 1], got %v", mining.ErrInvalidConfig, c.Discount)
	}
	return nil
}

// WithThreshold sets the support threshold.
func (c *Config) WithThreshold(threshold float64) *Config {
	c.Threshold = threshold
	return c
}

// WithRoundStep sets the numeric bucket width.
func (c *Config) WithRoundStep(step float64) *Config {
	c.RoundStep = step
	return c
}

// WithDiscount sets the confidence discount.
func (c *Config) WithDiscount(discount float64) *Config {
	c.Discount = discount
	return c
}
