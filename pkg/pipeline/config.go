package pipeline

import (
	"fmt"

	"millwright/judgment/pkg/config"
	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/mining/frequency"
	"millwright/judgment/pkg/mining/fusion"
	"millwright/judgment/pkg/mining/heuristic"
)

// Config contains configuration for a mining pipeline.
type Config struct {
	// ChunkSize is the number of records screened between cancellation
	// checks.
	// Default: 500.
	ChunkSize int

	// Frequency configures the frequency miner. Nil uses its defaults.
	Frequency *frequency.Config

	// Heuristic configures the heuristic synthesizer. Nil uses its defaults.
	Heuristic *heuristic.Config

	// Fusion configures the fusion engine. Nil uses its defaults.
	Fusion *fusion.Config

	// KnownFieldsCheck rejects candidates that reference fields no
	// screened record carries.
	// Default: true.
	KnownFieldsCheck bool
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:        config.DefaultChunkSize,
		Frequency:        frequency.DefaultConfig(),
		Heuristic:        heuristic.DefaultConfig(),
		Fusion:           fusion.DefaultConfig(),
		KnownFieldsCheck: true,
	}
}

// FromConfig builds a pipeline configuration from the mining section of
// the file configuration. Defaults must already be applied.
func FromConfig(cfg *config.MiningConfig) *Config {
	fc := fusion.DefaultConfig()
	if cfg.Fusion.Weights != nil {
		fc.Weights = make(map[mining.Method]float64, len(cfg.Fusion.Weights))
		for method, w := range cfg.Fusion.Weights {
			fc.WithWeight(mining.Method(method), w)
		}
	}
	if cfg.Fusion.DefaultWeight != nil {
		fc.WithDefaultWeight(*cfg.Fusion.DefaultWeight)
	}
	if cfg.Fusion.AgreementBonus != nil {
		fc.WithAgreementBonus(*cfg.Fusion.AgreementBonus)
	}
	if cfg.Fusion.MinConfidence != nil {
		fc.WithMinConfidence(*cfg.Fusion.MinConfidence)
	}

	return &Config{
		ChunkSize: cfg.ChunkSize,
		Frequency: frequency.DefaultConfig().
			WithThreshold(cfg.Frequency.Threshold).
			WithRoundStep(cfg.Frequency.RoundStep).
			WithDiscount(cfg.Frequency.Discount),
		Heuristic: heuristic.DefaultConfig().
			WithMaxDepth(cfg.Heuristic.MaxDepth).
			WithMinSamplesSplit(cfg.Heuristic.MinSamplesSplit).
			WithTopK(cfg.Heuristic.TopK),
		Fusion:           fc,
		KnownFieldsCheck: true,
	}
}

// Validate validates the pipeline configuration. Engine configurations
// are validated by their constructors.
func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be at least 1, got %d", mining.ErrInvalidConfig, c.ChunkSize)
	}
	return nil
}

// WithChunkSize sets the screening chunk size.
func (c *Config) WithChunkSize(n int) *Config {
	c.ChunkSize = n
	return c
}

// WithFusion sets the fusion configuration.
func (c *Config) WithFusion(fc *fusion.Config) *Config {
	c.Fusion = fc
	return c
}

// WithKnownFieldsCheck enables or disables the known field check.
func (c *Config) WithKnownFieldsCheck(enabled bool) *Config {
	c.KnownFieldsCheck = enabled
	return c
}
