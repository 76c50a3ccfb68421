package config

import "time"

// Default values for configuration fields.
const (
	// Feedback defaults
	DefaultPositiveAccuracy    = 0.7
	DefaultFeedbackMaxFileSize = int64(100 * 1024 * 1024)

	// Mining defaults
	DefaultChunkSize          = 500
	DefaultFrequencyThreshold = 0.8
	DefaultFrequencyRoundStep = 5.0
	DefaultFrequencyDiscount  = 0.9
	DefaultHeuristicMaxDepth  = 3
	DefaultHeuristicMinSplit  = 10
	DefaultHeuristicTopK      = 3
	DefaultFusionWeight       = 0.5
	DefaultAgreementBonus     = 0.05
	DefaultMinConfidence      = 0.70
	DefaultSourceMethod       = "llm"

	// Runner defaults
	DefaultDebounce = 500 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "json"
	DefaultMetricsNamespace    = "judgment"
	DefaultMetricsSubsystem    = "mining"
	DefaultTracingSampler      = "ratio"
	DefaultTracingSamplingRate = 1.0
	DefaultTracingExporter     = "stdout"
	DefaultTracingServiceName  = "judgment"
	DefaultOTLPTimeout         = 10 * time.Second
)

// DefaultFusionWeights returns the default per-method fusion weights.
func DefaultFusionWeights() map[string]float64 {
	return map[string]float64{
		"frequency":      0.5,
		"llm":            0.5,
		"heuristic_tree": 0.4,
	}
}

// DefaultRunDurationBuckets returns the default run duration histogram
// buckets in seconds.
func DefaultRunDurationBuckets() []float64 {
	return []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Feedback defaults
	if cfg.Feedback.PositiveAccuracy == 0 {
		cfg.Feedback.PositiveAccuracy = DefaultPositiveAccuracy
	}
	if cfg.Feedback.MaxFileSize == 0 {
		cfg.Feedback.MaxFileSize = DefaultFeedbackMaxFileSize
	}

	// Mining defaults
	if cfg.Mining.ChunkSize == 0 {
		cfg.Mining.ChunkSize = DefaultChunkSize
	}
	if cfg.Mining.Frequency.Threshold == 0 {
		cfg.Mining.Frequency.Threshold = DefaultFrequencyThreshold
	}
	if cfg.Mining.Frequency.RoundStep == 0 {
		cfg.Mining.Frequency.RoundStep = DefaultFrequencyRoundStep
	}
	if cfg.Mining.Frequency.Discount == 0 {
		cfg.Mining.Frequency.Discount = DefaultFrequencyDiscount
	}
	if cfg.Mining.Heuristic.MaxDepth == 0 {
		cfg.Mining.Heuristic.MaxDepth = DefaultHeuristicMaxDepth
	}
	if cfg.Mining.Heuristic.MinSamplesSplit == 0 {
		cfg.Mining.Heuristic.MinSamplesSplit = DefaultHeuristicMinSplit
	}
	if cfg.Mining.Heuristic.TopK == 0 {
		cfg.Mining.Heuristic.TopK = DefaultHeuristicTopK
	}
	if cfg.Mining.Fusion.Weights == nil {
		cfg.Mining.Fusion.Weights = DefaultFusionWeights()
	}
	if cfg.Mining.Fusion.DefaultWeight == nil {
		weight := DefaultFusionWeight
		cfg.Mining.Fusion.DefaultWeight = &weight
	}
	if cfg.Mining.Fusion.AgreementBonus == nil {
		bonus := DefaultAgreementBonus
		cfg.Mining.Fusion.AgreementBonus = &bonus
	}
	if cfg.Mining.Fusion.MinConfidence == nil {
		floor := DefaultMinConfidence
		cfg.Mining.Fusion.MinConfidence = &floor
	}
	for i := range cfg.Mining.Sources {
		if cfg.Mining.Sources[i].Method == "" {
			cfg.Mining.Sources[i].Method = DefaultSourceMethod
		}
	}

	// Runner defaults
	if cfg.Runner.Debounce == 0 {
		cfg.Runner.Debounce = DefaultDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RunDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RunDurationBuckets = DefaultRunDurationBuckets()
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
