package config

import "time"

// Config is the root configuration structure for judgment.
// It contains the feedback source, the mining engines, the runner that
// repeats mining, and telemetry settings.
type Config struct {
	// Feedback describes where labeled feedback records are read from.
	Feedback FeedbackConfig `yaml:"feedback"`

	// Mining contains configuration for the miners, fusion and the
	// external candidate sources.
	Mining MiningConfig `yaml:"mining"`

	// Runner controls periodic and on-change mining runs.
	Runner RunnerConfig `yaml:"runner"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// FeedbackConfig contains configuration for the feedback file.
type FeedbackConfig struct {
	// Path is the feedback file (.json, .jsonl, .yaml or .yml).
	Path string `yaml:"path"`

	// PositiveAccuracy is the accuracy at or above which an entry without
	// an explicit is_positive flag counts as positive.
	// Default: 0.7
	PositiveAccuracy float64 `yaml:"positive_accuracy"`

	// MaxFileSize bounds the feedback file size in bytes.
	// Default: 100MB
	MaxFileSize int64 `yaml:"max_file_size"`
}

// MiningConfig contains configuration for a mining run.
type MiningConfig struct {
	// ChunkSize is the number of records screened between cancellation
	// checks.
	// Default: 500
	ChunkSize int `yaml:"chunk_size"`

	// Output is the file the fused rule is written to. The format follows
	// the extension (.json or .yaml). Empty writes to stdout only.
	Output string `yaml:"output"`

	// Frequency configures the frequency pattern miner.
	Frequency FrequencyConfig `yaml:"frequency"`

	// Heuristic configures the heuristic rule synthesizer.
	Heuristic HeuristicConfig `yaml:"heuristic"`

	// Fusion configures how candidates are reconciled.
	Fusion FusionConfig `yaml:"fusion"`

	// Sources lists external candidate files, such as captured LLM miner
	// output, re-read on every run.
	Sources []SourceConfig `yaml:"sources"`
}

// FrequencyConfig contains frequency miner settings.
type FrequencyConfig struct {
	// Threshold is the share of positive records a condition must occur in.
	// Default: 0.8
	Threshold float64 `yaml:"threshold"`

	// RoundStep is the numeric bucket width.
	// Default: 5.0
	RoundStep float64 `yaml:"round_step"`

	// Discount scales support into confidence.
	// Default: 0.9
	Discount float64 `yaml:"discount"`
}

// HeuristicConfig contains heuristic synthesizer settings.
type HeuristicConfig struct {
	// MaxDepth bounds the fitted tree.
	// Default: 3
	MaxDepth int `yaml:"max_depth"`

	// MinSamplesSplit is the minimum number of records to fit at all.
	// Default: 10
	MinSamplesSplit int `yaml:"min_samples_split"`

	// TopK caps the number of emitted rules.
	// Default: 3
	TopK int `yaml:"top_k"`
}

// FusionConfig contains fusion settings.
type FusionConfig struct {
	// Weights maps a method name to its weight.
	// Default: frequency 0.5, llm 0.5, heuristic_tree 0.4
	Weights map[string]float64 `yaml:"weights"`

	// DefaultWeight applies to methods missing from Weights. Unset means
	// the default; an explicit 0 mutes unlisted methods.
	// Default: 0.5
	DefaultWeight *float64 `yaml:"default_weight"`

	// AgreementBonus is added when two or more candidates agree. Unset
	// means the default; an explicit 0 disables the bonus.
	// Default: 0.05
	AgreementBonus *float64 `yaml:"agreement_bonus"`

	// MinConfidence is the floor a fused rule must reach. Unset means the
	// default; an explicit 0 accepts any rule.
	// Default: 0.70
	MinConfidence *float64 `yaml:"min_confidence"`
}

// SourceConfig describes one external candidate file.
type SourceConfig struct {
	// Path is the YAML or JSON candidate file.
	Path string `yaml:"path"`

	// Method stamps rules that do not name their own method.
	// Default: "llm"
	Method string `yaml:"method"`
}

// RunnerConfig contains configuration for repeated runs.
type RunnerConfig struct {
	// Schedule is a standard 5-field cron expression. Empty disables
	// scheduled runs.
	// Example: "0 */6 * * *"
	Schedule string `yaml:"schedule"`

	// Watch re-runs mining when the feedback file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period after a change before a run starts.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "judgment"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "mining"
	Subsystem string `yaml:"subsystem"`

	// TextfilePath is where metrics are written after each run in the
	// node-exporter textfile format. Empty disables the export.
	TextfilePath string `yaml:"textfile_path"`

	// RunDurationBuckets defines histogram buckets for mining run
	// duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60]
	RunDurationBuckets []float64 `yaml:"run_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "stdout", "otlp"
	// Default: "stdout"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "judgment"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
