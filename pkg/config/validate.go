package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "mining.chunk_size").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateFeedback(&cfg.Feedback)...)
	errs = append(errs, validateMining(&cfg.Mining)...)
	errs = append(errs, validateRunner(&cfg.Runner)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateFeedback validates feedback configuration.
func validateFeedback(cfg *FeedbackConfig) []FieldError {
	var errs []FieldError

	if cfg.Path != "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".json", ".jsonl", ".ndjson", ".yaml", ".yml":
		default:
			errs = append(errs, FieldError{
				Field:   "feedback.path",
				Message: fmt.Sprintf("unsupported feedback file extension %q", filepath.Ext(cfg.Path)),
			})
		}
	}
	if !inUnitRange(cfg.PositiveAccuracy) {
		errs = append(errs, FieldError{
			Field:   "feedback.positive_accuracy",
			Message: "positive accuracy must be between 0.0 and 1.0",
		})
	}
	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "feedback.max_file_size",
			Message: "max file size must be non-negative",
		})
	}

	return errs
}

// validateMining validates mining configuration.
func validateMining(cfg *MiningConfig) []FieldError {
	var errs []FieldError

	if cfg.ChunkSize < 1 {
		errs = append(errs, FieldError{
			Field:   "mining.chunk_size",
			Message: "chunk size must be at least 1",
		})
	}
	if cfg.Output != "" {
		switch strings.ToLower(filepath.Ext(cfg.Output)) {
		case ".json", ".yaml", ".yml":
		default:
			errs = append(errs, FieldError{
				Field:   "mining.output",
				Message: "output file must end in .json, .yaml or .yml",
			})
		}
	}

	// Frequency miner
	if cfg.Frequency.Threshold <= 0 || cfg.Frequency.Threshold > 1 {
		errs = append(errs, FieldError{
			Field:   "mining.frequency.threshold",
			Message: "threshold must be in (0, 1]",
		})
	}
	if cfg.Frequency.RoundStep <= 0 {
		errs = append(errs, FieldError{
			Field:   "mining.frequency.round_step",
			Message: "round step must be positive",
		})
	}
	if cfg.Frequency.Discount <= 0 || cfg.Frequency.Discount > 1 {
		errs = append(errs, FieldError{
			Field:   "mining.frequency.discount",
			Message: "discount must be in (0, 1]",
		})
	}

	// Heuristic synthesizer
	if cfg.Heuristic.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "mining.heuristic.max_depth",
			Message: "max depth must be at least 1",
		})
	}
	if cfg.Heuristic.MinSamplesSplit < 2 {
		errs = append(errs, FieldError{
			Field:   "mining.heuristic.min_samples_split",
			Message: "min samples split must be at least 2",
		})
	}
	if cfg.Heuristic.TopK < 1 {
		errs = append(errs, FieldError{
			Field:   "mining.heuristic.top_k",
			Message: "top k must be at least 1",
		})
	}

	// Fusion
	for method, w := range cfg.Fusion.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("mining.fusion.weights.%s", method),
				Message: "weight must be a non-negative number",
			})
		}
	}
	if w := cfg.Fusion.DefaultWeight; w != nil && (*w < 0 || math.IsNaN(*w) || math.IsInf(*w, 0)) {
		errs = append(errs, FieldError{
			Field:   "mining.fusion.default_weight",
			Message: "default weight must be a non-negative number",
		})
	}
	if cfg.Fusion.AgreementBonus != nil && !inUnitRange(*cfg.Fusion.AgreementBonus) {
		errs = append(errs, FieldError{
			Field:   "mining.fusion.agreement_bonus",
			Message: "agreement bonus must be between 0.0 and 1.0",
		})
	}
	if cfg.Fusion.MinConfidence != nil && !inUnitRange(*cfg.Fusion.MinConfidence) {
		errs = append(errs, FieldError{
			Field:   "mining.fusion.min_confidence",
			Message: "min confidence must be between 0.0 and 1.0",
		})
	}

	// External sources
	for i, src := range cfg.Sources {
		if src.Path == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("mining.sources[%d].path", i),
				Message: "source path is required",
			})
		}
	}

	return errs
}

// validateRunner validates runner configuration.
func validateRunner(cfg *RunnerConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "runner.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "runner.debounce",
			Message: "debounce must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "metrics namespace is required when metrics are enabled",
		})
	}
	for i := 1; i < len(cfg.Metrics.RunDurationBuckets); i++ {
		if cfg.Metrics.RunDurationBuckets[i] <= cfg.Metrics.RunDurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.run_duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if !inUnitRange(cfg.Tracing.SampleRatio) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	switch cfg.Tracing.Exporter {
	case "stdout":
	case "otlp":
		if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "tracing endpoint is required for the otlp exporter",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("invalid exporter %q: must be 'stdout' or 'otlp'", cfg.Tracing.Exporter),
		})
	}
	if cfg.Tracing.OTLP.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.otlp.timeout",
			Message: "timeout must be non-negative",
		})
	}

	return errs
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
