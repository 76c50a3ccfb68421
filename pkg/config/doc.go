// Package config provides configuration loading for judgment.
//
// Configuration is read from a YAML file, completed with defaults,
// overridden from the environment and validated as a whole:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("judgment.yaml")
//	if err != nil {
//	    var verr config.ValidationError
//	    if errors.As(err, &verr) {
//	        for _, fe := range verr.Errors {
//	            fmt.Println(fe.Field, fe.Message)
//	        }
//	    }
//	}
//
// # File format
//
//	feedback:
//	  path: data/feedback.jsonl
//	  positive_accuracy: 0.7
//	mining:
//	  chunk_size: 500
//	  output: rules/current.yaml
//	  frequency:
//	    threshold: 0.8
//	  fusion:
//	    min_confidence: 0.7
//	    weights:
//	      frequency: 0.5
//	      llm: 0.5
//	      heuristic_tree: 0.4
//	  sources:
//	    - path: data/llm-candidates.yaml
//	      method: llm
//	runner:
//	  schedule: "0 */6 * * *"
//	  watch: true
//	  debounce: 2s
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    textfile_path: /var/lib/node_exporter/judgment.prom
//	  tracing:
//	    enabled: true
//	    exporter: otlp
//	    endpoint: localhost:4317
//
// # Environment Overrides
//
// Environment variables follow JUDGMENT_SECTION_FIELD and take
// precedence over the file: JUDGMENT_FEEDBACK_PATH,
// JUDGMENT_FEEDBACK_POSITIVE_ACCURACY, JUDGMENT_MINING_CHUNK_SIZE,
// JUDGMENT_MINING_OUTPUT, JUDGMENT_MINING_FREQUENCY_THRESHOLD,
// JUDGMENT_MINING_FUSION_MIN_CONFIDENCE, JUDGMENT_RUNNER_SCHEDULE,
// JUDGMENT_RUNNER_WATCH, JUDGMENT_RUNNER_DEBOUNCE,
// JUDGMENT_TELEMETRY_LOGGING_LEVEL, JUDGMENT_TELEMETRY_LOGGING_FORMAT,
// JUDGMENT_TELEMETRY_METRICS_ENABLED, JUDGMENT_TELEMETRY_METRICS_TEXTFILE_PATH,
// JUDGMENT_TELEMETRY_TRACING_ENABLED, JUDGMENT_TELEMETRY_TRACING_EXPORTER,
// JUDGMENT_TELEMETRY_TRACING_ENDPOINT and JUDGMENT_TELEMETRY_TRACING_SAMPLE_RATIO.
package config
