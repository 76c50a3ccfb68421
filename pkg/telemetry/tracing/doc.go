// Package tracing provides OpenTelemetry tracing for mining runs.
//
// # Overview
//
// New builds a Tracer from config.TracingConfig. Two exporters are
// supported: "stdout" (pretty-printed JSON, useful for one-off runs) and
// "otlp" (gRPC to a collector). A disabled configuration yields a noop
// tracer, so callers never branch on whether tracing is on.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "mining.run")
//	defer span.End()
//	tracing.SetRuleAttributes(span, rule)
//
// # Span Layout
//
// A mining run produces one "mining.run" span with children for
// screening, each miner or source, validation and fusion. Attribute keys
// live under the "judgment.*" namespace.
//
// # Sampling
//
// Samplers ("always", "never", "ratio") are parent based, so a run is
// either sampled entirely or not at all.
package tracing
