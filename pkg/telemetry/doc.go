// Package telemetry groups the observability packages used by judgment.
//
// # Components
//
//   - logging: slog logger construction and run-scoped context fields
//   - metrics: Prometheus evaluation and mining metrics with textfile export
//   - tracing: OpenTelemetry spans for mining runs (stdout or OTLP)
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(context.Background())
//
//	p, _ := pipeline.New(pcfg,
//		pipeline.WithLogger(logger),
//		pipeline.WithMetrics(collector),
//		pipeline.WithTracer(tracer.Tracer()),
//	)
package telemetry
