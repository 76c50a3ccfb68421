// Package metrics provides Prometheus metrics collection for judgment.
//
// # Overview
//
// A Collector registers two metric families on a private registry:
//
//   - Evaluation metrics: evaluation count by outcome and latency. The
//     Collector implements eval.Observer, so any Evaluator can report to it.
//   - Mining metrics: runs, screened and dropped records, candidates per
//     method, rejections, source failures and the last fused confidence.
//
// judgment runs as a batch job, so instead of serving an endpoint the
// registry is written after each run in the node-exporter textfile format:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	evaluator := eval.NewEvaluator(collector)
//	...
//	collector.RecordRun("fused", time.Since(start), screened, dropped)
//	if err := collector.WriteToTextfile(cfg.Telemetry.Metrics.TextfilePath); err != nil {
//		logger.Warn("metrics export failed", "error", err)
//	}
//
// All recording methods are no-ops when metrics are disabled.
package metrics
