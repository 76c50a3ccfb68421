package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"millwright/judgment/pkg/mining"
)

// Attribute keys use the "judgment.*" namespace.
const (
	// Run attributes
	AttrRunID    = "judgment.run.id"
	AttrTrigger  = "judgment.run.trigger"
	AttrRecords  = "judgment.records.total"
	AttrScreened = "judgment.records.screened"
	AttrDropped  = "judgment.records.dropped"

	// Candidate attributes
	AttrMethod     = "judgment.method"
	AttrSource     = "judgment.source"
	AttrCandidates = "judgment.candidates"
	AttrRejected   = "judgment.candidates.rejected"

	// Rule attributes
	AttrExpression = "judgment.rule.expression"
	AttrConfidence = "judgment.rule.confidence"
	AttrSupport    = "judgment.rule.support"
	AttrTotal      = "judgment.rule.total"
)

// SetScreeningAttributes records screening counts on a span.
func SetScreeningAttributes(span trace.Span, screened, dropped int) {
	span.SetAttributes(
		attribute.Int(AttrScreened, screened),
		attribute.Int(AttrDropped, dropped),
	)
}

// SetRuleAttributes records a fused rule on a span. A nil rule records
// nothing.
func SetRuleAttributes(span trace.Span, rule *mining.CandidateRule) {
	if rule == nil {
		return
	}
	span.SetAttributes(
		attribute.String(AttrExpression, rule.Expression),
		attribute.Float64(AttrConfidence, rule.Confidence),
		attribute.String(AttrMethod, string(rule.Method)),
		attribute.Int(AttrSupport, rule.SupportCount),
		attribute.Int(AttrTotal, rule.TotalCount),
	)
}

// CandidateEvent adds an event summarizing the candidates one miner or
// source produced.
func CandidateEvent(span trace.Span, source string, count int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrSource, source),
		attribute.Int(AttrCandidates, count),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error.message", err.Error()))
	}
	span.AddEvent("candidates", trace.WithAttributes(attrs...))
}
