package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/mining/frequency"
	"millwright/judgment/pkg/mining/fusion"
	"millwright/judgment/pkg/mining/heuristic"
	"millwright/judgment/pkg/mining/source"
	"millwright/judgment/pkg/rulelang"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/telemetry/logging"
	"millwright/judgment/pkg/telemetry/tracing"
)

// Run statuses reported to the Recorder.
const (
	StatusFused     = "fused"
	StatusNoRule    = "no_rule"
	StatusCancelled = "cancelled"
)

// Rejection reasons.
const (
	ReasonSyntax     = "syntax"
	ReasonSemantic   = "semantic"
	ReasonConfidence = "confidence"
	ReasonSupport    = "support"
)

// Recorder receives run metrics. metrics.Collector implements it.
type Recorder interface {
	RecordRun(status string, duration time.Duration, screened, dropped int)
	RecordCandidates(method string, count int)
	RecordRejected(reason string)
	RecordSourceError(source string)
	RecordFusedRule(confidence float64, at time.Time)
}

// Rejection is a candidate that failed validation before fusion.
type Rejection struct {
	Rule   mining.CandidateRule
	Reason string
	Err    error
}

// SourceFailure is an external source that failed during a run.
type SourceFailure struct {
	Source string
	Err    error
}

// Result is the outcome of one mining run. A nil Rule means no candidate
// was confident enough; that is not an error.
type Result struct {
	RunID        string
	Rule         *mining.CandidateRule
	Candidates   []mining.CandidateRule
	Rejected     []Rejection
	SourceErrors []SourceFailure
	Screened     int
	Dropped      int
	Duration     time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// WithTracer sets the tracer. Defaults to a noop tracer.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithSources adds external candidate sources.
func WithSources(sources ...source.CandidateSource) Option {
	return func(p *Pipeline) { p.sources = append(p.sources, sources...) }
}

// Pipeline runs the miners over feedback, validates their candidates and
// fuses them into one rule. A Pipeline is safe for sequential reuse; each
// Run is independent.
type Pipeline struct {
	config    *Config
	frequency *frequency.Miner
	heuristic *heuristic.Synthesizer
	fusion    *fusion.Engine
	sources   []source.CandidateSource

	logger  *slog.Logger
	metrics Recorder
	tracer  trace.Tracer
	now     func() time.Time
}

// New creates a pipeline. A nil config uses DefaultConfig.
func New(cfg *Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "pipeline")
	if p.tracer == nil {
		p.tracer = noop.NewTracerProvider().Tracer(tracing.InstrumentationName)
	}

	var err error
	if p.frequency, err = frequency.New(cfg.Frequency, p.logger); err != nil {
		return nil, fmt.Errorf("frequency miner: %w", err)
	}
	if p.heuristic, err = heuristic.New(cfg.Heuristic, p.logger); err != nil {
		return nil, fmt.Errorf("heuristic synthesizer: %w", err)
	}
	if p.fusion, err = fusion.New(cfg.Fusion, p.logger); err != nil {
		return nil, fmt.Errorf("fusion engine: %w", err)
	}

	return p, nil
}

// Run mines one rule from records. It fails only when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, records []mining.FeedbackRecord) (*Result, error) {
	start := p.now()
	res := &Result{RunID: uuid.NewString()}

	ctx = logging.WithRunID(ctx, res.RunID)
	ctx, span := p.tracer.Start(ctx, "mining.run", trace.WithAttributes(
		attribute.String(tracing.AttrRunID, res.RunID),
		attribute.Int(tracing.AttrRecords, len(records)),
	))
	defer span.End()

	p.logger.DebugContext(ctx, "mining run started", "records", len(records), "sources", len(p.sources))

	screened, fields, err := p.screen(ctx, records, res)
	if err != nil {
		return nil, p.fail(ctx, span, res, start, err)
	}

	sets, err := p.propose(ctx, screened, res)
	if err != nil {
		return nil, p.fail(ctx, span, res, start, err)
	}

	accepted := p.validate(ctx, sets, fields, res)

	_, fuseSpan := p.tracer.Start(ctx, "mining.fuse")
	res.Rule = p.fusion.Fuse(accepted)
	tracing.SetRuleAttributes(fuseSpan, res.Rule)
	fuseSpan.End()

	res.Duration = p.now().Sub(start)
	tracing.SetRuleAttributes(span, res.Rule)

	status := StatusNoRule
	if res.Rule != nil {
		status = StatusFused
		if p.metrics != nil {
			p.metrics.RecordFusedRule(res.Rule.Confidence, p.now())
		}
		p.logger.InfoContext(ctx, "mining run completed",
			"rule", res.Rule.Expression,
			"confidence", res.Rule.Confidence,
			"support", res.Rule.SupportCount,
			"total", res.Rule.TotalCount,
			"candidates", len(res.Candidates),
			"rejected", len(res.Rejected),
			"duration", res.Duration,
		)
	} else {
		p.logger.InfoContext(ctx, "mining run completed without a confident rule",
			"candidates", len(res.Candidates),
			"rejected", len(res.Rejected),
			"duration", res.Duration,
		)
	}
	if p.metrics != nil {
		p.metrics.RecordRun(status, res.Duration, res.Screened, res.Dropped)
	}

	return res, nil
}

// screen decodes records in chunks, dropping those whose input is not a
// JSON object, and collects the field names seen.
func (p *Pipeline) screen(ctx context.Context, records []mining.FeedbackRecord, res *Result) ([]mining.FeedbackRecord, []string, error) {
	ctx, span := p.tracer.Start(ctx, "mining.screen")
	defer span.End()

	kept := make([]mining.FeedbackRecord, 0, len(records))
	seen := make(map[string]struct{})

	for lo := 0; lo < len(records); lo += p.config.ChunkSize {
		if err := ctx.Err(); err != nil {
			tracing.SetError(span, err)
			return nil, nil, err
		}

		hi := min(lo+p.config.ChunkSize, len(records))
		for _, rec := range records[lo:hi] {
			data, err := rec.Decode()
			if err != nil {
				res.Dropped++
				p.logger.DebugContext(ctx, "dropping undecodable record", "label_id", rec.LabelID, "error", err)
				continue
			}
			for k := range data {
				seen[k] = struct{}{}
			}
			kept = append(kept, rec)
		}
	}

	res.Screened = len(kept)
	tracing.SetScreeningAttributes(span, res.Screened, res.Dropped)

	return kept, mining.SortedKeys(seen), nil
}

// propose runs the built-in miners and every external source
// concurrently. Source failures are recorded and skipped; only
// cancellation aborts the run.
func (p *Pipeline) propose(ctx context.Context, records []mining.FeedbackRecord, res *Result) ([][]mining.CandidateRule, error) {
	sets := make([][]mining.CandidateRule, 2+len(p.sources))
	failures := make([]error, len(p.sources))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, span := p.tracer.Start(gCtx, "mining.propose", trace.WithAttributes(
			attribute.String(tracing.AttrSource, string(mining.MethodFrequency))))
		defer span.End()

		sets[0] = p.frequency.Mine(records)
		tracing.CandidateEvent(span, string(mining.MethodFrequency), len(sets[0]), nil)
		return gCtx.Err()
	})

	g.Go(func() error {
		_, span := p.tracer.Start(gCtx, "mining.propose", trace.WithAttributes(
			attribute.String(tracing.AttrSource, string(mining.MethodHeuristicTree))))
		defer span.End()

		sets[1] = p.heuristic.Synthesize(records)
		tracing.CandidateEvent(span, string(mining.MethodHeuristicTree), len(sets[1]), nil)
		return gCtx.Err()
	})

	for i, src := range p.sources {
		i, src := i, src
		g.Go(func() error {
			sctx := logging.WithSource(gCtx, src.Name())
			sctx, span := p.tracer.Start(sctx, "mining.propose", trace.WithAttributes(
				attribute.String(tracing.AttrSource, src.Name())))
			defer span.End()

			rules, err := src.Propose(sctx, records)
			tracing.CandidateEvent(span, src.Name(), len(rules), err)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			sets[2+i] = rules
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, err := range failures {
		if err == nil {
			continue
		}
		name := p.sources[i].Name()
		res.SourceErrors = append(res.SourceErrors, SourceFailure{Source: name, Err: err})
		if p.metrics != nil {
			p.metrics.RecordSourceError(name)
		}
		p.logger.WarnContext(logging.WithSource(ctx, name), "candidate source failed", "error", err)
	}

	return sets, nil
}

// validate drops candidates that do not parse, reference unknown fields,
// or carry out-of-range confidence or counts.
func (p *Pipeline) validate(ctx context.Context, sets [][]mining.CandidateRule, fields []string, res *Result) [][]mining.CandidateRule {
	_, span := p.tracer.Start(ctx, "mining.validate")
	defer span.End()

	var known []string
	if p.config.KnownFieldsCheck {
		known = fields
	}

	counts := make(map[mining.Method]int)
	accepted := make([][]mining.CandidateRule, len(sets))
	for i, set := range sets {
		for _, rule := range set {
			counts[rule.Method]++

			if reason, err := check(rule, known); err != nil {
				res.Rejected = append(res.Rejected, Rejection{Rule: rule, Reason: reason, Err: err})
				if p.metrics != nil {
					p.metrics.RecordRejected(reason)
				}
				p.logger.DebugContext(ctx, "rejecting candidate",
					"expression", rule.Expression,
					"method", rule.Method,
					"reason", reason,
					"error", err,
				)
				continue
			}
			accepted[i] = append(accepted[i], rule)
			res.Candidates = append(res.Candidates, rule)
		}
	}

	if p.metrics != nil {
		methods := make([]string, 0, len(counts))
		for m := range counts {
			methods = append(methods, string(m))
		}
		sort.Strings(methods)
		for _, m := range methods {
			p.metrics.RecordCandidates(m, counts[mining.Method(m)])
		}
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrCandidates, len(res.Candidates)),
		attribute.Int(tracing.AttrRejected, len(res.Rejected)),
	)

	return accepted
}

// check returns the rejection reason for a candidate, or a nil error.
func check(rule mining.CandidateRule, fields []string) (string, error) {
	if _, err := rulelang.Check(rule.Expression, fields...); err != nil {
		if rlerrors.IsSyntax(err) {
			return ReasonSyntax, err
		}
		return ReasonSemantic, err
	}

	if err := rule.Validate(); err != nil {
		if errors.Is(err, mining.ErrSupportRange) {
			return ReasonSupport, err
		}
		return ReasonConfidence, err
	}
	return "", nil
}

// fail records a cancelled run.
func (p *Pipeline) fail(ctx context.Context, span trace.Span, res *Result, start time.Time, err error) error {
	res.Duration = p.now().Sub(start)
	tracing.SetError(span, err)
	if p.metrics != nil {
		p.metrics.RecordRun(StatusCancelled, res.Duration, res.Screened, res.Dropped)
	}
	p.logger.WarnContext(ctx, "mining run aborted", "error", err, "duration", res.Duration)
	return fmt.Errorf("mining run %s: %w", res.RunID, err)
}
