package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"millwright/judgment/pkg/cli"
	"millwright/judgment/pkg/feedback"
	"millwright/judgment/pkg/mining"
	"millwright/judgment/pkg/mining/source"
	"millwright/judgment/pkg/pipeline"
	"millwright/judgment/pkg/runner"
)

var mineFlags struct {
	feedback string
	sources  []string
	output   string
	watch    bool
	schedule string
	format   string
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a rule from labeled feedback",
	Long: `Mine one boolean rule from labeled feedback.

The frequency miner and the heuristic synthesizer run over the feedback,
together with any candidate files given with --source (for example the
captured output of an LLM-based miner). Candidates that do not parse are
rejected; the rest are fused into the single most confident rule.

Flags override the configuration file. With --watch the rule is re-mined
whenever the feedback file changes; with --schedule it is re-mined on a
cron schedule. Both run until interrupted.

Examples:
  # Mine once, print the rule
  judgment mine --feedback feedback.jsonl

  # Fuse with offline LLM candidates and save the rule
  judgment mine --feedback feedback.jsonl --source llm_rules.yaml --output rule.yaml

  # Keep the rule current
  judgment mine --feedback feedback.jsonl --output rule.yaml --watch --schedule "0 */6 * * *"`,
	RunE: mineRules,
}

func init() {
	rootCmd.AddCommand(mineCmd)

	mineCmd.Flags().StringVar(&mineFlags.feedback, "feedback", "", "feedback file (.json, .jsonl, .yaml)")
	mineCmd.Flags().StringSliceVar(&mineFlags.sources, "source", nil, "candidate rule file (repeatable)")
	mineCmd.Flags().StringVarP(&mineFlags.output, "output", "o", "", "write the fused rule to this file (.yaml or .json)")
	mineCmd.Flags().BoolVarP(&mineFlags.watch, "watch", "w", false, "re-mine when the feedback file changes")
	mineCmd.Flags().StringVar(&mineFlags.schedule, "schedule", "", "re-mine on a cron schedule")
	mineCmd.Flags().StringVar(&mineFlags.format, "format", "text", "output format: text, json, yaml")
}

// mineSummary is the printed outcome of one mining run.
type mineSummary struct {
	RunID        string                `json:"run_id" yaml:"run_id"`
	Rule         *mining.CandidateRule `json:"rule" yaml:"rule"`
	Screened     int                   `json:"screened" yaml:"screened"`
	Dropped      int                   `json:"dropped" yaml:"dropped"`
	Candidates   int                   `json:"candidates" yaml:"candidates"`
	Rejected     int                   `json:"rejected" yaml:"rejected"`
	SourceErrors []string              `json:"source_errors,omitempty" yaml:"source_errors,omitempty"`
	Output       string                `json:"output,omitempty" yaml:"output,omitempty"`
}

func newMineSummary(res *pipeline.Result, output string) mineSummary {
	s := mineSummary{
		RunID:      res.RunID,
		Rule:       res.Rule,
		Screened:   res.Screened,
		Dropped:    res.Dropped,
		Candidates: len(res.Candidates),
		Rejected:   len(res.Rejected),
		Output:     output,
	}
	for _, f := range res.SourceErrors {
		s.SourceErrors = append(s.SourceErrors, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return s
}

func (s mineSummary) String() string {
	var sb strings.Builder
	if s.Rule != nil {
		fmt.Fprintf(&sb, "Rule: %s\n", s.Rule.Expression)
		fmt.Fprintf(&sb, "Confidence: %.3f (support %d/%d)\n", s.Rule.Confidence, s.Rule.SupportCount, s.Rule.TotalCount)
	} else {
		sb.WriteString("Rule: none (no candidate reached the confidence floor)\n")
	}
	fmt.Fprintf(&sb, "Records: %d screened, %d dropped\n", s.Screened, s.Dropped)
	fmt.Fprintf(&sb, "Candidates: %d accepted, %d rejected\n", s.Candidates, s.Rejected)
	for _, e := range s.SourceErrors {
		fmt.Fprintf(&sb, "Source error: %s\n", e)
	}
	if s.Output != "" {
		fmt.Fprintf(&sb, "Saved to %s\n", s.Output)
	}
	fmt.Fprintf(&sb, "Run: %s", s.RunID)
	return sb.String()
}

func mineRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(mineFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeApp(a)

	cfg := a.cfg
	if mineFlags.feedback != "" {
		cfg.Feedback.Path = mineFlags.feedback
	}
	if mineFlags.output != "" {
		cfg.Mining.Output = mineFlags.output
	}
	if mineFlags.schedule != "" {
		cfg.Runner.Schedule = mineFlags.schedule
	}
	if mineFlags.watch {
		cfg.Runner.Watch = true
	}
	if cfg.Feedback.Path == "" {
		return cli.NewConfigError("feedback", "a feedback file is required (--feedback or feedback.path)")
	}

	sources := make([]source.CandidateSource, 0, len(cfg.Mining.Sources)+len(mineFlags.sources))
	for _, sc := range cfg.Mining.Sources {
		sources = append(sources, source.NewFile(sc.Path, mining.Method(sc.Method)))
	}
	for _, path := range mineFlags.sources {
		sources = append(sources, source.NewFile(path, mining.MethodLLM))
	}

	p, err := pipeline.New(pipeline.FromConfig(&cfg.Mining),
		pipeline.WithLogger(a.logger),
		pipeline.WithMetrics(a.metrics),
		pipeline.WithTracer(a.tracer.Tracer()),
		pipeline.WithSources(sources...),
	)
	if err != nil {
		return cli.NewConfigError("mining", err.Error())
	}

	opts := feedback.Options{
		PositiveAccuracy: cfg.Feedback.PositiveAccuracy,
		MaxFileSize:      cfg.Feedback.MaxFileSize,
	}
	formatter := cli.NewFormatter(format)

	// Runs triggered by the scheduler and the watcher must not overlap.
	var mu sync.Mutex
	job := func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()

		records, err := feedback.Load(cfg.Feedback.Path, opts)
		if err != nil {
			return err
		}
		res, err := p.Run(ctx, records)
		if err != nil {
			return err
		}

		saved := ""
		if res.Rule != nil && cfg.Mining.Output != "" {
			if err := pipeline.SaveRule(cfg.Mining.Output, res); err != nil {
				return err
			}
			saved = cfg.Mining.Output
		}
		if err := a.metrics.WriteToTextfile(cfg.Telemetry.Metrics.TextfilePath); err != nil {
			a.logger.WarnContext(ctx, "failed to export metrics", "error", err)
		}
		return formatter.FormatTo(cmd.OutOrStdout(), newMineSummary(res, saved))
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := cli.SetupSignalHandler(parent)
	defer stop()

	if err := job(ctx); err != nil {
		return cli.NewCommandError("mine", err)
	}
	if !cfg.Runner.Watch && cfg.Runner.Schedule == "" {
		return nil
	}

	return serve(ctx, a, job)
}

// serve runs job on the configured schedule and on feedback changes until
// ctx is cancelled.
func serve(ctx context.Context, a *app, job runner.Job) error {
	cfg := a.cfg

	if cfg.Runner.Schedule != "" {
		scheduler := runner.NewScheduler(cfg.Runner.Schedule, job, a.logger)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("schedule", err.Error())
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			a.logger.Info("next scheduled run", "at", next)
		}
	}

	if !cfg.Runner.Watch {
		<-ctx.Done()
		return nil
	}

	watchCfg := runner.DefaultFileWatcherConfig()
	watchCfg.Path = cfg.Feedback.Path
	if cfg.Runner.Debounce > 0 {
		watchCfg.DebounceInterval = cfg.Runner.Debounce
	}
	watcher, err := runner.NewFileWatcher(watchCfg, a.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(ctx, job); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("mine", err)
	}
	return nil
}
