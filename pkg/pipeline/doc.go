// Package pipeline runs one mining pass over labeled feedback.
//
// A run screens the records, runs the frequency miner, the heuristic
// synthesizer and any external candidate sources concurrently, rejects
// candidates that do not parse or carry impossible statistics, and fuses
// the rest into a single rule:
//
//	p, err := pipeline.New(pipeline.FromConfig(&cfg.Mining),
//		pipeline.WithLogger(logger),
//		pipeline.WithSources(source.NewFile("llm.yaml", mining.MethodLLM)),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := p.Run(ctx, records)
//	if err != nil {
//		return err // cancelled
//	}
//	if res.Rule != nil {
//		err = pipeline.SaveRule("rule.yaml", res)
//	}
//
// A failing source is recorded in Result.SourceErrors and does not abort
// the run. A run that finds no confident rule returns a nil Rule and no
// error.
package pipeline
