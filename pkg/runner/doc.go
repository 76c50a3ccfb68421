// Package runner triggers mining runs over time.
//
// Scheduler runs a Job on a cron schedule; FileWatcher runs it whenever
// the feedback file changes. Both tag the job context with the trigger
// ("schedule" or "watch") so log lines show why a run started:
//
//	job := func(ctx context.Context) error {
//		records, err := feedback.Load(path, opts)
//		if err != nil {
//			return err
//		}
//		_, err = p.Run(ctx, records)
//		return err
//	}
//
//	s := runner.NewScheduler("@every 1h", job, logger)
//	if err := s.Start(ctx); err != nil {
//		return err
//	}
//
// Failed jobs are logged and do not stop either trigger.
package runner
