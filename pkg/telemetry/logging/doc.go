// Package logging builds the structured logger used across judgment.
//
// # Overview
//
// New returns a plain *slog.Logger in JSON, text or console format.
// Components accept that logger and fall back to slog.Default() when
// given nil. Records logged with a context automatically carry the run
// fields stored in it:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithTrigger(ctx, "schedule")
//	logger.InfoContext(ctx, "mining run completed", "rule", expr)
//	// {"level":"INFO","msg":"mining run completed","rule":"...","run_id":"...","trigger":"schedule"}
//
// The console format omits timestamps for interactive use.
package logging
