// Package heuristic synthesizes single-feature candidate rules from
// labeled feedback.
//
// A CART classification tree (Gini criterion, bounded by MaxDepth and
// MinSamplesSplit) is fitted to the numeric and boolean fields of the
// feedback. Its depth, leaf count, training accuracy and positive decision
// paths are reported for inspection, but the emitted rules keep the
// established heuristic: one "feature > 80" rule per feature with a
// confidence that decays by feature position, top three only.
//
//	synth, err := heuristic.New(heuristic.DefaultConfig(), logger)
//	rules := synth.Synthesize(records)
package heuristic
