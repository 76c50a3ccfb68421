// Package fusion reconciles candidate rules from several miners into one
// trusted rule.
//
// Candidates are grouped by normalized expression. Within a group the
// confidence is the weighted mean over contributors, weighted by source
// method; when two or more contributors agree the AgreementBonus is added
// (capped at 1.0). Groups under MinConfidence are dropped and the most
// confident survivor wins. The fused rule is stamped "integrated".
//
//	engine, err := fusion.New(fusion.DefaultConfig(), logger)
//	rule := engine.Fuse([][]mining.CandidateRule{freqRules, treeRules, llmRules})
//	if rule == nil {
//	    // nothing confident enough: fall back to manual review
//	}
package fusion
