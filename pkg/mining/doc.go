// Package mining holds the types shared by the rule miners and the fusion
// engine.
//
// Labeled feedback flows through independent miners, each producing
// candidate rules, and the fusion engine reconciles them into at most one
// rule:
//
//	[]FeedbackRecord -> frequency.Miner      -> []CandidateRule -+
//	                 -> heuristic.Synthesizer -> []CandidateRule -+-> fusion.Engine -> *CandidateRule
//	                 -> source.CandidateSource -> []CandidateRule -+
//
// Too little data, no recurring pattern or no rule above the confidence
// floor are not errors. Miners return an empty slice and the fusion engine
// returns nil, meaning no rule could be derived safely.
package mining
