// Package source defines how external rule proposers plug into fusion.
//
// A CandidateSource returns candidate rules with the same shape the
// built-in miners produce. File serves the captured output of an offline
// miner (for example an LLM prompt run) and Func wraps any function.
// Source failures are reported and skipped by the pipeline; they never
// fail a mining run.
package source
