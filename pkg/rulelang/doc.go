// Package rulelang is the judgment rule language: a closed boolean
// expression language over flat records.
//
// # Overview
//
// A rule is a string such as
//
//	temperature > 80 && vibration < 50 || door_open == true
//
// evaluated against a record of observed values. The language has
// comparisons, && and ||, parentheses, and number, bool and string
// literals. It has no arithmetic, calls or assignment, so rules proposed by
// miners or by an LLM can be evaluated without code-execution risk.
//
// # Package Structure
//
//   - lexer: splits source into tokens
//   - ast: expression tree, rendering and traversal
//   - parser: recursive-descent parser with bounded nesting
//   - eval: evaluation with JSON value semantics
//   - validator: static checks before a rule is activated
//   - errors: syntax and semantic error types with suggestions
//
// # Basic Usage
//
//	ok, err := rulelang.Evaluate("temperature > 80", record)
//	if err != nil {
//	    // no verdict: route the record to manual review
//	}
//
// Validate a mined rule against the fields the feedback actually has:
//
//	if _, err := rulelang.Check(rule.Expression, "temperature", "vibration"); err != nil {
//	    ...
//	}
package rulelang
