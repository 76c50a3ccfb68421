// Package errors provides the error types of the judgment rule language.
//
// Errors fall into two categories, mirroring how a rule can fail:
//
//   - syntax: the expression is not a sentence of the closed grammar
//     (single '=' or '!', unmatched parentheses, missing or trailing tokens)
//   - semantic: the expression parsed but cannot be evaluated against the
//     supplied record (missing variable, non-numeric value in a numeric
//     comparison, operand type mismatch)
//
// Both are returned, never panicked, and never coerced into a default
// verdict. Callers distinguish them with IsSyntax and IsSemantic:
//
//	ok, err := eval.Evaluate(expr, record)
//	if errors.IsSemantic(err) {
//	    // the record is missing data, route to manual review
//	}
//
// Pretty renders an error with a caret under the offending column.
package errors
