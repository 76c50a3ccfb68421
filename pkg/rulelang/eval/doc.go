// Package eval evaluates rule language expressions against flat records.
//
// Evaluation is a pure function of the expression and the record: no I/O,
// no shared state, and no logging, so it can run once per incoming record
// from any number of goroutines.
//
// # Semantics
//
// A variable in logical position is coerced by truthiness (null is false,
// numbers are true when non-zero, strings, arrays and objects when
// non-empty). In comparison position it must hold a number for >, <, >=
// and <=; == and != also accept two bools or two strings. Numeric
// equality uses Epsilon instead of exact comparison.
//
// Both operands of && and || are evaluated, so a missing variable is
// reported even when the other side already decides the result.
//
// # Basic Usage
//
//	ok, err := eval.Evaluate("temperature > 80 && vibration < 50", map[string]any{
//	    "temperature": 85.0,
//	    "vibration":   30.0,
//	})
//
// For the hot path, compile once and reuse the Program:
//
//	prog, err := eval.Compile(rule.Expression)
//	...
//	for _, record := range records {
//	    ok, err := prog.Evaluate(record)
//	}
package eval
