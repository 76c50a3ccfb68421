// Package ast defines the abstract syntax tree of the judgment rule language.
//
// A rule is a single boolean expression such as
//
//	temperature > 80 && vibration < 50
//
// The tree has three node families:
//
//   - Literals: NumberLit, BoolLit, StringLit
//   - Variable: a reference to a field of the record being judged
//   - BinaryOp: a comparison (>, <, >=, <=, ==, !=) or logical (&&, ||) operator
//
// Every node records the byte offset of the token that produced it so errors
// can point at the offending part of the expression.
//
// # Well-formedness
//
// The grammar alone admits trees the evaluator will reject, for example
// "(a > 1) > 2". A tree is well formed when every comparison has operand
// (non-BinaryOp) children and every logical operator has boolean-producing
// children. The evaluator enforces this dynamically; package validator checks
// it statically.
//
// # Immutability
//
// Nodes are built once by the parser and must not be modified afterwards.
// A tree is safe to share between goroutines.
package ast
