// Package validator performs static checks on parsed rule expressions.
//
// The evaluator already rejects ill-typed trees at run time. The validator
// finds the same class of mistakes without a record, so mined rules and
// hand-written rules can be rejected before they are activated:
//
//   - the root and both sides of && and || must produce a boolean
//   - comparison operands must be values, not nested operations
//   - >, <, >= and <= may not take bool or string literals
//   - == and != may not compare literals of different kinds
//   - with WithKnownFields, variables must name a known field
//
// All problems are collected into one *errors.ErrorList.
package validator
