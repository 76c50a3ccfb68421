package ast

import (
	"strconv"
	"strings"
)

// Operator is a binary operator of the rule language.
type Operator string

const (
	OperatorGreaterThan  Operator = ">"
	OperatorLessThan     Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorAnd          Operator = "&&"
	OperatorOr           Operator = "||"
)

// IsComparison returns true for >, <, >=, <=, == and !=.
func (o Operator) IsComparison() bool {
	switch o {
	case OperatorGreaterThan, OperatorLessThan, OperatorGreaterEqual,
		OperatorLessEqual, OperatorEqual, OperatorNotEqual:
		return true
	}
	return false
}

// IsOrdering returns true for the comparisons that need numeric operands.
func (o Operator) IsOrdering() bool {
	switch o {
	case OperatorGreaterThan, OperatorLessThan, OperatorGreaterEqual, OperatorLessEqual:
		return true
	}
	return false
}

// IsLogical returns true for && and ||.
func (o Operator) IsLogical() bool {
	return o == OperatorAnd || o == OperatorOr
}

// Expr is a node of the expression tree.
type Expr interface {
	// Pos returns the byte offset of the node in the source expression.
	Pos() int

	// String renders the node back to rule language source.
	String() string

	expr()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value  float64
	Offset int
}

// BoolLit is a true or false literal.
type BoolLit struct {
	Value  bool
	Offset int
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Value  string
	Offset int
}

// Variable references a field of the evaluated record.
type Variable struct {
	Name   string
	Offset int
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Left   Expr
	Op     Operator
	Right  Expr
	Offset int // offset of the operator token
}

func (n *NumberLit) Pos() int { return n.Offset }
func (n *BoolLit) Pos() int   { return n.Offset }
func (n *StringLit) Pos() int { return n.Offset }
func (n *Variable) Pos() int  { return n.Offset }
func (n *BinaryOp) Pos() int  { return n.Offset }

func (*NumberLit) expr() {}
func (*BoolLit) expr()   {}
func (*StringLit) expr() {}
func (*Variable) expr()  {}
func (*BinaryOp) expr()  {}

func (n *NumberLit) String() string { return FormatNumber(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *Variable) String() string  { return n.Name }

// String renders the operation with explicit parentheses around nested
// operations whose precedence is lower than the parent's.
func (n *BinaryOp) String() string {
	var sb strings.Builder
	writeOperand(&sb, n.Left, n.Op)
	sb.WriteByte(' ')
	sb.WriteString(string(n.Op))
	sb.WriteByte(' ')
	writeOperand(&sb, n.Right, n.Op)
	return sb.String()
}

func writeOperand(sb *strings.Builder, e Expr, parent Operator) {
	child, ok := e.(*BinaryOp)
	if ok && precedence(child.Op) <= precedence(parent) && !(child.Op == parent && parent.IsLogical()) {
		sb.WriteByte('(')
		sb.WriteString(child.String())
		sb.WriteByte(')')
		return
	}
	sb.WriteString(e.String())
}

func precedence(op Operator) int {
	switch op {
	case OperatorOr:
		return 1
	case OperatorAnd:
		return 2
	default:
		return 3
	}
}

// FormatNumber renders a float the way thresholds are written in rules:
// the shortest representation, without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsBoolean reports whether e produces a boolean when evaluated in logical
// position. Variables count as boolean-producing through truthiness.
func IsBoolean(e Expr) bool {
	switch n := e.(type) {
	case *BoolLit, *Variable:
		return true
	case *BinaryOp:
		return n.Op.IsComparison() || n.Op.IsLogical()
	default:
		return false
	}
}

// IsOperand reports whether e may appear as a comparison operand.
func IsOperand(e Expr) bool {
	_, isOp := e.(*BinaryOp)
	return !isOp
}
