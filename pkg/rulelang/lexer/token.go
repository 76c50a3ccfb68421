package lexer

import (
	"fmt"
	"strconv"

	"millwright/judgment/pkg/rulelang/ast"
)

// Kind identifies the type of a token.
type Kind int

const (
	// Number is a finite numeric literal such as 80 or -2.5.
	Number Kind = iota
	// Variable is a field reference resolved against the record.
	Variable
	// Operator is one of the comparison or logical operators.
	Operator
	// LParen is an opening parenthesis.
	LParen
	// RParen is a closing parenthesis.
	RParen
	// Bool is the keyword true or false.
	Bool
	// String is a double-quoted string literal.
	String
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Variable:
		return "Variable"
	case Operator:
		return "Operator"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Bool:
		return "Bool"
	case String:
		return "String"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical unit of a rule expression.
//
// Only the payload field matching Kind is meaningful: Num for Number,
// Truth for Bool, Op for Operator, Text for Variable and String.
type Token struct {
	Kind   Kind
	Text   string
	Num    float64
	Truth  bool
	Op     ast.Operator
	Offset int
}

// String renders the token the way it is shown in test output and
// diagnostics, e.g. Variable(temperature) or Operator(">").
func (t Token) String() string {
	switch t.Kind {
	case Number:
		return "Number(" + ast.FormatNumber(t.Num) + ")"
	case Variable:
		return "Variable(" + t.Text + ")"
	case Operator:
		return "Operator(" + strconv.Quote(string(t.Op)) + ")"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Bool:
		return "Bool(" + strconv.FormatBool(t.Truth) + ")"
	case String:
		return "String(" + strconv.Quote(t.Text) + ")"
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two tokens have the same kind and payload,
// ignoring their offsets.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Number:
		return t.Num == other.Num
	case Variable, String:
		return t.Text == other.Text
	case Operator:
		return t.Op == other.Op
	case Bool:
		return t.Truth == other.Truth
	default:
		return true
	}
}
