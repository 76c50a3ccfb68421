package eval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"millwright/judgment/pkg/rulelang/ast"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/rulelang/parser"
)

// Epsilon is the tolerance for numeric equality: the difference between
// 1.0 and the next representable float64.
const Epsilon = 0x1p-52

// ErrInvalidRecord indicates a record that is not a JSON object.
var ErrInvalidRecord = errors.New("record is not a JSON object")

// Program is a parsed expression ready for evaluation. It is immutable and
// safe for concurrent use.
type Program struct {
	source string
	root   ast.Expr
}

// Compile parses expr into a Program.
func Compile(expr string) (*Program, error) {
	root, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &Program{source: expr, root: root}, nil
}

// MustCompile is like Compile but panics if the expression is invalid.
// It is meant for expressions fixed at build time.
func MustCompile(expr string) *Program {
	p, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("eval: Compile(%q): %v", expr, err))
	}
	return p
}

// Source returns the expression the program was compiled from.
func (p *Program) Source() string { return p.source }

// Root returns the expression tree.
func (p *Program) Root() ast.Expr { return p.root }

// Evaluate runs the program against a flat record.
func (p *Program) Evaluate(data map[string]any) (bool, error) {
	r := run{source: p.source, data: data}
	return r.boolean(p.root)
}

// Evaluate parses expr and evaluates it against data. Syntax errors and
// semantic errors are both returned as *errors.Error; nothing is coerced
// to a default verdict.
func Evaluate(expr string, data map[string]any) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Evaluate(data)
}

// EvaluateJSON decodes raw as a flat JSON object and evaluates expr
// against it.
func EvaluateJSON(expr string, raw []byte) (bool, error) {
	data, err := DecodeRecord(raw)
	if err != nil {
		return false, err
	}
	return Evaluate(expr, data)
}

// DecodeRecord decodes a JSON object. Nested values are kept as-is; the
// language only uses their truthiness.
func DecodeRecord(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidRecord
	}
	var data map[string]any
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return data, nil
}

// run holds the state of one evaluation.
type run struct {
	source string
	data   map[string]any
}

// boolean evaluates a node in logical position.
func (r *run) boolean(node ast.Expr) (bool, error) {
	switch n := node.(type) {
	case *ast.BoolLit:
		return n.Value, nil

	case *ast.Variable:
		v, err := r.lookup(n)
		if err != nil {
			return false, err
		}
		return v.Truthy(), nil

	case *ast.NumberLit:
		return false, rlerrors.Semantic(r.source, n.Offset,
			"number %s used where a boolean is required", n)

	case *ast.StringLit:
		return false, rlerrors.Semantic(r.source, n.Offset,
			"string %s used where a boolean is required", n)

	case *ast.BinaryOp:
		if n.Op.IsLogical() {
			return r.logical(n)
		}
		return r.compare(n)

	default:
		return false, rlerrors.Semantic(r.source, node.Pos(), "unsupported expression %T", node)
	}
}

// logical evaluates && and ||. Both sides are always evaluated so that an
// error on the right is never hidden by the value on the left.
func (r *run) logical(n *ast.BinaryOp) (bool, error) {
	left, err := r.boolean(n.Left)
	if err != nil {
		return false, err
	}
	right, err := r.boolean(n.Right)
	if err != nil {
		return false, err
	}
	if n.Op == ast.OperatorAnd {
		return left && right, nil
	}
	return left || right, nil
}

// compare evaluates a comparison between two operands.
func (r *run) compare(n *ast.BinaryOp) (bool, error) {
	left, err := r.operand(n.Left)
	if err != nil {
		return false, err
	}
	right, err := r.operand(n.Right)
	if err != nil {
		return false, err
	}

	if n.Op.IsOrdering() {
		a, err := r.numeric(n.Left, left, n.Op)
		if err != nil {
			return false, err
		}
		b, err := r.numeric(n.Right, right, n.Op)
		if err != nil {
			return false, err
		}
		switch n.Op {
		case ast.OperatorGreaterThan:
			return a > b, nil
		case ast.OperatorLessThan:
			return a < b, nil
		case ast.OperatorGreaterEqual:
			return a >= b, nil
		default:
			return a <= b, nil
		}
	}

	equal, err := r.equal(n, left, right)
	if err != nil {
		return false, err
	}
	if n.Op == ast.OperatorNotEqual {
		return !equal, nil
	}
	return equal, nil
}

func (r *run) equal(n *ast.BinaryOp, left, right Value) (bool, error) {
	if left.kind != right.kind {
		return false, rlerrors.Semantic(r.source, n.Offset,
			"cannot compare %s with %s using '%s'", left.kind, right.kind, n.Op)
	}
	switch left.kind {
	case KindNumber:
		return math.Abs(left.n-right.n) < Epsilon, nil
	case KindBool:
		return left.b == right.b, nil
	case KindString:
		return left.s == right.s, nil
	default:
		return false, rlerrors.Semantic(r.source, n.Offset,
			"cannot compare %s values using '%s'", left.kind, n.Op)
	}
}

// operand evaluates a node in comparison position.
func (r *run) operand(node ast.Expr) (Value, error) {
	switch n := node.(type) {
	case *ast.NumberLit:
		return Number(n.Value), nil
	case *ast.BoolLit:
		return Bool(n.Value), nil
	case *ast.StringLit:
		return String(n.Value), nil
	case *ast.Variable:
		return r.lookup(n)
	default:
		return Value{}, rlerrors.Semantic(r.source, node.Pos(),
			"comparison operand must be a value, found (%s)", node)
	}
}

func (r *run) numeric(node ast.Expr, v Value, op ast.Operator) (float64, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}
	if variable, ok := node.(*ast.Variable); ok {
		return 0, rlerrors.Semantic(r.source, node.Pos(),
			"variable '%s' is not numeric (found %s)", variable.Name, v.kind)
	}
	return 0, rlerrors.Semantic(r.source, node.Pos(),
		"'%s' requires numeric operands, found %s", op, v.kind)
}

func (r *run) lookup(v *ast.Variable) (Value, error) {
	raw, ok := r.data[v.Name]
	if !ok {
		err := rlerrors.Semantic(r.source, v.Offset, "variable '%s' not found in record", v.Name)
		if len(r.data) > 0 {
			fields := make([]string, 0, len(r.data))
			for k := range r.data {
				fields = append(fields, k)
			}
			err.Suggestion = rlerrors.SuggestVariable(v.Name, fields)
		}
		return Value{}, err
	}
	return FromAny(raw), nil
}
