package validator

import (
	"millwright/judgment/pkg/rulelang/ast"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
)

// Option configures a Validator.
type Option func(*Validator)

// WithKnownFields restricts variables to the given field names. Without
// it, any variable name is accepted.
func WithKnownFields(fields ...string) Option {
	return func(v *Validator) {
		if len(fields) == 0 {
			return
		}
		v.known = make(map[string]struct{}, len(fields))
		v.fields = append([]string(nil), fields...)
		for _, f := range fields {
			v.known[f] = struct{}{}
		}
	}
}

// Validator statically checks an expression tree for errors that would
// otherwise only surface at evaluation time.
type Validator struct {
	known  map[string]struct{}
	fields []string
}

// New creates a validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks expr and returns an *errors.ErrorList with every problem
// found, or nil.
func (v *Validator) Validate(expr ast.Expr) error {
	errs := rlerrors.NewErrorList()
	if expr == nil {
		errs.Add(rlerrors.Semantic("", -1, "empty expression"))
		return errs.ToError()
	}

	if !ast.IsBoolean(expr) {
		errs.Add(rlerrors.Semantic("", expr.Pos(),
			"expression must produce a boolean, found %s", describe(expr)))
	}

	_ = ast.Walk(expr, ast.VisitorFunc(func(node ast.Expr, _ *ast.BinaryOp) error {
		switch n := node.(type) {
		case *ast.BinaryOp:
			v.checkOperation(n, errs)
		case *ast.Variable:
			v.checkVariable(n, errs)
		}
		return nil
	}))

	return errs.ToError()
}

func (v *Validator) checkOperation(n *ast.BinaryOp, errs *rlerrors.ErrorList) {
	if n.Op.IsLogical() {
		for _, side := range []ast.Expr{n.Left, n.Right} {
			if !ast.IsBoolean(side) {
				errs.Add(rlerrors.Semantic("", side.Pos(),
					"'%s' requires boolean operands, found %s", n.Op, describe(side)))
			}
		}
		return
	}

	for _, side := range []ast.Expr{n.Left, n.Right} {
		if !ast.IsOperand(side) {
			errs.Add(rlerrors.Semantic("", side.Pos(),
				"comparison operand must be a value, found (%s)", side))
			continue
		}
		if n.Op.IsOrdering() {
			switch side.(type) {
			case *ast.BoolLit, *ast.StringLit:
				errs.Add(rlerrors.Semantic("", side.Pos(),
					"'%s' requires numeric operands, found %s", n.Op, describe(side)))
			}
		}
	}

	if !n.Op.IsOrdering() {
		lk, lok := literalKind(n.Left)
		rk, rok := literalKind(n.Right)
		if lok && rok && lk != rk {
			errs.Add(rlerrors.Semantic("", n.Offset,
				"cannot compare %s with %s using '%s'", lk, rk, n.Op))
		}
	}
}

func (v *Validator) checkVariable(n *ast.Variable, errs *rlerrors.ErrorList) {
	if v.known == nil {
		return
	}
	if _, ok := v.known[n.Name]; ok {
		return
	}
	errs.Add(rlerrors.Semantic("", n.Offset, "unknown field '%s'", n.Name).
		WithSuggestion(rlerrors.SuggestVariable(n.Name, v.fields)))
}

func literalKind(e ast.Expr) (string, bool) {
	switch e.(type) {
	case *ast.NumberLit:
		return "number literal", true
	case *ast.BoolLit:
		return "bool literal", true
	case *ast.StringLit:
		return "string literal", true
	default:
		return "", false
	}
}

func describe(e ast.Expr) string {
	if kind, ok := literalKind(e); ok {
		return kind + " " + e.String()
	}
	return "(" + e.String() + ")"
}
