package rulelang

import (
	"millwright/judgment/pkg/rulelang/ast"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/rulelang/eval"
	"millwright/judgment/pkg/rulelang/parser"
	"millwright/judgment/pkg/rulelang/validator"
)

// Evaluate parses expr and evaluates it against a flat record.
func Evaluate(expr string, data map[string]any) (bool, error) {
	return eval.Evaluate(expr, data)
}

// Parse parses expr into an expression tree.
func Parse(expr string) (ast.Expr, error) {
	return parser.Parse(expr)
}

// Check parses and statically validates expr. When fields are given,
// variables must reference one of them. It returns the tree so callers
// can inspect it without parsing twice.
func Check(expr string, fields ...string) (ast.Expr, error) {
	tree, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}

	err = validator.New(validator.WithKnownFields(fields...)).Validate(tree)
	if list, ok := err.(*rlerrors.ErrorList); ok {
		for _, e := range list.Errors {
			e.Expression = expr
		}
		return tree, list
	}
	return tree, err
}
