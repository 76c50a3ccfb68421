package ast

import "sort"

// Visitor is called for every node during Walk. Returning an error stops
// the traversal.
type Visitor interface {
	Visit(node Expr, parent *BinaryOp) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(node Expr, parent *BinaryOp) error

// Visit calls f(node, parent).
func (f VisitorFunc) Visit(node Expr, parent *BinaryOp) error {
	return f(node, parent)
}

// Walk traverses the tree depth-first, left to right, visiting each node
// before its children. It returns the first error reported by the visitor.
func Walk(root Expr, visitor Visitor) error {
	return walk(root, nil, visitor)
}

func walk(node Expr, parent *BinaryOp, visitor Visitor) error {
	if node == nil {
		return nil
	}
	if err := visitor.Visit(node, parent); err != nil {
		return err
	}
	if op, ok := node.(*BinaryOp); ok {
		if err := walk(op.Left, op, visitor); err != nil {
			return err
		}
		return walk(op.Right, op, visitor)
	}
	return nil
}

// Variables returns the distinct variable names referenced by the tree,
// sorted alphabetically.
func Variables(root Expr) []string {
	seen := make(map[string]struct{})
	_ = Walk(root, VisitorFunc(func(node Expr, _ *BinaryOp) error {
		if v, ok := node.(*Variable); ok {
			seen[v.Name] = struct{}{}
		}
		return nil
	}))

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the height of the tree. A single literal has depth 1.
func Depth(root Expr) int {
	op, ok := root.(*BinaryOp)
	if !ok {
		if root == nil {
			return 0
		}
		return 1
	}
	return 1 + max(Depth(op.Left), Depth(op.Right))
}
