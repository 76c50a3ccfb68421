package parser

import (
	"millwright/judgment/pkg/rulelang/ast"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/rulelang/lexer"
)

// DefaultMaxDepth is the default limit on parenthesis nesting.
const DefaultMaxDepth = 64

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum parenthesis nesting depth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parser is a recursive-descent parser over a token slice. It owns its
// cursor, so a Parser must not be shared between goroutines; create one
// per expression.
type Parser struct {
	input    string
	tokens   []lexer.Token
	pos      int
	depth    int
	maxDepth int
}

// New creates a parser over tokens produced from input. The input is only
// used for error reporting.
func New(input string, tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{
		input:    input,
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes and parses a rule expression.
func Parse(input string, opts ...Option) (ast.Expr, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return New(input, tokens, opts...).Parse()
}

// Parse consumes every token and returns the expression tree. Leftover
// tokens after a complete expression are an error.
func (p *Parser) Parse() (ast.Expr, error) {
	if len(p.tokens) == 0 {
		return nil, rlerrors.Syntax(p.input, 0, "empty expression")
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		if tok.Kind == lexer.RParen {
			return nil, rlerrors.Syntax(p.input, tok.Offset, "unmatched ')'")
		}
		return nil, rlerrors.Syntax(p.input, tok.Offset, "unexpected %s after complete expression", tok)
	}

	return expr, nil
}

// parseOr parses: and ('||' and)*
func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peekOperator(ast.OperatorOr)
		if !ok {
			return left, nil
		}
		p.pos++

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: ast.OperatorOr, Right: right, Offset: tok.Offset}
	}
}

// parseAnd parses: comparison ('&&' comparison)*
func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peekOperator(ast.OperatorAnd)
		if !ok {
			return left, nil
		}
		p.pos++

		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: ast.OperatorAnd, Right: right, Offset: tok.Offset}
	}
}

// parseComparison parses: primary (cmp primary)?
//
// Comparisons do not chain; "a > b > c" leaves "> c" unconsumed.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok, ok := p.peek()
	if !ok || tok.Kind != lexer.Operator || !tok.Op.IsComparison() {
		return left, nil
	}
	p.pos++

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Left: left, Op: tok.Op, Right: right, Offset: tok.Offset}, nil
}

// parsePrimary parses: Number | Bool | String | Variable | '(' or ')'
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, rlerrors.Syntax(p.input, len(p.input), "unexpected end of expression, expected operand")
	}

	switch tok.Kind {
	case lexer.Number:
		p.pos++
		return &ast.NumberLit{Value: tok.Num, Offset: tok.Offset}, nil

	case lexer.Bool:
		p.pos++
		return &ast.BoolLit{Value: tok.Truth, Offset: tok.Offset}, nil

	case lexer.String:
		p.pos++
		return &ast.StringLit{Value: tok.Text, Offset: tok.Offset}, nil

	case lexer.Variable:
		p.pos++
		return &ast.Variable{Name: tok.Text, Offset: tok.Offset}, nil

	case lexer.LParen:
		return p.parseGroup(tok)

	case lexer.RParen:
		return nil, rlerrors.Syntax(p.input, tok.Offset, "expected operand, found ')'")

	default:
		return nil, rlerrors.Syntax(p.input, tok.Offset, "expected operand, found %s", tok)
	}
}

func (p *Parser) parseGroup(open lexer.Token) (ast.Expr, error) {
	p.depth++
	if p.depth > p.maxDepth {
		return nil, rlerrors.Syntax(p.input, open.Offset, "expression nests deeper than %d levels", p.maxDepth)
	}
	p.pos++

	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	tok, ok := p.peek()
	if !ok || tok.Kind != lexer.RParen {
		return nil, rlerrors.Syntax(p.input, open.Offset, "unmatched '('")
	}
	p.pos++
	p.depth--

	return inner, nil
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) peekOperator(op ast.Operator) (lexer.Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != lexer.Operator || tok.Op != op {
		return lexer.Token{}, false
	}
	return tok, true
}
