package lexer

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"millwright/judgment/pkg/rulelang/ast"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
)

// delimiters end a word token.
const delimiters = "()<>=!&|\""

// Tokenize splits a rule expression into tokens.
//
// Two-character operators must appear in full: a lone '=', '!', '&' or '|'
// is rejected here rather than being guessed at by the parser.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: input}
	return l.run()
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) run() ([]Token, error) {
	// Most expressions are "field op value" joined by logical operators
	l.tokens = make([]Token, 0, len(l.input)/3+1)

	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) {
			l.pos += size
			continue
		}

		var err error
		switch r {
		case '(':
			l.emit(Token{Kind: LParen, Text: "("})
			l.pos++
		case ')':
			l.emit(Token{Kind: RParen, Text: ")"})
			l.pos++
		case '>', '<':
			err = l.ordering(r)
		case '=', '!', '&', '|':
			err = l.pair(r)
		case '"':
			err = l.quoted()
		default:
			err = l.word()
		}
		if err != nil {
			return nil, err
		}
	}

	return l.tokens, nil
}

func (l *lexer) emit(t Token) {
	t.Offset = l.pos
	l.tokens = append(l.tokens, t)
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

// ordering lexes >, <, >= and <=.
func (l *lexer) ordering(r rune) error {
	op := string(r)
	if l.peek(1) == '=' {
		op += "="
	}
	l.emit(Token{Kind: Operator, Text: op, Op: ast.Operator(op)})
	l.pos += len(op)
	return nil
}

// pair lexes operators that only exist in two-character form.
func (l *lexer) pair(r rune) error {
	var op string
	switch {
	case r == '=' && l.peek(1) == '=':
		op = "=="
	case r == '!' && l.peek(1) == '=':
		op = "!="
	case r == '&' && l.peek(1) == '&':
		op = "&&"
	case r == '|' && l.peek(1) == '|':
		op = "||"
	default:
		lone := string(r)
		return rlerrors.Syntax(l.input, l.pos, "single '%s' is not allowed", lone).
			WithSuggestion(rlerrors.SuggestOperator(lone))
	}
	l.emit(Token{Kind: Operator, Text: op, Op: ast.Operator(op)})
	l.pos += 2
	return nil
}

// quoted lexes a double-quoted string literal with Go escape rules.
func (l *lexer) quoted() error {
	start := l.pos
	i := start + 1
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case '"':
			raw := l.input[start : i+1]
			value, err := strconv.Unquote(raw)
			if err != nil {
				return rlerrors.Syntax(l.input, start, "invalid string literal %s", raw)
			}
			l.emit(Token{Kind: String, Text: value})
			l.pos = i + 1
			return nil
		}
		i++
	}
	return rlerrors.Syntax(l.input, start, "unterminated string literal")
}

// word lexes numbers, the true/false keywords and variable names.
func (l *lexer) word() error {
	start := l.pos
	end := start
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if unicode.IsSpace(r) || strings.ContainsRune(delimiters, r) {
			break
		}
		end += size
	}
	text := l.input[start:end]

	switch {
	case looksNumeric(text):
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return rlerrors.Syntax(l.input, start, "invalid number %q", text)
		}
		l.emit(Token{Kind: Number, Text: text, Num: v})
	case text == "true" || text == "false":
		l.emit(Token{Kind: Bool, Text: text, Truth: text == "true"})
	case IsIdentifier(text):
		l.emit(Token{Kind: Variable, Text: text})
	default:
		return l.badRune(start, text)
	}

	l.pos = end
	return nil
}

// badRune reports the first rune of a word that cannot appear in a
// variable name, at its own offset.
func (l *lexer) badRune(start int, text string) error {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return rlerrors.Syntax(l.input, start+i, "invalid UTF-8 byte 0x%02x", text[i])
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '.' || r == '-'):
		default:
			return rlerrors.Syntax(l.input, start+i, "unexpected character %q", r)
		}
		i += size
	}
	return rlerrors.Syntax(l.input, start, "unexpected word %q", text)
}

// looksNumeric reports whether a word starts the way a number does: a
// digit, or a sign or decimal point followed by a digit.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if isDigit(s[0]) {
		return true
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
		if s != "" && s[0] == '.' {
			s = s[1:]
		}
		return s != "" && isDigit(s[0])
	}
	return s[0] == '.' && len(s) > 1 && isDigit(s[1])
}

// IsIdentifier reports whether s is a valid variable name. The keywords
// true and false are not.
func IsIdentifier(s string) bool {
	if s == "true" || s == "false" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '-' {
			return false
		}
	}
	return s != ""
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
