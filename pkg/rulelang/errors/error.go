package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes a rule language error.
type ErrorType string

const (
	// ErrorTypeSyntax covers input that is not a sentence of the grammar:
	// malformed operators, unmatched parentheses, missing or trailing tokens.
	ErrorTypeSyntax ErrorType = "syntax"

	// ErrorTypeSemantic covers well-formed input that cannot be evaluated
	// against a record: missing variables and type mismatches.
	ErrorTypeSemantic ErrorType = "semantic"
)

// Error is a rule language error with the offending position.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Offset     int       // Byte offset in Expression, -1 when unknown
	Expression string    // Source expression
	Suggestion string    // Suggested fix (optional)
}

// Error implements the error interface on a single line.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Type))
	sb.WriteString(" error")
	if e.Offset >= 0 {
		sb.WriteString(fmt.Sprintf(" at column %d", e.Offset+1))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Syntax creates a syntax error at offset.
func Syntax(expression string, offset int, format string, args ...any) *Error {
	return &Error{
		Type:       ErrorTypeSyntax,
		Message:    fmt.Sprintf(format, args...),
		Offset:     offset,
		Expression: expression,
	}
}

// Semantic creates a semantic error at offset.
func Semantic(expression string, offset int, format string, args ...any) *Error {
	return &Error{
		Type:       ErrorTypeSemantic,
		Message:    fmt.Sprintf(format, args...),
		Offset:     offset,
		Expression: expression,
	}
}

// WithSuggestion sets the suggestion and returns the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// IsSyntax reports whether err is, or wraps, a syntax error.
func IsSyntax(err error) bool {
	return hasType(err, ErrorTypeSyntax)
}

// IsSemantic reports whether err is, or wraps, a semantic error.
func IsSemantic(err error) bool {
	return hasType(err, ErrorTypeSemantic)
}

func hasType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	var list *ErrorList
	if errors.As(err, &list) {
		for _, item := range list.Errors {
			if item.Type == t {
				return true
			}
		}
	}
	return false
}

// ErrorList collects several errors found in one pass, for example by the
// validator. It allows reporting every problem instead of the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	switch len(el.Errors) {
	case 0:
		return ""
	case 1:
		return el.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:", len(el.Errors)))
	for _, err := range el.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}
