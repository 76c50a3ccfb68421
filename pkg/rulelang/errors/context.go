package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Pretty renders the error over several lines with the expression and a
// caret under the offending column, for CLI output:
//
//	[syntax] single '=' is not allowed
//	  | temperature = 90
//	  |             ^
//	  = suggestion: use '==' for equality
func Pretty(e *Error) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Expression != "" {
		sb.WriteString("  | ")
		sb.WriteString(e.Expression)
		sb.WriteString("\n")
		if e.Offset >= 0 && e.Offset <= len(e.Expression) {
			col := utf8.RuneCountInString(e.Expression[:e.Offset])
			sb.WriteString("  | ")
			sb.WriteString(strings.Repeat(" ", col))
			sb.WriteString("^\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}
