package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestVariable suggests a field name when an unknown variable is
// referenced. It uses Levenshtein distance to find the closest known field.
func SuggestVariable(unknown string, fields []string) string {
	if len(fields) == 0 {
		return ""
	}

	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)

	minDistance := 1000
	var bestMatch string

	for _, field := range sorted {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(field))
		if dist < minDistance {
			minDistance = dist
			bestMatch = field
		}
	}

	// Only suggest if the distance is reasonable relative to the name
	if minDistance <= max(2, len(unknown)/3) {
		return fmt.Sprintf("did you mean '%s'?", bestMatch)
	}

	if len(sorted) > 5 {
		return fmt.Sprintf("known fields include: %s, ...", strings.Join(sorted[:5], ", "))
	}
	return fmt.Sprintf("known fields: %s", strings.Join(sorted, ", "))
}

// SuggestOperator suggests the two-character form of a malformed operator.
func SuggestOperator(op string) string {
	switch op {
	case "=":
		return "use '==' for equality"
	case "!":
		return "use '!=' for inequality"
	case "&":
		return "use '&&' for logical and"
	case "|":
		return "use '||' for logical or"
	default:
		return "valid operators: >, <, >=, <=, ==, !=, &&, ||"
	}
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)

	// Two rows are enough for the distance
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
