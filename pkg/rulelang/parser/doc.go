// Package parser builds expression trees from rule language source.
//
// The grammar, from lowest to highest precedence:
//
//	or         := and ('||' and)*
//	and        := comparison ('&&' comparison)*
//	comparison := primary (('>'|'<'|'>='|'<='|'=='|'!=') primary)?
//	primary    := Number | Bool | String | Variable | '(' or ')'
//
// The language is closed: there are no calls, no arithmetic and no
// assignment, so any tree the parser accepts can be evaluated without
// running user code.
//
// # Basic Usage
//
//	expr, err := parser.Parse("temperature > 80 && vibration < 50")
//	if err != nil {
//	    // *errors.Error with Type syntax and the offending offset
//	}
//	fmt.Println(expr) // temperature > 80 && vibration < 50
//
// Nesting depth is bounded (DefaultMaxDepth) so hostile input cannot
// exhaust the stack:
//
//	expr, err := parser.Parse(input, parser.WithMaxDepth(16))
package parser
