// Judgment mines boolean acceptance rules from labeled feedback and
// evaluates them safely against flat JSON records.
//
// Usage:
//
//	# Evaluate a rule against a record
//	judgment evaluate 'temperature > 85 && vibration < 50' --record '{"temperature": 88, "vibration": 12}'
//
//	# Check rules without evaluating them
//	judgment lint 'temperature = 85' 'pressure > 3' --fields temperature,pressure
//
//	# Mine a rule once and save it
//	judgment mine --feedback feedback.jsonl --output rule.yaml
//
//	# Re-mine whenever the feedback file changes
//	judgment mine --feedback feedback.jsonl --output rule.yaml --watch
//
//	# Show version information
//	judgment version
package main

import "os"

func main() {
	os.Exit(Execute())
}
