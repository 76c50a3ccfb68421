// Package feedback loads labeled feedback records from files.
//
// Three encodings are accepted, chosen by extension: a JSON array
// (.json), JSON lines (.jsonl, .ndjson) and a YAML list (.yaml, .yml).
// Each entry carries a label_id, the input either as an object ("input")
// or as JSON text ("input_json"), and a label: an explicit is_positive,
// or an accuracy score compared against Options.PositiveAccuracy.
//
//	- label_id: run-42
//	  input: {temperature: 91, vibration: 12}
//	  accuracy: 0.93
//
// Record content is not validated here; miners skip records whose input
// is not a JSON object.
package feedback
