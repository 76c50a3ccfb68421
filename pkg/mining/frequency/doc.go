// Package frequency mines threshold and equality conditions that recur
// across positively labeled feedback.
//
// Every positive record is flattened into conditions, one per scalar
// field. Numeric values are bucketed with CalculateThreshold so nearby
// readings (88, 90, 92) produce the same condition ("temperature > 85").
// A condition is kept when it occurs in at least Threshold of the positive
// records, with confidence = occurrences / positives × Discount.
//
//	miner, err := frequency.New(frequency.DefaultConfig(), logger)
//	rules := miner.Mine(records)
package frequency
