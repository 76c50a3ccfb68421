package eval

import (
	"time"
)

// Observer receives the outcome of every evaluation run through an
// Evaluator. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveEvaluation(result bool, err error, duration time.Duration)
}

// Evaluator evaluates expressions and reports each outcome to an optional
// Observer, typically a metrics collector.
type Evaluator struct {
	observer Observer
}

// NewEvaluator creates an evaluator. A nil observer disables reporting.
func NewEvaluator(observer Observer) *Evaluator {
	return &Evaluator{observer: observer}
}

// Evaluate parses and evaluates expr against data.
func (e *Evaluator) Evaluate(expr string, data map[string]any) (bool, error) {
	start := time.Now()
	result, err := Evaluate(expr, data)
	e.observe(result, err, start)
	return result, err
}

// Run evaluates a compiled program against data.
func (e *Evaluator) Run(p *Program, data map[string]any) (bool, error) {
	start := time.Now()
	result, err := p.Evaluate(data)
	e.observe(result, err, start)
	return result, err
}

func (e *Evaluator) observe(result bool, err error, start time.Time) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveEvaluation(result, err, time.Since(start))
}
