// Package decision models a binary decision as a perceptron over labelled
// yes/no factors.
package decision

import (
	"errors"
	"fmt"

	"github.com/easeaico/decal-harness/internal/perceptron"
	"gonum.org/v1/gonum/floats"
)

// ErrFactorMismatch is returned when the factor labels and weights differ in length.
var ErrFactorMismatch = errors.New("factor and weight count mismatch")

// Decision is a perceptron whose inputs are answers to labelled factors.
type Decision struct {
	*perceptron.Perceptron

	// Label completes the sentence "You should ...".
	Label string

	// Factors holds one question per weight.
	Factors []string
}

type options struct {
	threshold    float64
	hasThreshold bool
}

// Option configures a Decision.
type Option func(*options)

// WithThreshold sets an explicit threshold instead of half the sum of the weights.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
		o.hasThreshold = true
	}
}

// New creates a Decision. Without WithThreshold the threshold is sum(weights)/2.
func New(label string, weights []float64, factors []string, opts ...Option) (*Decision, error) {
	if len(factors) != len(weights) {
		return nil, fmt.Errorf("%w: %d factors, %d weights", ErrFactorMismatch, len(factors), len(weights))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasThreshold {
		o.threshold = floats.Sum(weights) / 2
	}

	p, err := perceptron.New(len(weights), weights, o.threshold)
	if err != nil {
		return nil, err
	}

	f := make([]string, len(factors))
	copy(f, factors)
	return &Decision{Perceptron: p, Label: label, Factors: f}, nil
}

// Recommend evaluates the 0/1 factor answers and phrases the result.
func (d *Decision) Recommend(answers []float64) (string, error) {
	v, err := d.Evaluate(answers)
	if err != nil {
		return "", err
	}
	if v == 1 {
		return "You should " + d.Label, nil
	}
	return "You should not " + d.Label, nil
}
