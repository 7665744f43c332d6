// Package perceptron provides single-threshold linear units and a toy
// feed-forward network built from them.
package perceptron

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrWeightMismatch is returned when the declared input count disagrees with the weights.
	ErrWeightMismatch = errors.New("input number and weight mismatch")

	// ErrLengthMismatch is returned when an input vector does not match the number of weights.
	ErrLengthMismatch = errors.New("input length does not match the number of inputs")
)

// Perceptron is a binary step-function unit over a fixed-size weight vector.
type Perceptron struct {
	weights   []float64
	threshold float64
}

// New creates a Perceptron taking numInputs inputs.
// numInputs must equal len(weights); the weights are copied.
func New(numInputs int, weights []float64, threshold float64) (*Perceptron, error) {
	if numInputs != len(weights) {
		return nil, fmt.Errorf("%w: %d inputs, %d weights", ErrWeightMismatch, numInputs, len(weights))
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &Perceptron{weights: w, threshold: threshold}, nil
}

// NumInputs returns the length every input vector must have.
func (p *Perceptron) NumInputs() int {
	return len(p.weights)
}

// Weights returns a copy of the weight vector.
func (p *Perceptron) Weights() []float64 {
	w := make([]float64, len(p.weights))
	copy(w, p.weights)
	return w
}

// Threshold returns the activation threshold.
func (p *Perceptron) Threshold() float64 {
	return p.threshold
}

// Evaluate returns 1 when the weighted sum of input is strictly greater than
// the threshold and 0 otherwise.
func (p *Perceptron) Evaluate(input []float64) (int, error) {
	if len(input) != len(p.weights) {
		return 0, fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, len(p.weights), len(input))
	}
	if floats.Dot(p.weights, input) > p.threshold {
		return 1, nil
	}
	return 0, nil
}
