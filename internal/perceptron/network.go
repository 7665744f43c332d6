package perceptron

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidShape is returned when layer sizes or parameter dimensions do not chain.
	ErrInvalidShape = errors.New("invalid network shape")

	// ErrIndexOutOfRange is returned for weight indices outside the network.
	ErrIndexOutOfRange = errors.New("weight index out of range")
)

// Network is a feed-forward stack of fully connected layers.
// biases[i] and weights[i] feed layer i+2 (layer 1 is the input layer).
type Network struct {
	biases  []*mat.VecDense
	weights []*mat.Dense
}

// NewNetwork creates a network with the given layer sizes, the first being the
// input layer. Biases and weights are drawn from a standard normal distribution.
func NewNetwork(sizes []int, rng *rand.Rand) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidShape, len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrInvalidShape, i+1, s)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	n := &Network{}
	for i := 1; i < len(sizes); i++ {
		rows, cols := sizes[i], sizes[i-1]
		b := make([]float64, rows)
		for j := range b {
			b[j] = rng.NormFloat64()
		}
		w := make([]float64, rows*cols)
		for j := range w {
			w[j] = rng.NormFloat64()
		}
		n.biases = append(n.biases, mat.NewVecDense(rows, b))
		n.weights = append(n.weights, mat.NewDense(rows, cols, w))
	}
	return n, nil
}

// NewNetworkFromParams builds a network from explicit parameters.
// weights[i] is a row-major matrix with len(biases[i]) rows whose column count
// matches the row count of weights[i-1].
func NewNetworkFromParams(biases [][]float64, weights [][][]float64) (*Network, error) {
	if len(biases) == 0 || len(biases) != len(weights) {
		return nil, fmt.Errorf("%w: %d bias vectors, %d weight matrices", ErrInvalidShape, len(biases), len(weights))
	}

	n := &Network{}
	prevRows := -1
	for i, w := range weights {
		rows := len(w)
		if rows == 0 || rows != len(biases[i]) {
			return nil, fmt.Errorf("%w: layer %d has %d weight rows and %d biases", ErrInvalidShape, i+2, rows, len(biases[i]))
		}
		cols := len(w[0])
		if cols == 0 {
			return nil, fmt.Errorf("%w: layer %d has empty weight rows", ErrInvalidShape, i+2)
		}
		if prevRows != -1 && cols != prevRows {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, previous layer has %d nodes", ErrInvalidShape, i+2, cols, prevRows)
		}
		data := make([]float64, 0, rows*cols)
		for r, row := range w {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrInvalidShape, i+2, r+1, len(row), cols)
			}
			data = append(data, row...)
		}
		b := make([]float64, rows)
		copy(b, biases[i])
		n.biases = append(n.biases, mat.NewVecDense(rows, b))
		n.weights = append(n.weights, mat.NewDense(rows, cols, data))
		prevRows = rows
	}
	return n, nil
}

// Sizes returns the number of nodes in each layer, input layer first.
func (n *Network) Sizes() []int {
	_, in := n.weights[0].Dims()
	sizes := []int{in}
	for _, b := range n.biases {
		sizes = append(sizes, b.Len())
	}
	return sizes
}

// FeedForward applies a = W·a + b for every layer and returns the final activation.
// No nonlinearity is applied between layers.
func (n *Network) FeedForward(input []float64) ([]float64, error) {
	if _, in := n.weights[0].Dims(); len(input) != in {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, in, len(input))
	}

	a := make([]float64, len(input))
	copy(a, input)
	activation := mat.NewVecDense(len(a), a)
	for i, w := range n.weights {
		var z mat.VecDense
		z.MulVec(w, activation)
		z.AddVec(&z, n.biases[i])
		activation = &z
	}

	out := make([]float64, activation.Len())
	for i := range out {
		out[i] = activation.AtVec(i)
	}
	return out, nil
}

// SetWeight sets w^l_{jk}, the weight connecting node k of layer l-1 to node j
// of layer l. All indices start at 1.
func (n *Network) SetWeight(j, k, l int, val float64) error {
	w, err := n.weightMatrix(j, k, l)
	if err != nil {
		return err
	}
	w.Set(j-1, k-1, val)
	return nil
}

// Weight returns w^l_{jk} using the same 1-based indices as SetWeight.
func (n *Network) Weight(j, k, l int) (float64, error) {
	w, err := n.weightMatrix(j, k, l)
	if err != nil {
		return 0, err
	}
	return w.At(j-1, k-1), nil
}

func (n *Network) weightMatrix(j, k, l int) (*mat.Dense, error) {
	if l < 2 || l-2 >= len(n.weights) {
		return nil, fmt.Errorf("%w: layer %d (valid 2..%d)", ErrIndexOutOfRange, l, len(n.weights)+1)
	}
	w := n.weights[l-2]
	rows, cols := w.Dims()
	if j < 1 || j > rows {
		return nil, fmt.Errorf("%w: node j=%d in layer %d (valid 1..%d)", ErrIndexOutOfRange, j, l, rows)
	}
	if k < 1 || k > cols {
		return nil, fmt.Errorf("%w: node k=%d in layer %d (valid 1..%d)", ErrIndexOutOfRange, k, l-1, cols)
	}
	return w, nil
}
