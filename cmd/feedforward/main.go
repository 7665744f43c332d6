// Package main runs one forward pass through a randomly initialised network.
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/alexflint/go-arg"
	"github.com/easeaico/decal-harness/internal/perceptron"
)

var (
	name    = "feedforward"
	version = "0.1.0"
)

type args struct {
	Sizes []int     `arg:"--sizes,required" help:"neurons per layer, input layer first"`
	Seed  int64     `arg:"--seed" help:"seed for the weight initialisation"`
	Input []float64 `arg:"--input,required" help:"activations of the input layer"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf("%s\nPrints the output layer of a linear feed-forward network.", name)
}

func main() {
	args := args{Seed: 1}
	arg.MustParse(&args)

	n, err := perceptron.NewNetwork(args.Sizes, rand.New(rand.NewSource(args.Seed)))
	if err != nil {
		log.Fatalf("Failed to create network: %v", err)
	}

	out, err := n.FeedForward(args.Input)
	if err != nil {
		log.Fatalf("Failed to feed forward: %v", err)
	}
	for _, v := range out {
		fmt.Printf("%g\n", v)
	}
}
