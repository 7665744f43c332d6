// Package main walks the user through building a weighted decision.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/easeaico/decal-harness/internal/decision"
)

var (
	name    = "decide"
	version = "0.1.0"
)

type args struct {
	NoEvaluate bool `arg:"--no-evaluate" help:"build the decision without answering its factors"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf("%s\nBuilds a perceptron from weighted factors and recommends a choice.", name)
}

func main() {
	var args args
	arg.MustParse(&args)

	p := decision.NewPrompter(os.Stdin, os.Stdout)
	if _, err := p.Build(!args.NoEvaluate); err != nil {
		if errors.Is(err, decision.ErrInputClosed) {
			fmt.Println()
			return
		}
		log.Fatalf("Failed to build decision: %v", err)
	}
}
