// Package main is the entry point for the decal conversation harness.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/easeaico/decal-harness/internal/config"
	"github.com/easeaico/decal-harness/internal/conversation"
	"github.com/easeaico/decal-harness/internal/responder"
)

var (
	name    = "decal"
	version = "0.1.0"
)

type args struct {
	Dir   string   `arg:"--dir" help:"directory of conversation files to run in batch mode"`
	Rules []string `arg:"--rule" help:"responder rules to seed into memory"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
Talks to a responder interactively, or replays every file of a directory
as an independent conversation.`, name)
}

func main() {
	var args args
	arg.MustParse(&args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory, cleanup, err := responder.NewFactory(ctx, cfg, args.Rules)
	if err != nil {
		log.Fatalf("Failed to initialize responder: %v", err)
	}
	defer cleanup()

	r := conversation.NewRunner(factory, os.Stdin, os.Stdout)
	if args.Dir != "" {
		err = r.RunBatch(ctx, args.Dir)
	} else {
		err = r.RunInteractive(ctx)
	}
	if err != nil {
		cleanup()
		log.Fatalf("Conversation failed: %v", err)
	}
}
