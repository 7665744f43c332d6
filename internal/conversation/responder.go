// Package conversation runs prompt/response exchanges against a pluggable
// responder, either interactively or over a directory of prompt files.
package conversation

import "context"

// Responder maps a textual prompt to a textual reply.
type Responder interface {
	// Respond returns the reply to a single input line.
	Respond(ctx context.Context, input string) (string, error)
}

// Factory creates a fresh Responder. The runner calls it once per
// conversation so no state is shared between conversations.
type Factory func(ctx context.Context) (Responder, error)

// Echo replies with the input unchanged.
type Echo struct{}

// Respond implements Responder.
func (Echo) Respond(_ context.Context, input string) (string, error) {
	return input, nil
}

// NewEcho is a Factory for Echo responders.
func NewEcho(context.Context) (Responder, error) {
	return Echo{}, nil
}
