// Package responder builds the responders the conversation harness can load.
package responder

import (
	"context"
	"fmt"

	"github.com/easeaico/decal-harness/internal/conversation"
	"github.com/easeaico/decal-harness/internal/memory"
	"github.com/google/uuid"
)

// Recall echoes prompts, but quotes an earlier prompt of the same
// conversation when the new one is similar enough to it.
type Recall struct {
	store          memory.Store
	embedder       memory.Embedder
	conversationID string
	threshold      float32
}

// NewRecall creates a Recall responder with a fresh conversation ID.
func NewRecall(store memory.Store, embedder memory.Embedder, threshold float64) *Recall {
	return &Recall{
		store:          store,
		embedder:       embedder,
		conversationID: uuid.NewString(),
		threshold:      float32(threshold),
	}
}

// Respond implements conversation.Responder.
func (r *Recall) Respond(ctx context.Context, input string) (string, error) {
	vec, err := r.embedder.Embed(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to embed prompt: %w", err)
	}

	past, err := r.store.SearchSimilar(ctx, r.conversationID, vec, 1)
	if err != nil {
		return "", fmt.Errorf("failed to search memory: %w", err)
	}

	reply := input
	if len(past) > 0 && past[0].SimilarityScore >= r.threshold {
		reply = fmt.Sprintf("You said something like that before: %q", past[0].Prompt)
	}

	if err := r.store.SaveExchange(ctx, r.conversationID, input, reply, vec); err != nil {
		return "", fmt.Errorf("failed to record exchange: %w", err)
	}
	return reply, nil
}

var _ conversation.Responder = (*Recall)(nil)
