package tools

import (
	"context"
	"fmt"

	"github.com/easeaico/decal-harness/internal/memory"
	"github.com/easeaico/decal-harness/internal/perceptron"
)

// Handler provides implementations for all agent tools of one conversation.
type Handler struct {
	store          memory.Store
	embedder       memory.Embedder
	conversationID string
}

// NewHandler creates a new tool handler with the given dependencies.
func NewHandler(store memory.Store, embedder memory.Embedder, conversationID string) *Handler {
	return &Handler{
		store:          store,
		embedder:       embedder,
		conversationID: conversationID,
	}
}

// EvaluatePerceptron runs a single perceptron over the supplied inputs.
func (h *Handler) EvaluatePerceptron(args EvaluatePerceptronArgs) EvaluatePerceptronResult {
	if len(args.Weights) == 0 {
		return EvaluatePerceptronResult{Success: false, Error: "weights are required"}
	}

	p, err := perceptron.New(len(args.Weights), args.Weights, args.Threshold)
	if err != nil {
		return EvaluatePerceptronResult{Success: false, Error: err.Error()}
	}

	out, err := p.Evaluate(args.Inputs)
	if err != nil {
		return EvaluatePerceptronResult{Success: false, Error: err.Error()}
	}

	return EvaluatePerceptronResult{Success: true, Output: out}
}

// RecallExchanges searches earlier exchanges of this conversation.
func (h *Handler) RecallExchanges(ctx context.Context, args RecallExchangesArgs) RecallExchangesResult {
	if args.Query == "" {
		return RecallExchangesResult{Success: false, Error: "query is required"}
	}

	embedding, err := h.embedder.Embed(ctx, args.Query)
	if err != nil {
		return RecallExchangesResult{Success: false, Error: fmt.Sprintf("failed to generate embedding: %v", err)}
	}

	exchanges, err := h.store.SearchSimilar(ctx, h.conversationID, embedding, 3)
	if err != nil {
		return RecallExchangesResult{Success: false, Error: fmt.Sprintf("failed to search exchanges: %v", err)}
	}

	results := make([]RecalledExchange, 0, len(exchanges))
	for _, ex := range exchanges {
		results = append(results, RecalledExchange{
			Prompt:     ex.Prompt,
			Reply:      ex.Reply,
			Similarity: fmt.Sprintf("%.2f%%", ex.SimilarityScore*100),
		})
	}

	return RecallExchangesResult{Success: true, Data: results}
}
