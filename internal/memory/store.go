package memory

import "context"

// Store defines the contract for memory operations.
type Store interface {
	// InitSchema creates the tables the store needs if they don't exist.
	InitSchema(ctx context.Context) error

	// GetRules retrieves the content of all active rules, highest priority first.
	GetRules(ctx context.Context) ([]string, error)

	// AddRule stores a new active rule.
	AddRule(ctx context.Context, category, content string, priority int) error

	// SaveExchange records a prompt/reply pair with the prompt's embedding.
	SaveExchange(ctx context.Context, conversationID, prompt, reply string, vector []float32) error

	// SearchSimilar returns the exchanges of one conversation whose prompts are
	// most similar to queryVector, most similar first.
	SearchSimilar(ctx context.Context, conversationID string, queryVector []float32, limit int) ([]Exchange, error)

	// Close releases any resources held by the store.
	Close() error
}
