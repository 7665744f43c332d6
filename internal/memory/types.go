// Package memory stores conversation exchanges and responder rules for the
// stateful responders. Exchanges are scoped by conversation so that separate
// conversations never see each other's history.
package memory

import "time"

// Exchange is one prompt/reply pair recorded during a conversation.
type Exchange struct {
	ID              int
	ConversationID  string
	Prompt          string
	Reply           string
	SimilarityScore float32
	OccurredAt      time.Time
}

// Rule is a standing instruction injected into LLM responder prompts.
type Rule struct {
	ID          int
	Category    string
	RuleContent string
	Priority    int
	IsActive    bool
	CreatedAt   time.Time
}
