// Package service provides the ADK agent responder and its per-conversation state.
package service

import "github.com/google/uuid"

// AgentContext identifies one conversation with the agent.
type AgentContext struct {
	// ConversationID scopes memory; it doubles as the ADK user ID.
	ConversationID string

	// SessionID is the ADK session holding this conversation's events.
	SessionID string

	// GlobalRules are static rules injected into the system prompt.
	GlobalRules []string
}

// NewAgentContext creates a context with a fresh conversation ID.
func NewAgentContext() *AgentContext {
	return &AgentContext{
		ConversationID: uuid.NewString(),
		GlobalRules:    make([]string, 0),
	}
}
