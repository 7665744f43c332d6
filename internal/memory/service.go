package memory

import (
	"context"
	"fmt"
	"strings"

	adkmemory "google.golang.org/adk/memory"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// Service adapts a Store to ADK's memory.Service. A session's user ID is used
// as the conversation ID, so searches never cross conversations.
type Service struct {
	store    Store
	embedder Embedder
}

// NewService creates a new memory service with the given store and embedder.
func NewService(store Store, embedder Embedder) *Service {
	return &Service{store: store, embedder: embedder}
}

// AddSession implements memory.Service interface.
// It records the latest user prompt and agent reply of the session as an exchange.
func (s *Service) AddSession(ctx context.Context, sess session.Session) error {
	if s.embedder == nil {
		return nil
	}

	var userQuery string
	var agentResponse string
	for event := range sess.Events().All() {
		if event.Content == nil {
			continue
		}
		textParts := extractTextFromContent([]*genai.Content{event.Content})
		if len(textParts) == 0 {
			continue
		}
		if event.Author == "user" {
			userQuery = strings.Join(textParts, " ")
			agentResponse = ""
		} else {
			agentResponse = strings.Join(textParts, " ")
		}
	}

	if userQuery == "" || agentResponse == "" {
		return nil
	}

	queryVector, err := s.embedder.Embed(ctx, userQuery)
	if err != nil {
		return fmt.Errorf("failed to generate embedding for session: %w", err)
	}

	if err := s.store.SaveExchange(ctx, sess.UserID(), userQuery, agentResponse, queryVector); err != nil {
		return fmt.Errorf("failed to save session to memory: %w", err)
	}
	return nil
}

// Search implements memory.Service interface.
// It performs a vector similarity search within the requesting user's conversation.
func (s *Service) Search(ctx context.Context, req *adkmemory.SearchRequest) (*adkmemory.SearchResponse, error) {
	if s.embedder == nil {
		return &adkmemory.SearchResponse{Memories: []adkmemory.Entry{}}, nil
	}

	queryVector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	exchanges, err := s.store.SearchSimilar(ctx, req.UserID, queryVector, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar exchanges: %w", err)
	}

	memories := make([]adkmemory.Entry, 0, len(exchanges))
	for _, ex := range exchanges {
		content := FormatExchange(ex)
		if content == "" {
			continue
		}

		// genai.Text returns []*Content, we need the first one
		contentParts := genai.Text(content)
		if len(contentParts) == 0 {
			continue
		}

		memories = append(memories, adkmemory.Entry{
			Content:   contentParts[0],
			Author:    "system",
			Timestamp: ex.OccurredAt,
		})
	}

	return &adkmemory.SearchResponse{Memories: memories}, nil
}

// FormatExchange renders an exchange as "Prompt: ...\nReply: ...", omitting empty halves.
func FormatExchange(ex Exchange) string {
	var parts []string
	if ex.Prompt != "" {
		parts = append(parts, "Prompt: "+ex.Prompt)
	}
	if ex.Reply != "" {
		parts = append(parts, "Reply: "+ex.Reply)
	}
	return strings.Join(parts, "\n")
}

// extractTextFromContent extracts text from genai.Content parts
func extractTextFromContent(content []*genai.Content) []string {
	var texts []string
	for _, c := range content {
		for _, part := range c.Parts {
			if part == nil {
				continue
			}
			if text := part.Text; text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts
}

var _ adkmemory.Service = (*Service)(nil)
