// Package llm provides Gemini-backed responders and embeddings.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/easeaico/decal-harness/internal/conversation"
	"github.com/easeaico/decal-harness/internal/memory"
	lru "github.com/hashicorp/golang-lru"
	"google.golang.org/genai"
)

// embeddingCacheSize bounds the number of texts whose embeddings are kept.
const embeddingCacheSize = 1024

// Client wraps the Google GenAI client.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	embeddings     *lru.Cache
}

// NewClient creates a new LLM client with the given API key and model names.
func NewClient(ctx context.Context, apiKey, model, embeddingModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	cache, err := lru.New(embeddingCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	return &Client{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		embeddings:     cache,
	}, nil
}

// Embed generates an embedding vector for the given text. Vectors are cached
// by text, so the same prompt is only sent to the API once.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.embeddings.Get(text); ok {
		return v.([]float32), nil
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("no embedding returned")
	}

	values := resp.Embeddings[0].Values
	c.embeddings.Add(text, values)
	return values, nil
}

// NewResponder starts a fresh chat with its own history.
func (c *Client) NewResponder(systemInstruction string) *GeminiResponder {
	return &GeminiResponder{
		generate: c.generate,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	}
}

func (c *Client) generate(ctx context.Context, history []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, c.model, history, config)
}

type generateFunc func(ctx context.Context, history []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiResponder answers each line in the context of its own conversation.
type GeminiResponder struct {
	generate generateFunc
	config   *genai.GenerateContentConfig
	history  []*genai.Content
}

// Respond implements conversation.Responder.
func (r *GeminiResponder) Respond(ctx context.Context, input string) (string, error) {
	prompt := genai.NewContentFromText(input, genai.RoleUser)

	resp, err := r.generate(ctx, append(r.history, prompt), r.config)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no reply candidates returned")
	}

	r.history = append(r.history, prompt, resp.Candidates[0].Content)
	return resp.Text(), nil
}

// Ensure Client and GeminiResponder implement the interfaces they are used as
var (
	_ memory.Embedder        = (*Client)(nil)
	_ conversation.Responder = (*GeminiResponder)(nil)
)
