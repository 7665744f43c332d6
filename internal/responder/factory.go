package responder

import (
	"context"
	"fmt"
	"log"

	"github.com/easeaico/decal-harness/internal/config"
	"github.com/easeaico/decal-harness/internal/conversation"
	"github.com/easeaico/decal-harness/internal/llm"
	"github.com/easeaico/decal-harness/internal/memory"
	"github.com/easeaico/decal-harness/internal/service"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// NewFactory returns the conversation.Factory for cfg.Responder. rules are
// added to the memory store before any responder is created. The returned
// cleanup func releases shared resources and must be called once the
// factory is no longer used.
func NewFactory(ctx context.Context, cfg config.Config, rules []string) (conversation.Factory, func(), error) {
	if !cfg.NeedsMemory() {
		return conversation.NewEcho, func() {}, nil
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close memory store: %v", err)
		}
	}

	for _, rule := range rules {
		if err := store.AddRule(ctx, "cli", rule, 1); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	factory, err := newFactory(ctx, cfg, store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return factory, cleanup, nil
}

func newFactory(ctx context.Context, cfg config.Config, store memory.Store) (conversation.Factory, error) {
	switch cfg.Responder {
	case config.ResponderRecall:
		embedder := memory.HashEmbedder{}
		return func(context.Context) (conversation.Responder, error) {
			return NewRecall(store, embedder, cfg.RecallThreshold), nil
		}, nil

	case config.ResponderGemini:
		client, err := llm.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (conversation.Responder, error) {
			rules, err := store.GetRules(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load rules: %w", err)
			}
			return client.NewResponder(llm.BuildSystemPrompt(rules)), nil
		}, nil

	case config.ResponderAgent:
		client, err := llm.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		llmModel, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM model: %w", err)
		}
		agentCfg := service.AgentConfig{Model: llmModel, Store: store, Embedder: client}
		return func(ctx context.Context) (conversation.Responder, error) {
			return service.NewAgent(ctx, agentCfg)
		}, nil
	}

	return nil, fmt.Errorf("unknown responder %q", cfg.Responder)
}

// OpenStore connects to the configured memory database and ensures its schema.
func OpenStore(ctx context.Context, cfg config.Config) (memory.Store, error) {
	var store memory.Store
	switch cfg.DBType {
	case config.DBPostgres:
		s, err := memory.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = s
	default:
		s, err := memory.NewSQLiteStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		store = s
	}

	if err := store.InitSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
