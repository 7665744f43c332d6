package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/easeaico/decal-harness/internal/conversation"
	"github.com/easeaico/decal-harness/internal/llm"
	"github.com/easeaico/decal-harness/internal/memory"
	"github.com/easeaico/decal-harness/internal/tools"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "decal"

// AgentConfig holds the dependencies shared by every agent conversation.
type AgentConfig struct {
	Model    model.LLM
	Store    memory.Store
	Embedder memory.Embedder
}

// Agent is a responder backed by an ADK LLM agent with perceptron and recall tools.
type Agent struct {
	runner       *runner.Runner
	sessions     session.Service
	memory       *memory.Service
	agentContext *AgentContext
}

// NewAgent starts a new conversation: it loads the rules, builds the tools
// scoped to a fresh conversation ID and creates the ADK session.
func NewAgent(ctx context.Context, cfg AgentConfig) (*Agent, error) {
	agentCtx := NewAgentContext()

	rules, err := cfg.Store.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	agentCtx.GlobalRules = rules

	agentTools, err := tools.BuildTools(tools.ToolsConfig{
		Store:          cfg.Store,
		Embedder:       cfg.Embedder,
		ConversationID: agentCtx.ConversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:        "decal_agent",
		Description: "Conversation partner that can evaluate perceptrons and recall earlier messages",
		Model:       cfg.Model,
		Instruction: llm.BuildSystemPrompt(rules),
		Tools:       agentTools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	memSvc := memory.NewService(cfg.Store, cfg.Embedder)

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          llmAgent,
		SessionService: sessions,
		MemoryService:  memSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	created, err := sessions.Create(ctx, &session.CreateRequest{
		AppName: appName,
		UserID:  agentCtx.ConversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	agentCtx.SessionID = created.Session.ID()

	log.Printf("Agent conversation %s started with %d rules loaded", agentCtx.ConversationID, len(rules))
	return &Agent{
		runner:       r,
		sessions:     sessions,
		memory:       memSvc,
		agentContext: agentCtx,
	}, nil
}

// Respond implements conversation.Responder. It returns the last text the
// agent produced for the message and then records the exchange in memory.
func (a *Agent) Respond(ctx context.Context, input string) (string, error) {
	msg := genai.NewContentFromText(input, genai.RoleUser)

	var reply string
	for event, err := range a.runner.Run(ctx, a.agentContext.ConversationID, a.agentContext.SessionID, msg, agent.RunConfig{}) {
		if err != nil {
			return "", fmt.Errorf("agent run failed: %w", err)
		}
		if event == nil || event.Author == "user" || event.Content == nil {
			continue
		}
		if text := contentText(event.Content); text != "" {
			reply = text
		}
	}
	if reply == "" {
		return "", errors.New("agent produced no reply")
	}

	a.consolidate(ctx)
	return reply, nil
}

// ConversationID returns the ID scoping this conversation's memory.
func (a *Agent) ConversationID() string {
	return a.agentContext.ConversationID
}

// consolidate hands the session to the memory service. Failures only cost
// recall, so they are logged rather than returned.
func (a *Agent) consolidate(ctx context.Context) {
	resp, err := a.sessions.Get(ctx, &session.GetRequest{
		AppName:   appName,
		UserID:    a.agentContext.ConversationID,
		SessionID: a.agentContext.SessionID,
	})
	if err != nil {
		log.Printf("Warning: failed to load session for memory: %v", err)
		return
	}
	if err := a.memory.AddSession(ctx, resp.Session); err != nil {
		log.Printf("Warning: failed to consolidate memory: %v", err)
	}
}

func contentText(c *genai.Content) string {
	var sb strings.Builder
	for _, part := range c.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

var _ conversation.Responder = (*Agent)(nil)
