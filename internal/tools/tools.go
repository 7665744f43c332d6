// Package tools defines the ADK function tools available to the agent responder.
package tools

import (
	"fmt"

	"github.com/easeaico/decal-harness/internal/memory"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// ToolsConfig holds dependencies for creating tools.
type ToolsConfig struct {
	Store          memory.Store
	Embedder       memory.Embedder
	ConversationID string
}

// --- Tool Input/Output Structs ---

// EvaluatePerceptronArgs is the input for evaluate_perceptron tool.
type EvaluatePerceptronArgs struct {
	Weights   []float64 `json:"weights" jsonschema:"weight of each input"`
	Threshold float64   `json:"threshold" jsonschema:"the weighted sum must be strictly greater than this to output 1"`
	Inputs    []float64 `json:"inputs" jsonschema:"input values, one per weight"`
}

// EvaluatePerceptronResult is the output for evaluate_perceptron tool.
type EvaluatePerceptronResult struct {
	Success bool   `json:"success"`
	Output  int    `json:"output"`
	Error   string `json:"error,omitempty"`
}

// RecallExchangesArgs is the input for recall_exchanges tool.
type RecallExchangesArgs struct {
	Query string `json:"query" jsonschema:"what to look for in earlier messages of this conversation"`
}

// RecalledExchange is one earlier prompt/reply pair.
type RecalledExchange struct {
	Prompt     string `json:"prompt"`
	Reply      string `json:"reply"`
	Similarity string `json:"similarity"`
}

// RecallExchangesResult is the output for recall_exchanges tool.
type RecallExchangesResult struct {
	Success bool               `json:"success"`
	Data    []RecalledExchange `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// --- Tool Constructors ---

func createEvaluatePerceptronTool(h *Handler) (tool.Tool, error) {
	handler := func(ctx tool.Context, args EvaluatePerceptronArgs) (EvaluatePerceptronResult, error) {
		return h.EvaluatePerceptron(args), nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "evaluate_perceptron",
		Description: "Evaluates a single perceptron: returns 1 if the weighted sum of the inputs is strictly greater than the threshold, otherwise 0.",
	}, handler)
}

func createRecallExchangesTool(h *Handler) (tool.Tool, error) {
	handler := func(ctx tool.Context, args RecallExchangesArgs) (RecallExchangesResult, error) {
		return h.RecallExchanges(ctx, args), nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "recall_exchanges",
		Description: "Searches earlier messages of the current conversation and returns the most similar prompt/reply pairs.",
	}, handler)
}

// BuildTools creates all agent tools with the given configuration.
func BuildTools(cfg ToolsConfig) ([]tool.Tool, error) {
	h := NewHandler(cfg.Store, cfg.Embedder, cfg.ConversationID)

	var tools []tool.Tool

	evalTool, err := createEvaluatePerceptronTool(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluate_perceptron tool: %w", err)
	}
	tools = append(tools, evalTool)

	recallTool, err := createRecallExchangesTool(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create recall_exchanges tool: %w", err)
	}
	tools = append(tools, recallTool)

	return tools, nil
}
