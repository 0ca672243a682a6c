package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/gptsh/internal/assistant"
	"github.com/ziadkadry99/gptsh/internal/config"
	"github.com/ziadkadry99/gptsh/internal/history"
)

// handleSuggestShellCommand returns a bash command for the request.
func (s *Server) handleSuggestShellCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instruction, err := request.RequireString("request")
	if err != nil || instruction == "" {
		return mcp.NewToolResultError("missing required parameter: request"), nil
	}

	sc, err := assistant.GatherShellContext(s.dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gathering context: %v", err)), nil
	}

	suggestion, err := s.assistant.ShellCommand(ctx, instruction, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	s.record(ctx, config.ToolBash, instruction, suggestion)
	return mcp.NewToolResultText(suggestion.Text), nil
}

// handleSuggestSearchCommand returns an ag command for the request.
func (s *Server) handleSuggestSearchCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instruction, err := request.RequireString("request")
	if err != nil || instruction == "" {
		return mcp.NewToolResultError("missing required parameter: request"), nil
	}

	sc, err := s.assistant.GatherSearchContext(ctx, s.dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gathering context: %v", err)), nil
	}

	suggestion, err := s.assistant.SearchCommand(ctx, instruction, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	s.record(ctx, config.ToolSearch, instruction, suggestion)
	return mcp.NewToolResultText(suggestion.Text), nil
}

// handleRefactorCode returns the refactored code.
func (s *Server) handleRefactorCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil || code == "" {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}
	instructions := request.GetString("instructions", "")
	jsonMode := request.GetBool("json_mode", false)

	suggestion, err := s.assistant.Refactor(ctx, code, instructions, jsonMode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	s.record(ctx, config.ToolRefactor, instructions, suggestion)
	return mcp.NewToolResultText(suggestion.Text), nil
}

// record saves a served suggestion. Failures are logged to stderr only.
func (s *Server) record(ctx context.Context, tool config.Tool, instruction string, suggestion *assistant.Suggestion) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, history.Run{
		Tool:         tool,
		Instruction:  instruction,
		Answer:       suggestion.Text,
		Model:        suggestion.Model,
		InputTokens:  suggestion.InputTokens,
		OutputTokens: suggestion.OutputTokens,
		Attempts:     suggestion.Attempts,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gptsh: recording history: %v\n", err)
	}
}
