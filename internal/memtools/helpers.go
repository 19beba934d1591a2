// Package memtools provides the MCP tool handlers for Vitacore's project memory.
//
// Each tool handler follows the same pattern:
// - A struct with its orchestrator from internal/core injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() maps arguments onto a core request and the core.Result back
//
// Handlers never return a Go error; failures travel as error tool results.
package memtools

import (
	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// toToolResult converts an orchestrator outcome into an MCP tool result.
func toToolResult(res core.Result) *mcp.CallToolResult {
	if res.IsError {
		return mcp.NewToolResultError(res.Text)
	}
	return mcp.NewToolResultText(res.Text)
}
