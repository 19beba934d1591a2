package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// EvolveMacroTool handles the trigger_macro_evolution MCP tool.
type EvolveMacroTool struct {
	macro *core.MacroEvolution
}

// NewEvolveMacroTool creates an EvolveMacroTool.
func NewEvolveMacroTool(macro *core.MacroEvolution) *EvolveMacroTool {
	return &EvolveMacroTool{macro: macro}
}

// Definition returns the MCP tool definition for trigger_macro_evolution.
func (t *EvolveMacroTool) Definition() mcp.Tool {
	return mcp.NewTool("trigger_macro_evolution",
		mcp.WithDescription(
			"Rewrite the Macro architecture document by merging the latest closed sessions into it. "+
				"No arguments. Use after closing a few sessions to refresh the project's high-level view.",
		),
	)
}

// Handle processes the trigger_macro_evolution tool call.
func (t *EvolveMacroTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.macro.Evolve(ctx)), nil
}
