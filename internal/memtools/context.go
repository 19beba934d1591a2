package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// HydrateTool handles the hydrate_agent_context MCP tool.
type HydrateTool struct {
	hydrator *core.ContextHydrator
}

// NewHydrateTool creates a HydrateTool.
func NewHydrateTool(hydrator *core.ContextHydrator) *HydrateTool {
	return &HydrateTool{hydrator: hydrator}
}

// Definition returns the MCP tool definition for hydrate_agent_context.
func (t *HydrateTool) Definition() mcp.Tool {
	return mcp.NewTool("hydrate_agent_context",
		mcp.WithDescription(
			"Load the persisted project context: the Macro architecture document, the latest closed sessions "+
				"and open debates. Call this FIRST at the start of every session.",
		),
		mcp.WithString("role",
			mcp.Description("Only include debates for this role (e.g. architect, backend)"),
		),
	)
}

// Handle processes the hydrate_agent_context tool call.
func (t *HydrateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.hydrator.Hydrate(ctx, core.HydrateRequest{
		Role: req.GetString("role", ""),
	})), nil
}

// ─── CloseDebateTool ────────────────────────────────────────────────────────

// CloseDebateTool handles the close_debate MCP tool.
type CloseDebateTool struct {
	hydrator *core.ContextHydrator
}

// NewCloseDebateTool creates a CloseDebateTool.
func NewCloseDebateTool(hydrator *core.ContextHydrator) *CloseDebateTool {
	return &CloseDebateTool{hydrator: hydrator}
}

// Definition returns the MCP tool definition for close_debate.
func (t *CloseDebateTool) Definition() mcp.Tool {
	return mcp.NewTool("close_debate",
		mcp.WithDescription(
			"Mark an open debate as closed so it no longer appears in hydrate_agent_context.",
		),
		mcp.WithString("debate_id",
			mcp.Required(),
			mcp.Description("Debate identifier shown in hydrate_agent_context"),
		),
	)
}

// Handle processes the close_debate tool call.
func (t *CloseDebateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.hydrator.CloseDebate(ctx, core.CloseDebateRequest{
		DebateID: req.GetString("debate_id", ""),
	})), nil
}
