package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// CheckHealthTool handles the check_architectural_health MCP tool.
type CheckHealthTool struct {
	paradoxes *core.ParadoxLifecycle
}

// NewCheckHealthTool creates a CheckHealthTool.
func NewCheckHealthTool(paradoxes *core.ParadoxLifecycle) *CheckHealthTool {
	return &CheckHealthTool{paradoxes: paradoxes}
}

// Definition returns the MCP tool definition for check_architectural_health.
func (t *CheckHealthTool) Definition() mcp.Tool {
	return mcp.NewTool("check_architectural_health",
		mcp.WithDescription(
			"Compare the Macro with the latest closed sessions and record every contradiction found "+
				"as an open paradox. No arguments. Returns how many were detected and how many remain open.",
		),
	)
}

// Handle processes the check_architectural_health tool call.
func (t *CheckHealthTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.paradoxes.Detect(ctx)), nil
}

// ─── ResolveParadoxTool ─────────────────────────────────────────────────────

// ResolveParadoxTool handles the resolve_architectural_paradox MCP tool.
type ResolveParadoxTool struct {
	paradoxes *core.ParadoxLifecycle
}

// NewResolveParadoxTool creates a ResolveParadoxTool.
func NewResolveParadoxTool(paradoxes *core.ParadoxLifecycle) *ResolveParadoxTool {
	return &ResolveParadoxTool{paradoxes: paradoxes}
}

// Definition returns the MCP tool definition for resolve_architectural_paradox.
func (t *ResolveParadoxTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_architectural_paradox",
		mcp.WithDescription(
			"Show a paradox and mark it resolved, with a generated resolution suggestion when it has an analysis. "+
				"Already resolved paradoxes are shown as stored.",
		),
		mcp.WithString("paradox_id",
			mcp.Required(),
			mcp.Description("Paradox identifier reported by check_architectural_health"),
		),
	)
}

// Handle processes the resolve_architectural_paradox tool call.
func (t *ResolveParadoxTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.paradoxes.Resolve(ctx, core.ResolveParadoxRequest{
		ParadoxID: req.GetString("paradox_id", ""),
	})), nil
}
