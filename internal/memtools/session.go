package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// CloseSessionTool handles the close_session MCP tool.
type CloseSessionTool struct {
	sessions *core.SessionLifecycle
}

// NewCloseSessionTool creates a CloseSessionTool.
func NewCloseSessionTool(sessions *core.SessionLifecycle) *CloseSessionTool {
	return &CloseSessionTool{sessions: sessions}
}

// Definition returns the MCP tool definition for close_session.
func (t *CloseSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("close_session",
		mcp.WithDescription(
			"Close a session: its logged steps are summarized and stored as an immutable session record. "+
				"A session can be closed only once and must have at least one step.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier used in log_step"),
		),
	)
}

// Handle processes the close_session tool call.
func (t *CloseSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.sessions.Close(ctx, core.CloseSessionRequest{
		SessionID: req.GetString("session_id", ""),
	})), nil
}
