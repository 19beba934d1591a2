package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogStepTool handles the log_step MCP tool.
type LogStepTool struct {
	steps *core.StepLogger
}

// NewLogStepTool creates a LogStepTool.
func NewLogStepTool(steps *core.StepLogger) *LogStepTool {
	return &LogStepTool{steps: steps}
}

// Definition returns the MCP tool definition for log_step.
func (t *LogStepTool) Definition() mcp.Tool {
	return mcp.NewTool("log_step",
		mcp.WithDescription(
			"Record one unit of work in the current session's log. Call this after every meaningful change: "+
				"what you did and what it implies for the rest of the system. close_session summarizes these steps.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session the step belongs to (caller-chosen, reused until close_session)"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("What was done (e.g. 'Added retry to payment client')"),
		),
		mcp.WithString("implications",
			mcp.Description("Consequences for architecture, data or other modules"),
		),
	)
}

// Handle processes the log_step tool call.
func (t *LogStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.steps.Log(ctx, core.LogStepRequest{
		SessionID:    req.GetString("session_id", ""),
		Action:       req.GetString("action", ""),
		Implications: req.GetString("implications", ""),
	})), nil
}
