package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// OracleTool handles the ask_the_oracle MCP tool.
type OracleTool struct {
	oracle *core.OracleQuery
}

// NewOracleTool creates an OracleTool.
func NewOracleTool(oracle *core.OracleQuery) *OracleTool {
	return &OracleTool{oracle: oracle}
}

// Definition returns the MCP tool definition for ask_the_oracle.
func (t *OracleTool) Definition() mcp.Tool {
	return mcp.NewTool("ask_the_oracle",
		mcp.WithDescription(
			"Ask a technical question answered from the most recent steps across all sessions. "+
				"Returns a short curated directive.",
		),
		mcp.WithString("technical_doubt",
			mcp.Required(),
			mcp.Description("The question (e.g. 'How do we handle retries in outbound HTTP calls?')"),
		),
	)
}

// Handle processes the ask_the_oracle tool call.
func (t *OracleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.oracle.Ask(ctx, core.OracleRequest{
		Question: req.GetString("technical_doubt", ""),
	})), nil
}
