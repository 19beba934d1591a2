package memtools

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
)

// SubmitReviewTool handles the submit_for_background_review MCP tool.
type SubmitReviewTool struct {
	refactors *core.RefactorPlanLifecycle
}

// NewSubmitReviewTool creates a SubmitReviewTool.
func NewSubmitReviewTool(refactors *core.RefactorPlanLifecycle) *SubmitReviewTool {
	return &SubmitReviewTool{refactors: refactors}
}

// Definition returns the MCP tool definition for submit_for_background_review.
func (t *SubmitReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_for_background_review",
		mcp.WithDescription(
			"Draft a refactor plan from a session's log and the Macro, and store it as pending. "+
				"Use to capture technical debt noticed during the session.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session whose steps should be reviewed"),
		),
	)
}

// Handle processes the submit_for_background_review tool call.
func (t *SubmitReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.refactors.Submit(ctx, core.SubmitReviewRequest{
		SessionID: req.GetString("session_id", ""),
	})), nil
}

// ─── PendingRefactorsTool ───────────────────────────────────────────────────

// PendingRefactorsTool handles the get_pending_refactors MCP tool.
type PendingRefactorsTool struct {
	refactors *core.RefactorPlanLifecycle
}

// NewPendingRefactorsTool creates a PendingRefactorsTool.
func NewPendingRefactorsTool(refactors *core.RefactorPlanLifecycle) *PendingRefactorsTool {
	return &PendingRefactorsTool{refactors: refactors}
}

// Definition returns the MCP tool definition for get_pending_refactors.
func (t *PendingRefactorsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_pending_refactors",
		mcp.WithDescription(
			"List pending refactor plans created by submit_for_background_review. "+
				"Plans without a module are always listed.",
		),
		mcp.WithString("module_name",
			mcp.Description("Only list plans for this module"),
		),
	)
}

// Handle processes the get_pending_refactors tool call.
func (t *PendingRefactorsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toToolResult(t.refactors.ListPending(ctx, core.PendingRefactorsRequest{
		ModuleName: req.GetString("module_name", ""),
	})), nil
}
