package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the vitacore-review MCP prompt.
// It walks the AI through an architecture review of the stored memory.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vitacore-review",
		mcp.WithPromptDescription(
			"Review the project's architectural health: refresh the Macro, "+
				"detect and resolve paradoxes, and list pending refactors.",
		),
		mcp.WithArgument("module_name",
			mcp.ArgumentDescription("Only list refactor plans for this module"),
		),
	)
}

// Handle processes the vitacore-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	refactors := "`get_pending_refactors`"
	if module := argOr(req, "module_name", ""); module != "" {
		refactors = fmt.Sprintf("`get_pending_refactors` with module_name='%s'", module)
	}

	return &mcp.GetPromptResult{
		Description: "Vitacore architecture review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please review the architecture recorded in Vitacore:\n" +
						"1. Run `trigger_macro_evolution` so the Macro reflects the latest sessions\n" +
						"2. Run `check_architectural_health`\n" +
						"3. For every open paradox, run `resolve_architectural_paradox` and summarize the suggestion\n" +
						"4. Run " + refactors + " and rank the plans by impact\n" +
						"5. Tell me what to tackle first",
				),
			},
		},
	}, nil
}
