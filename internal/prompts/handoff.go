// Package prompts implements MCP prompt handlers for Vitacore.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// HandoffPrompt handles the vitacore-handoff MCP prompt.
// It tells the AI how to pick up the project memory and keep it current.
type HandoffPrompt struct{}

// NewHandoffPrompt creates a HandoffPrompt.
func NewHandoffPrompt() *HandoffPrompt {
	return &HandoffPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *HandoffPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vitacore-handoff",
		mcp.WithPromptDescription(
			"Start a working session with Vitacore: load the project memory, "+
				"log every step while working and close the session at the end.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Identifier for this session (default: a date-based id you choose)"),
		),
		mcp.WithArgument("role",
			mcp.ArgumentDescription("Your role, used to filter open debates (e.g. architect, backend)"),
		),
	)
}

// Handle processes the vitacore-handoff prompt request.
func (p *HandoffPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := argOr(req, "session_id", "")
	role := argOr(req, "role", "")

	sessionLine := "Pick a short unique session id (for example today's date plus a topic) and reuse it for every step."
	if sessionID != "" {
		sessionLine = fmt.Sprintf("Use session_id='%s' for every step.", sessionID)
	}

	hydrateCall := "`hydrate_agent_context`"
	if role != "" {
		hydrateCall = fmt.Sprintf("`hydrate_agent_context` with role='%s'", role)
	}

	return &mcp.GetPromptResult{
		Description: "Vitacore session handoff",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Before touching any code:\n"+
						"1. Run %s and read the Macro, the recent sessions and any open debates\n"+
						"2. %s\n\n"+
						"While working:\n"+
						"3. After each meaningful change run `log_step` with the action and its implications\n"+
						"4. If you doubt how something is done in this project, run `ask_the_oracle`\n\n"+
						"When done:\n"+
						"5. Run `close_session` with the same session_id\n"+
						"6. If the session revealed technical debt, run `submit_for_background_review`",
					hydrateCall, sessionLine,
				)),
			},
		},
	}, nil
}

// argOr returns a prompt argument or fallback when it is missing or empty.
func argOr(req mcp.GetPromptRequest, key, fallback string) string {
	if args := req.Params.Arguments; args != nil {
		if v, ok := args[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}
