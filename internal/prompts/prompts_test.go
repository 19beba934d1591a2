package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptReq(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestHandoffPrompt(t *testing.T) {
	p := NewHandoffPrompt()
	if name := p.Definition().Name; name != "vitacore-handoff" {
		t.Errorf("name = %q", name)
	}

	r, err := p.Handle(context.Background(), promptReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	text := promptText(t, r)
	for _, want := range []string{"`hydrate_agent_context`", "`log_step`", "`close_session`"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %s in:\n%s", want, text)
		}
	}

	r, _ = p.Handle(context.Background(), promptReq(map[string]string{"session_id": "2026-10-18-auth", "role": "architect"}))
	text = promptText(t, r)
	if !strings.Contains(text, "session_id='2026-10-18-auth'") {
		t.Error("session id not used")
	}
	if !strings.Contains(text, "role='architect'") {
		t.Error("role not used")
	}
}

func TestReviewPrompt(t *testing.T) {
	p := NewReviewPrompt()
	if name := p.Definition().Name; name != "vitacore-review" {
		t.Errorf("name = %q", name)
	}

	r, _ := p.Handle(context.Background(), promptReq(map[string]string{"module_name": "auth"}))
	text := promptText(t, r)
	if !strings.Contains(text, "module_name='auth'") {
		t.Errorf("module filter not used:\n%s", text)
	}
	if !strings.Contains(text, "`check_architectural_health`") {
		t.Error("health check step missing")
	}
}
