package memtools

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a storage.Store in a temp directory for testing.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(storage.Config{Path: filepath.Join(t.TempDir(), "vitacore.sqlite")})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// stubPort answers every port call with fixed text.
type stubPort struct {
	text       string
	candidates []cognitive.ParadoxCandidate
	err        error
}

func (p stubPort) SummarizeSession(context.Context, []cognitive.Step) (string, error) {
	return p.text, p.err
}

func (p stubPort) EvolveMacro(context.Context, string, []string) (string, error) {
	return p.text, p.err
}

func (p stubPort) AnswerFromContext(context.Context, string, []cognitive.ContextRecord) (string, error) {
	return p.text, p.err
}

func (p stubPort) DetectParadoxes(context.Context, string, []string) ([]cognitive.ParadoxCandidate, error) {
	return p.candidates, p.err
}

func (p stubPort) DraftRefactorPlan(context.Context, []cognitive.Step, string) (string, error) {
	return p.text, p.err
}

func newService(t *testing.T, port cognitive.Port) (*core.Service, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	return core.New(store, port, zap.NewNop()), store
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func hasRequired(def mcp.Tool, name string) bool {
	for _, r := range def.InputSchema.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ─── Definitions ────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	svc, _ := newService(t, stubPort{})

	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
		optional []string
	}{
		{NewLogStepTool(svc.Steps).Definition(), "log_step", []string{"session_id", "action"}, []string{"implications"}},
		{NewCloseSessionTool(svc.Sessions).Definition(), "close_session", []string{"session_id"}, nil},
		{NewHydrateTool(svc.Context).Definition(), "hydrate_agent_context", nil, []string{"role"}},
		{NewCloseDebateTool(svc.Context).Definition(), "close_debate", []string{"debate_id"}, nil},
		{NewEvolveMacroTool(svc.Macro).Definition(), "trigger_macro_evolution", nil, nil},
		{NewOracleTool(svc.Oracle).Definition(), "ask_the_oracle", []string{"technical_doubt"}, nil},
		{NewCheckHealthTool(svc.Paradoxes).Definition(), "check_architectural_health", nil, nil},
		{NewResolveParadoxTool(svc.Paradoxes).Definition(), "resolve_architectural_paradox", []string{"paradox_id"}, nil},
		{NewSubmitReviewTool(svc.Refactors).Definition(), "submit_for_background_review", []string{"session_id"}, nil},
		{NewPendingRefactorsTool(svc.Refactors).Definition(), "get_pending_refactors", nil, []string{"module_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.def.Name != tt.name {
				t.Errorf("tool name = %q, want %q", tt.def.Name, tt.name)
			}
			if tt.def.Description == "" {
				t.Error("description is empty")
			}
			for _, p := range append(tt.required, tt.optional...) {
				if _, ok := tt.def.InputSchema.Properties[p]; !ok {
					t.Errorf("missing %q parameter", p)
				}
			}
			for _, p := range tt.required {
				if !hasRequired(tt.def, p) {
					t.Errorf("%q should be required", p)
				}
			}
			for _, p := range tt.optional {
				if hasRequired(tt.def, p) {
					t.Errorf("%q should be optional", p)
				}
			}
		})
	}
}

// ─── Session flow ────────────────────────────────────────────────────────────

func TestSessionFlow(t *testing.T) {
	svc, store := newService(t, stubPort{text: "Summary of s1."})
	ctx := context.Background()

	logTool := NewLogStepTool(svc.Steps)
	for _, action := range []string{"write test", "fix bug"} {
		r, err := logTool.Handle(ctx, makeReq(map[string]interface{}{
			"session_id":   "s1",
			"action":       action,
			"implications": "x",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.IsError {
			t.Fatalf("log_step failed: %s", resultText(r))
		}
	}

	closeTool := NewCloseSessionTool(svc.Sessions)
	r, _ := closeTool.Handle(ctx, makeReq(map[string]interface{}{"session_id": "s1"}))
	if r.IsError {
		t.Fatalf("close_session failed: %s", resultText(r))
	}
	if got := resultText(r); got != core.MsgSessionClosed {
		t.Errorf("close text = %q", got)
	}

	r, _ = closeTool.Handle(ctx, makeReq(map[string]interface{}{"session_id": "s1"}))
	if !r.IsError {
		t.Error("second close should fail")
	}
	if !strings.Contains(resultText(r), "already closed") {
		t.Errorf("second close text = %q", resultText(r))
	}

	hydrate := NewHydrateTool(svc.Context)
	r, _ = hydrate.Handle(ctx, makeReq(nil))
	if !strings.Contains(resultText(r), "- [s1] Summary of s1.") {
		t.Errorf("hydrate should list the closed session, got %q", resultText(r))
	}

	sessions, err := store.GetRecentSessions(10)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("sessions = %v, err = %v", sessions, err)
	}
}

func TestLogStep_MissingArgs(t *testing.T) {
	svc, _ := newService(t, stubPort{})
	tool := NewLogStepTool(svc.Steps)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"action": "a"}))
	if err != nil {
		t.Fatalf("handlers never return Go errors: %v", err)
	}
	if !r.IsError || !strings.Contains(resultText(r), "session_id") {
		t.Errorf("want session_id error, got %q", resultText(r))
	}
}

func TestCloseSession_NoSteps(t *testing.T) {
	svc, _ := newService(t, stubPort{text: "x"})
	r, _ := NewCloseSessionTool(svc.Sessions).Handle(context.Background(), makeReq(map[string]interface{}{"session_id": "ghost"}))
	if !r.IsError {
		t.Fatal("expected error result")
	}
}

// ─── Macro, oracle, paradoxes, refactors ────────────────────────────────────

func TestEvolveMacro(t *testing.T) {
	svc, store := newService(t, stubPort{text: "New macro."})
	r, _ := NewEvolveMacroTool(svc.Macro).Handle(context.Background(), makeReq(nil))
	if r.IsError {
		t.Fatalf("evolve failed: %s", resultText(r))
	}
	got, _, _ := store.GetMacro()
	if got != "New macro." {
		t.Errorf("macro = %q", got)
	}
}

func TestOracle(t *testing.T) {
	svc, _ := newService(t, stubPort{text: "1. a\n2. b\n3. c"})
	tool := NewOracleTool(svc.Oracle)

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{"technical_doubt": "why?"}))
	if resultText(r) != "1. a\n2. b\n3. c" {
		t.Errorf("answer = %q", resultText(r))
	}

	r, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"technical_doubt": ""}))
	if !r.IsError {
		t.Error("empty question should fail")
	}
}

func TestOracle_PortError(t *testing.T) {
	svc, _ := newService(t, stubPort{err: errors.New("gemini: quota")})
	r, _ := NewOracleTool(svc.Oracle).Handle(context.Background(), makeReq(map[string]interface{}{"technical_doubt": "q"}))
	if !r.IsError || resultText(r) != "ask_the_oracle failed: gemini: quota" {
		t.Errorf("got %q (error=%v)", resultText(r), r.IsError)
	}
}

func TestParadoxFlow(t *testing.T) {
	svc, store := newService(t, stubPort{
		text:       "Normalize to UTC at the edge.",
		candidates: []cognitive.ParadoxCandidate{{Description: "UTC vs local", Analysis: "mixed"}},
	})
	ctx := context.Background()

	r, _ := NewCheckHealthTool(svc.Paradoxes).Handle(ctx, makeReq(nil))
	if !strings.HasPrefix(resultText(r), "Detected 1 paradox(es). Total open: 1.") {
		t.Fatalf("health text = %q", resultText(r))
	}

	open, err := store.GetOpenParadoxes()
	if err != nil || len(open) != 1 {
		t.Fatalf("open = %v, err = %v", open, err)
	}

	resolve := NewResolveParadoxTool(svc.Paradoxes)
	r, _ = resolve.Handle(ctx, makeReq(map[string]interface{}{"paradox_id": open[0].ID}))
	text := resultText(r)
	for _, want := range []string{"# Paradox: UTC vs local", "## Analysis\nmixed", "## Resolution suggestion\nNormalize to UTC at the edge."} {
		if !strings.Contains(text, want) {
			t.Errorf("resolve text missing %q:\n%s", want, text)
		}
	}

	r, _ = resolve.Handle(ctx, makeReq(map[string]interface{}{"paradox_id": "missing"}))
	if !r.IsError {
		t.Error("unknown paradox should fail")
	}
}

func TestRefactorFlow(t *testing.T) {
	svc, store := newService(t, stubPort{text: "- split handler"})
	ctx := context.Background()
	if err := store.InsertStep("s1", "big handler", "hard to test"); err != nil {
		t.Fatal(err)
	}

	r, _ := NewSubmitReviewTool(svc.Refactors).Handle(ctx, makeReq(map[string]interface{}{"session_id": "s1"}))
	if r.IsError {
		t.Fatalf("submit failed: %s", resultText(r))
	}

	list := NewPendingRefactorsTool(svc.Refactors)
	r, _ = list.Handle(ctx, makeReq(map[string]interface{}{"module_name": "auth"}))
	if !strings.Contains(resultText(r), "Session: s1\n- split handler") {
		t.Errorf("module-less plan should be listed under any filter, got %q", resultText(r))
	}
}

func TestPendingRefactors_Empty(t *testing.T) {
	svc, _ := newService(t, stubPort{})
	r, _ := NewPendingRefactorsTool(svc.Refactors).Handle(context.Background(), makeReq(nil))
	if r.IsError || resultText(r) != core.MsgNoPendingRefactors {
		t.Errorf("got %q (error=%v)", resultText(r), r.IsError)
	}
}

func TestCloseDebate(t *testing.T) {
	svc, _ := newService(t, stubPort{})
	tool := NewCloseDebateTool(svc.Context)

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{"debate_id": "d1"}))
	if r.IsError {
		t.Errorf("close_debate failed: %s", resultText(r))
	}
	r, _ = tool.Handle(context.Background(), makeReq(nil))
	if !r.IsError {
		t.Error("missing debate_id should fail")
	}
}
