// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools, prompts and resources that depend on
// them. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/config"
	"github.com/HendryAvila/vitacore/internal/core"
	"github.com/HendryAvila/vitacore/internal/memtools"
	"github.com/HendryAvila/vitacore/internal/prompts"
	"github.com/HendryAvila/vitacore/internal/resources"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the MCP server name announced to hosts.
const Name = "vitacore"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered over one store and one Cognitive Port.
func New(store *storage.Store, port cognitive.Port, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, core.New(store, port, logger))

	// --- Register prompts ---

	handoff := prompts.NewHandoffPrompt()
	s.AddPrompt(handoff.Definition(), handoff.Handle)

	review := prompts.NewReviewPrompt()
	s.AddPrompt(review.Definition(), review.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.MacroResource(), resourceHandler.HandleMacro)
	s.AddResource(resourceHandler.ParadoxesResource(), resourceHandler.HandleParadoxes)

	return s
}

// Open resolves every dependency from cfg and returns the ready server.
// The returned cleanup closes the database and is always non-nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	port, err := NewPort(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}

	store, err := storage.New(storage.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close", zap.Error(err))
		}
	}

	logger.Info("vitacore ready",
		zap.String("db", store.Path()),
		zap.String("provider", port.Provider().Name()),
		zap.Duration("timeout", cfg.Timeout()),
	)
	return New(store, port, logger), cleanup, nil
}

// NewPort builds the Cognitive Port for the configured provider.
func NewPort(ctx context.Context, cfg *config.Config) (*cognitive.Client, error) {
	var (
		provider cognitive.Provider
		err      error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		provider, err = cognitive.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOpenAI:
		provider, err = cognitive.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return cognitive.NewClient(provider, cfg.Timeout()), nil
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// registerTools registers the ten Vitacore MCP tools with the server.
func registerTools(s *server.MCPServer, svc *core.Service) {
	// --- Session work ---
	logStep := memtools.NewLogStepTool(svc.Steps)
	s.AddTool(logStep.Definition(), logStep.Handle)

	closeSession := memtools.NewCloseSessionTool(svc.Sessions)
	s.AddTool(closeSession.Definition(), closeSession.Handle)

	// --- Context ---
	hydrate := memtools.NewHydrateTool(svc.Context)
	s.AddTool(hydrate.Definition(), hydrate.Handle)

	closeDebate := memtools.NewCloseDebateTool(svc.Context)
	s.AddTool(closeDebate.Definition(), closeDebate.Handle)

	oracle := memtools.NewOracleTool(svc.Oracle)
	s.AddTool(oracle.Definition(), oracle.Handle)

	// --- Macro ---
	evolve := memtools.NewEvolveMacroTool(svc.Macro)
	s.AddTool(evolve.Definition(), evolve.Handle)

	// --- Paradoxes ---
	health := memtools.NewCheckHealthTool(svc.Paradoxes)
	s.AddTool(health.Definition(), health.Handle)

	resolve := memtools.NewResolveParadoxTool(svc.Paradoxes)
	s.AddTool(resolve.Definition(), resolve.Handle)

	// --- Refactor plans ---
	submit := memtools.NewSubmitReviewTool(svc.Refactors)
	s.AddTool(submit.Definition(), submit.Handle)

	pending := memtools.NewPendingRefactorsTool(svc.Refactors)
	s.AddTool(pending.Definition(), pending.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use Vitacore effectively.
func serverInstructions() string {
	return `You have access to Vitacore, a project memory MCP server.

## Session loop
1. At the start of every session call hydrate_agent_context (optionally with your role).
   It returns the Macro architecture document, the latest closed sessions and open debates.
2. While working, call log_step after each meaningful change with:
   - session_id: one id you choose for the whole session
   - action: what you did
   - implications: what it means for the rest of the system
3. At the end call close_session with the same session_id.
   Steps are summarized and the session becomes immutable. A session closes only once.

## Keeping the architecture current
- trigger_macro_evolution merges the latest closed sessions into the Macro.
- check_architectural_health compares the Macro with recent sessions and records
  contradictions as open paradoxes. resolve_architectural_paradox(paradox_id) shows one
  and marks it resolved with a suggestion.
- submit_for_background_review(session_id) drafts a refactor plan from a session's log.
  get_pending_refactors(module_name?) lists pending plans.

## Asking questions
- ask_the_oracle(technical_doubt) answers from the most recent steps across all sessions.
  Prefer it over guessing how the project does something.

Steps and sessions are never edited or deleted. Log facts, not plans.`
}
