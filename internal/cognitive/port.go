// Package cognitive defines the text-generation collaborator consulted by
// the core and its provider-backed implementation.
//
// The core only depends on Port. Client implements Port on top of any
// Provider (Gemini or an OpenAI-compatible endpoint), owns the prompt
// text, and bounds every call with the configured timeout.
package cognitive

import "context"

// Step is the part of a logged step the collaborator sees.
type Step struct {
	Action       string `json:"action"`
	Implications string `json:"implications"`
}

// ContextRecord is one entry of oracle context.
type ContextRecord struct {
	Action       string `json:"action"`
	Implications string `json:"implications"`
	SessionID    string `json:"session_id,omitempty"`
}

// ParadoxCandidate is a contradiction proposed by the collaborator.
type ParadoxCandidate struct {
	Description string `json:"description"`
	Analysis    string `json:"analysis"`
}

// Port is the contract the core consumes. An empty macro string means
// there is no Macro yet.
type Port interface {
	SummarizeSession(ctx context.Context, steps []Step) (string, error)
	EvolveMacro(ctx context.Context, macro string, summaries []string) (string, error)
	AnswerFromContext(ctx context.Context, question string, records []ContextRecord) (string, error)
	// DetectParadoxes never fails on a malformed model response; it
	// returns an empty list instead.
	DetectParadoxes(ctx context.Context, macro string, summaries []string) ([]ParadoxCandidate, error)
	DraftRefactorPlan(ctx context.Context, steps []Step, macro string) (string, error)
}
