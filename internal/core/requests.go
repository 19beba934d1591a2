package core

import (
	"errors"
	"strings"
)

// Validation messages.
var (
	errSessionIDRequired = errors.New("session_id is required")
	errActionRequired    = errors.New("action is required")
	errQuestionRequired  = errors.New("technical_doubt is required and cannot be empty")
	errParadoxIDRequired = errors.New("paradox_id is required")
	errDebateIDRequired  = errors.New("debate_id is required")
)

// LogStepRequest is the input of log_step.
type LogStepRequest struct {
	SessionID    string
	Action       string
	Implications string
}

// Validate trims identifiers and checks required fields.
func (r *LogStepRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Action = strings.TrimSpace(r.Action)
	if r.SessionID == "" {
		return errSessionIDRequired
	}
	if r.Action == "" {
		return errActionRequired
	}
	return nil
}

// CloseSessionRequest is the input of close_session.
type CloseSessionRequest struct {
	SessionID string
}

// Validate trims and checks the session id.
func (r *CloseSessionRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		return errSessionIDRequired
	}
	return nil
}

// HydrateRequest is the input of hydrate_agent_context. Role is optional.
type HydrateRequest struct {
	Role string
}

// Validate trims the role.
func (r *HydrateRequest) Validate() error {
	r.Role = strings.TrimSpace(r.Role)
	return nil
}

// OracleRequest is the input of ask_the_oracle.
type OracleRequest struct {
	Question string
}

// Validate trims and checks the question.
func (r *OracleRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return errQuestionRequired
	}
	return nil
}

// ResolveParadoxRequest is the input of resolve_architectural_paradox.
type ResolveParadoxRequest struct {
	ParadoxID string
}

// Validate trims and checks the paradox id.
func (r *ResolveParadoxRequest) Validate() error {
	r.ParadoxID = strings.TrimSpace(r.ParadoxID)
	if r.ParadoxID == "" {
		return errParadoxIDRequired
	}
	return nil
}

// SubmitReviewRequest is the input of submit_for_background_review.
type SubmitReviewRequest struct {
	SessionID string
}

// Validate trims and checks the session id.
func (r *SubmitReviewRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		return errSessionIDRequired
	}
	return nil
}

// PendingRefactorsRequest is the input of get_pending_refactors.
type PendingRefactorsRequest struct {
	ModuleName string
}

// Validate trims the module filter.
func (r *PendingRefactorsRequest) Validate() error {
	r.ModuleName = strings.TrimSpace(r.ModuleName)
	return nil
}

// CloseDebateRequest is the input of close_debate.
type CloseDebateRequest struct {
	DebateID string
}

// Validate trims and checks the debate id.
func (r *CloseDebateRequest) Validate() error {
	r.DebateID = strings.TrimSpace(r.DebateID)
	if r.DebateID == "" {
		return errDebateIDRequired
	}
	return nil
}
