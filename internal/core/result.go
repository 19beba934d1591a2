// Package core holds the orchestration rules of Vitacore: closing
// sessions, evolving the Macro, detecting and resolving paradoxes,
// drafting refactor plans and answering oracle questions.
//
// Every entry point returns a Result. Failures never escape as Go
// errors or panics; they are classified by Kind and rendered as text.
// Write failures are logged in full and reported with a masked message.
package core

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Kind classifies a failed Result.
type Kind string

const (
	KindNone         Kind = ""
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindPersistence  Kind = "persistence"
	KindCollaborator Kind = "collaborator"
	KindInternal     Kind = "internal"
)

// Operation names, used as error prefixes and log fields.
const (
	OpLogStep          = "log_step"
	OpCloseSession     = "close_session"
	OpHydrateContext   = "hydrate_agent_context"
	OpEvolveMacro      = "trigger_macro_evolution"
	OpAskOracle        = "ask_the_oracle"
	OpCheckHealth      = "check_architectural_health"
	OpResolveParadox   = "resolve_architectural_paradox"
	OpSubmitReview     = "submit_for_background_review"
	OpPendingRefactors = "get_pending_refactors"
	OpCloseDebate      = "close_debate"
)

// Result is the caller-facing outcome of every operation.
type Result struct {
	Text    string `json:"text"`
	IsError bool   `json:"is_error,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
	// ID carries the identifier of a created entity, when there is one.
	ID string `json:"id,omitempty"`
}

func success(text string) Result {
	return Result{Text: text}
}

func failure(kind Kind, text string) Result {
	return Result{Text: text, IsError: true, Kind: kind}
}

func invalid(err error) Result {
	return failure(KindValidation, err.Error())
}

// opFailed reports an unmasked failure with the operation prefix.
func opFailed(kind Kind, op string, err error) Result {
	return failure(kind, fmt.Sprintf("%s failed: %v", op, err))
}

// masked logs a write failure and returns the generic message instead of
// the storage error text.
func masked(logger *zap.Logger, op, message string, err error, fields ...zap.Field) Result {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	logger.Error(message, fields...)
	return failure(KindPersistence, message)
}

// recoverResult turns a panic in an entry point into an internal error Result.
func recoverResult(logger *zap.Logger, op string, res *Result) {
	if r := recover(); r != nil {
		logger.Error("panic in operation",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
		)
		*res = failure(KindInternal, op+" failed: internal error")
	}
}
