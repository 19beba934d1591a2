package core

import (
	"context"

	"go.uber.org/zap"
)

// Step logging messages.
const (
	MsgStepLogged      = "Step logged."
	MsgStepSaveFailure = "failed to save step"
)

// StepLogger appends Steps to a session's log.
type StepLogger struct {
	store  Store
	logger *zap.Logger
}

// NewStepLogger creates a StepLogger.
func NewStepLogger(store Store, logger *zap.Logger) *StepLogger {
	return &StepLogger{store: store, logger: logger}
}

// Log records one Step. Steps are accepted for any session id, closed or not.
func (s *StepLogger) Log(_ context.Context, req LogStepRequest) (res Result) {
	defer recoverResult(s.logger, OpLogStep, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	if err := s.store.InsertStep(req.SessionID, req.Action, req.Implications); err != nil {
		return masked(s.logger, OpLogStep, MsgStepSaveFailure, err, zap.String("session_id", req.SessionID))
	}
	return success(MsgStepLogged)
}
