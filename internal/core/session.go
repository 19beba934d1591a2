package core

import (
	"context"
	"errors"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/storage"
	"go.uber.org/zap"
)

// Session closing messages.
const (
	MsgSessionClosed        = "Session closed, log processed."
	MsgSessionAlreadyClosed = "session already closed"
	MsgSessionNoSteps       = "session has no steps to summarize"
	MsgSessionSaveFailure   = "failed to save session"
)

// SessionLifecycle closes sessions. A session moves from having no row to
// closed exactly once.
type SessionLifecycle struct {
	store  Store
	port   cognitive.Port
	logger *zap.Logger
}

// NewSessionLifecycle creates a SessionLifecycle.
func NewSessionLifecycle(store Store, port cognitive.Port, logger *zap.Logger) *SessionLifecycle {
	return &SessionLifecycle{store: store, port: port, logger: logger}
}

// Close summarizes the session's Steps and persists the Session row.
//
// The existence check is only a shortcut. Two concurrent closes can both
// pass it; the store's unique key on session id then rejects the second
// insert, which is reported as "already closed".
func (l *SessionLifecycle) Close(ctx context.Context, req CloseSessionRequest) (res Result) {
	defer recoverResult(l.logger, OpCloseSession, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	closed, err := l.store.HasSession(req.SessionID)
	if err != nil {
		return opFailed(KindPersistence, OpCloseSession, err)
	}
	if closed {
		return failure(KindConflict, MsgSessionAlreadyClosed)
	}

	steps, err := l.store.GetStepsBySession(req.SessionID)
	if err != nil {
		return opFailed(KindPersistence, OpCloseSession, err)
	}
	if len(steps) == 0 {
		return failure(KindConflict, MsgSessionNoSteps)
	}

	summary, err := l.port.SummarizeSession(ctx, toCognitiveSteps(steps))
	if err != nil {
		return opFailed(KindCollaborator, OpCloseSession, err)
	}

	if err := l.store.InsertSession(req.SessionID, summary); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			l.logger.Warn("concurrent close lost the insert race",
				zap.String("session_id", req.SessionID), zap.Error(err))
			return failure(KindConflict, MsgSessionAlreadyClosed)
		}
		return masked(l.logger, OpCloseSession, MsgSessionSaveFailure, err, zap.String("session_id", req.SessionID))
	}

	l.logger.Info("session closed", zap.String("session_id", req.SessionID), zap.Int("steps", len(steps)))
	return success(MsgSessionClosed)
}
