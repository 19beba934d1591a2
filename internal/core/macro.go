package core

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"go.uber.org/zap"
)

// Macro evolution messages.
const (
	MsgMacroEvolved     = "Macro evolved and saved."
	MsgMacroSaveFailure = "failed to save Macro"
)

// MacroEvolution rewrites the Macro from the most recent session summaries.
type MacroEvolution struct {
	store  Store
	port   cognitive.Port
	logger *zap.Logger
}

// NewMacroEvolution creates a MacroEvolution.
func NewMacroEvolution(store Store, port cognitive.Port, logger *zap.Logger) *MacroEvolution {
	return &MacroEvolution{store: store, port: port, logger: logger}
}

// Evolve overwrites the Macro. It works the same whether or not a Macro
// exists yet; an absent Macro is passed to the port as empty content.
func (m *MacroEvolution) Evolve(ctx context.Context) (res Result) {
	defer recoverResult(m.logger, OpEvolveMacro, &res)

	macro, sessions, err := macroAndSessions(ctx, m.store, RecentSessionsWindow)
	if err != nil {
		return opFailed(KindPersistence, OpEvolveMacro, err)
	}

	content, err := m.port.EvolveMacro(ctx, macro, summariesOf(sessions))
	if err != nil {
		return opFailed(KindCollaborator, OpEvolveMacro, err)
	}

	if err := m.store.SetMacro(content); err != nil {
		return masked(m.logger, OpEvolveMacro, MsgMacroSaveFailure, err)
	}

	m.logger.Info("macro evolved", zap.Int("sessions", len(sessions)), zap.Int("bytes", len(content)))
	return success(MsgMacroEvolved)
}
