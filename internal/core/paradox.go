package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Paradox messages.
const (
	MsgHealthOK                = "No paradoxes detected. Architectural health OK."
	MsgParadoxSaveFailure      = "failed to save paradoxes"
	MsgResolutionSaveFailure   = "failed to save paradox resolution"
	msgParadoxNotFoundTemplate = "paradox not found: %s"
)

// ParadoxLifecycle detects contradictions between the Macro and recent
// sessions, and resolves them one by one. Paradoxes move open -> resolved.
type ParadoxLifecycle struct {
	store  Store
	port   cognitive.Port
	logger *zap.Logger
	newID  func() string
}

// NewParadoxLifecycle creates a ParadoxLifecycle.
func NewParadoxLifecycle(store Store, port cognitive.Port, logger *zap.Logger) *ParadoxLifecycle {
	return &ParadoxLifecycle{store: store, port: port, logger: logger, newID: uuid.NewString}
}

// Detect runs one health check and persists every candidate as an open
// Paradox tagged with the session window that was considered.
func (p *ParadoxLifecycle) Detect(ctx context.Context) (res Result) {
	defer recoverResult(p.logger, OpCheckHealth, &res)

	macro, sessions, err := macroAndSessions(ctx, p.store, RecentSessionsWindow)
	if err != nil {
		return opFailed(KindPersistence, OpCheckHealth, err)
	}

	candidates, err := p.port.DetectParadoxes(ctx, macro, summariesOf(sessions))
	if err != nil {
		return opFailed(KindCollaborator, OpCheckHealth, err)
	}

	related := sessionIDsOf(sessions)
	for _, c := range candidates {
		params := storage.AddParadoxParams{
			ID:                p.newID(),
			Description:       c.Description,
			Analysis:          c.Analysis,
			RelatedSessionIDs: related,
		}
		if err := p.store.InsertParadox(params); err != nil {
			return masked(p.logger, OpCheckHealth, MsgParadoxSaveFailure, err, zap.String("paradox_id", params.ID))
		}
	}

	open, err := p.store.GetOpenParadoxes()
	if err != nil {
		return opFailed(KindPersistence, OpCheckHealth, err)
	}

	p.logger.Info("health check finished",
		zap.Int("detected", len(candidates)), zap.Int("open", len(open)), zap.Int("sessions", len(sessions)))

	if len(candidates) == 0 {
		return success(MsgHealthOK)
	}
	return success(fmt.Sprintf(
		"Detected %d paradox(es). Total open: %d. Use resolve_architectural_paradox(paradox_id) to see the analysis.",
		len(candidates), len(open)))
}

// Resolve marks an open Paradox resolved, asking the port for a suggestion
// when an analysis is available. A Paradox that is already resolved is
// returned as stored. When two calls race, the first write wins and both
// render the stored row.
func (p *ParadoxLifecycle) Resolve(ctx context.Context, req ResolveParadoxRequest) (res Result) {
	defer recoverResult(p.logger, OpResolveParadox, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	paradox, err := p.store.GetParadox(req.ParadoxID)
	if err != nil {
		return opFailed(KindPersistence, OpResolveParadox, err)
	}
	if paradox == nil {
		return failure(KindConflict, fmt.Sprintf(msgParadoxNotFoundTemplate, req.ParadoxID))
	}

	if paradox.Status == storage.ParadoxOpen {
		suggestion := ""
		if analysis := derefOr(paradox.Analysis); analysis != "" {
			suggestion, err = p.port.AnswerFromContext(ctx, resolutionQuestion(paradox.Description, analysis),
				[]cognitive.ContextRecord{{Action: paradox.Description, Implications: analysis}})
			if err != nil {
				return opFailed(KindCollaborator, OpResolveParadox, err)
			}
		}
		changed, err := p.store.ResolveOpenParadox(paradox.ID, suggestion)
		if err != nil {
			return masked(p.logger, OpResolveParadox, MsgResolutionSaveFailure, err, zap.String("paradox_id", paradox.ID))
		}
		if changed {
			p.logger.Info("paradox resolved", zap.String("paradox_id", paradox.ID), zap.Bool("suggested", suggestion != ""))
		} else {
			// Another caller resolved it after our read; its suggestion stands.
			p.logger.Info("paradox already resolved", zap.String("paradox_id", paradox.ID))
		}
	}

	fresh, err := p.store.GetParadox(paradox.ID)
	if err != nil {
		return opFailed(KindPersistence, OpResolveParadox, err)
	}
	if fresh != nil {
		paradox = fresh
	}
	return success(RenderParadox(paradox))
}

func resolutionQuestion(description, analysis string) string {
	return fmt.Sprintf("Suggest in 2-3 sentences how to resolve this architectural paradox: %s. Analysis: %s",
		description, analysis)
}

// RenderParadox formats a Paradox as markdown: description, then analysis
// and resolution suggestion when present.
func RenderParadox(p *storage.Paradox) string {
	parts := []string{"# Paradox: " + p.Description}
	if a := derefOr(p.Analysis); a != "" {
		parts = append(parts, "## Analysis\n"+a)
	}
	if s := derefOr(p.ResolutionSuggestion); s != "" {
		parts = append(parts, "## Resolution suggestion\n"+s)
	}
	return strings.Join(parts, "\n\n")
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
