package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/vitacore/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Context messages.
const (
	MsgNoContext         = "No persisted context (macro, sessions or debates)."
	MsgDebateClosed      = "Debate closed."
	MsgDebateSaveFailure = "failed to close debate"
)

// ContextHydrator assembles the start-of-work briefing and manages debates.
type ContextHydrator struct {
	store  Store
	logger *zap.Logger
}

// NewContextHydrator creates a ContextHydrator.
func NewContextHydrator(store Store, logger *zap.Logger) *ContextHydrator {
	return &ContextHydrator{store: store, logger: logger}
}

// Hydrate renders the Macro, the latest sessions and the open debates
// (optionally filtered by role). Empty sections are omitted.
func (h *ContextHydrator) Hydrate(ctx context.Context, req HydrateRequest) (res Result) {
	defer recoverResult(h.logger, OpHydrateContext, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	var (
		macro    string
		sessions []storage.Session
		debates  []storage.Debate
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, _, err := h.store.GetMacro()
		macro = m
		return err
	})
	g.Go(func() error {
		s, err := h.store.GetRecentSessions(HydrateSessionsLimit)
		sessions = s
		return err
	})
	g.Go(func() error {
		d, err := h.store.GetOpenDebates(req.Role)
		debates = d
		return err
	})
	if err := g.Wait(); err != nil {
		return opFailed(KindPersistence, OpHydrateContext, err)
	}

	var parts []string
	if macro != "" {
		parts = append(parts, "## Macro\n"+macro)
	}
	if len(sessions) > 0 {
		lines := make([]string, 0, len(sessions))
		for _, s := range sessions {
			lines = append(lines, fmt.Sprintf("- [%s] %s", s.ID, s.Summary))
		}
		parts = append(parts, "## Recent sessions\n"+strings.Join(lines, "\n"))
	}
	if len(debates) > 0 {
		lines := make([]string, 0, len(debates))
		for _, d := range debates {
			line := fmt.Sprintf("- [%s] %s (%s)", d.ID, d.Title, d.Role)
			if c := derefOr(d.Content); c != "" {
				line += ": " + c
			}
			lines = append(lines, line)
		}
		parts = append(parts, "## Open debates\n"+strings.Join(lines, "\n"))
	}

	if len(parts) == 0 {
		return success(MsgNoContext)
	}
	return success(strings.Join(parts, "\n\n"))
}

// CloseDebate marks a debate closed. Unknown ids are accepted silently.
func (h *ContextHydrator) CloseDebate(_ context.Context, req CloseDebateRequest) (res Result) {
	defer recoverResult(h.logger, OpCloseDebate, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	if err := h.store.CloseDebate(req.DebateID); err != nil {
		return masked(h.logger, OpCloseDebate, MsgDebateSaveFailure, err, zap.String("debate_id", req.DebateID))
	}
	return success(MsgDebateClosed)
}
