package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Refactor plan messages.
const (
	MsgReviewNoSteps       = "session has no steps; nothing to review"
	MsgPlanSaveFailure     = "failed to save refactor plan"
	MsgNoPendingRefactors  = "No pending refactor plans."
	refactorEntrySeparator = "\n\n---\n\n"
)

// RefactorPlanLifecycle drafts refactor plans for sessions and lists the
// pending ones. Plans are created pending and never leave that state here.
type RefactorPlanLifecycle struct {
	store  Store
	port   cognitive.Port
	logger *zap.Logger
	newID  func() string
}

// NewRefactorPlanLifecycle creates a RefactorPlanLifecycle.
func NewRefactorPlanLifecycle(store Store, port cognitive.Port, logger *zap.Logger) *RefactorPlanLifecycle {
	return &RefactorPlanLifecycle{store: store, port: port, logger: logger, newID: uuid.NewString}
}

// Submit drafts and stores a plan for one session. The new plan id is
// returned in Result.ID. No module is inferred.
func (r *RefactorPlanLifecycle) Submit(ctx context.Context, req SubmitReviewRequest) (res Result) {
	defer recoverResult(r.logger, OpSubmitReview, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	var (
		steps []storage.Step
		macro string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := r.store.GetStepsBySession(req.SessionID)
		steps = s
		return err
	})
	g.Go(func() error {
		m, _, err := r.store.GetMacro()
		macro = m
		return err
	})
	if err := g.Wait(); err != nil {
		return opFailed(KindPersistence, OpSubmitReview, err)
	}
	if len(steps) == 0 {
		return failure(KindConflict, MsgReviewNoSteps)
	}

	plan, err := r.port.DraftRefactorPlan(ctx, toCognitiveSteps(steps), macro)
	if err != nil {
		return opFailed(KindCollaborator, OpSubmitReview, err)
	}

	id := r.newID()
	if err := r.store.InsertRefactorPlan(storage.AddRefactorPlanParams{
		ID:        id,
		SessionID: req.SessionID,
		PlanText:  plan,
	}); err != nil {
		return masked(r.logger, OpSubmitReview, MsgPlanSaveFailure, err, zap.String("session_id", req.SessionID))
	}

	r.logger.Info("refactor plan stored", zap.String("plan_id", id), zap.String("session_id", req.SessionID))
	res = success(fmt.Sprintf("Review requested. Refactor plan saved (id: %s). Use get_pending_refactors to list it.", id))
	res.ID = id
	return res
}

// ListPending renders the pending plans, optionally narrowed to one module.
// Plans without a module are always listed.
func (r *RefactorPlanLifecycle) ListPending(_ context.Context, req PendingRefactorsRequest) (res Result) {
	defer recoverResult(r.logger, OpPendingRefactors, &res)

	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	plans, err := r.store.GetPendingRefactorPlans(req.ModuleName)
	if err != nil {
		return opFailed(KindPersistence, OpPendingRefactors, err)
	}
	if len(plans) == 0 {
		return success(MsgNoPendingRefactors)
	}

	entries := make([]string, 0, len(plans))
	for _, p := range plans {
		entries = append(entries, renderPlan(p))
	}
	return success(strings.Join(entries, refactorEntrySeparator))
}

func renderPlan(p storage.RefactorPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] Session: %s", p.ID, p.SessionID)
	if m := derefOr(p.ModuleName); m != "" {
		fmt.Fprintf(&b, " | Module: %s", m)
	}
	b.WriteString("\n")
	b.WriteString(p.PlanText)
	return b.String()
}
