package core

import (
	"context"

	"github.com/HendryAvila/vitacore/internal/cognitive"
	"github.com/HendryAvila/vitacore/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Window sizes.
const (
	RecentSessionsWindow = 10
	HydrateSessionsLimit = 3
	OracleStepsLimit     = 20
)

// Store is the subset of the storage engine the orchestrators use.
type Store interface {
	InsertStep(sessionID, action, implications string) error
	GetStepsBySession(sessionID string) ([]storage.Step, error)
	GetStepsForOracle(limit int) ([]storage.Step, error)
	HasSession(sessionID string) (bool, error)
	InsertSession(sessionID, summary string) error
	GetRecentSessions(limit int) ([]storage.Session, error)
	GetMacro() (string, bool, error)
	SetMacro(content string) error
	GetOpenDebates(role string) ([]storage.Debate, error)
	CloseDebate(id string) error
	InsertParadox(p storage.AddParadoxParams) error
	GetOpenParadoxes() ([]storage.Paradox, error)
	GetParadox(id string) (*storage.Paradox, error)
	ResolveOpenParadox(id, suggestion string) (bool, error)
	InsertRefactorPlan(p storage.AddRefactorPlanParams) error
	GetPendingRefactorPlans(moduleName string) ([]storage.RefactorPlan, error)
}

var _ Store = (*storage.Store)(nil)

// Service bundles every orchestrator over one store and one port.
// The orchestrators share nothing but those two dependencies.
type Service struct {
	Steps     *StepLogger
	Sessions  *SessionLifecycle
	Context   *ContextHydrator
	Macro     *MacroEvolution
	Paradoxes *ParadoxLifecycle
	Refactors *RefactorPlanLifecycle
	Oracle    *OracleQuery
}

// New wires all orchestrators. A nil logger is replaced by a no-op logger.
func New(store Store, port cognitive.Port, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Steps:     NewStepLogger(store, logger),
		Sessions:  NewSessionLifecycle(store, port, logger),
		Context:   NewContextHydrator(store, logger),
		Macro:     NewMacroEvolution(store, port, logger),
		Paradoxes: NewParadoxLifecycle(store, port, logger),
		Refactors: NewRefactorPlanLifecycle(store, port, logger),
		Oracle:    NewOracleQuery(store, port, logger),
	}
}

// macroAndSessions reads the Macro and the recent-session window concurrently.
func macroAndSessions(ctx context.Context, store Store, limit int) (string, []storage.Session, error) {
	var (
		macro    string
		sessions []storage.Session
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, _, err := store.GetMacro()
		macro = m
		return err
	})
	g.Go(func() error {
		s, err := store.GetRecentSessions(limit)
		sessions = s
		return err
	})
	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	return macro, sessions, nil
}

func summariesOf(sessions []storage.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary)
	}
	return out
}

func sessionIDsOf(sessions []storage.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func toCognitiveSteps(steps []storage.Step) []cognitive.Step {
	out := make([]cognitive.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, cognitive.Step{Action: s.Action, Implications: s.Implications})
	}
	return out
}
