package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.New(storage.Config{Path: filepath.Join(t.TempDir(), "vitacore.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedDebate inserts a debate row directly; the store itself never creates debates.
func seedDebate(t *testing.T, s *storage.Store, id, role, title, content string) {
	t.Helper()
	var c any
	if content != "" {
		c = content
	}
	_, err := s.DB().Exec(
		`INSERT INTO debates (id, role, title, status, content, created_at) VALUES (?, ?, ?, 'open', ?, ?)`,
		id, role, title, c, storage.Now(),
	)
	require.NoError(t, err)
}

func countRows(t *testing.T, s *storage.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_EmptyPath(t *testing.T) {
	_, err := storage.New(storage.Config{})
	require.Error(t, err)
}

func TestNew_InMemory(t *testing.T) {
	s, err := storage.New(storage.Config{Path: storage.MemoryPath})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.InsertStep("s1", "a", "i"))
	steps, err := s.GetStepsBySession("s1")
	require.NoError(t, err)
	assert.Len(t, steps, 1)
}

func TestInit_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetMacro("Use UTC everywhere"))

	require.NoError(t, s.Init())
	require.NoError(t, s.Init())

	assert.Equal(t, 1, countRows(t, s, "macro"))
	content, ok, err := s.GetMacro()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Use UTC everywhere", content)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "vitacore.sqlite")

	s1, err := storage.New(storage.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s1.InsertSession("sess-1", "summary"))
	require.NoError(t, s1.SetMacro("macro v1"))
	require.NoError(t, s1.Close())

	s2, err := storage.New(storage.Config{Path: path})
	require.NoError(t, err)
	defer s2.Close()

	has, err := s2.HasSession("sess-1")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 1, countRows(t, s2, "macro"))

	content, _, err := s2.GetMacro()
	require.NoError(t, err)
	assert.Equal(t, "macro v1", content)
}

// ─── Steps ──────────────────────────────────────────────────────────────────

func TestSteps_InsertionOrder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertStep("s1", "write test", "covers edge case"))
	require.NoError(t, s.InsertStep("s2", "other", "other session"))
	require.NoError(t, s.InsertStep("s1", "fix bug", "resolves null deref"))

	steps, err := s.GetStepsBySession("s1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "write test", steps[0].Action)
	assert.Equal(t, "covers edge case", steps[0].Implications)
	assert.Equal(t, "fix bug", steps[1].Action)
	assert.Equal(t, "s1", steps[1].SessionID)
	assert.NotEmpty(t, steps[0].CreatedAt)
}

func TestSteps_DuplicatesAllowed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertStep("s1", "same", "x"))
	require.NoError(t, s.InsertStep("s1", "same", "x"))

	steps, err := s.GetStepsBySession("s1")
	require.NoError(t, err)
	assert.Len(t, steps, 2)
}

func TestSteps_UnknownSessionEmpty(t *testing.T) {
	s := newTestStore(t)
	steps, err := s.GetStepsBySession("nope")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestGetStepsForOracle_CrossSessionNewestFirst(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertStep("a", "first", "1"))
	require.NoError(t, s.InsertStep("b", "second", "2"))
	require.NoError(t, s.InsertStep("a", "third", "3"))

	steps, err := s.GetStepsForOracle(2)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "third", steps[0].Action)
	assert.Equal(t, "a", steps[0].SessionID)
	assert.Equal(t, "second", steps[1].Action)
	assert.Equal(t, "b", steps[1].SessionID)
}

// ─── Sessions ───────────────────────────────────────────────────────────────

func TestInsertSession_DuplicateRejected(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertSession("s1", "first"))

	err := s.InsertSession("s1", "second")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrDuplicate), "want ErrDuplicate, got %v", err)

	sessions, err := s.GetRecentSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "first", sessions[0].Summary)
}

func TestHasSession(t *testing.T) {
	s := newTestStore(t)
	has, err := s.HasSession("s1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.InsertSession("s1", "sum"))
	has, err = s.HasSession("s1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetRecentSessions_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, s.InsertSession(id, "summary "+id))
	}

	sessions, err := s.GetRecentSessions(2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s3", sessions[0].ID)
	assert.Equal(t, "s2", sessions[1].ID)
	require.NotNil(t, sessions[0].ClosedAt)
}

// ─── Macro ──────────────────────────────────────────────────────────────────

func TestMacro_AbsentThenSet(t *testing.T) {
	s := newTestStore(t)

	content, ok, err := s.GetMacro()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, content)

	require.NoError(t, s.SetMacro("v1"))
	require.NoError(t, s.SetMacro("v2"))

	content, ok, err = s.GetMacro()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", content)
	assert.Equal(t, 1, countRows(t, s, "macro"))

	rec, err := s.GetMacroRecord()
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Content)
	assert.NotEqual(t, "1970-01-01T00:00:00.000000Z", rec.UpdatedAt)
}

func TestMacro_SetEmptyIsAbsent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetMacro("something"))
	require.NoError(t, s.SetMacro(""))

	_, ok, err := s.GetMacro()
	require.NoError(t, err)
	assert.False(t, ok)
}

// ─── Debates ────────────────────────────────────────────────────────────────

func TestDebates_RoleFilterAndClose(t *testing.T) {
	s := newTestStore(t)
	seedDebate(t, s, "d1", "backend", "Pick a queue", "kafka vs nats")
	seedDebate(t, s, "d2", "frontend", "State lib", "")

	all, err := s.GetOpenDebates("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	backend, err := s.GetOpenDebates("backend")
	require.NoError(t, err)
	require.Len(t, backend, 1)
	assert.Equal(t, "d1", backend[0].ID)
	require.NotNil(t, backend[0].Content)
	assert.Equal(t, "kafka vs nats", *backend[0].Content)

	require.NoError(t, s.CloseDebate("d1"))
	all, err = s.GetOpenDebates("")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "d2", all[0].ID)
	assert.Nil(t, all[0].Content)
}

func TestCloseDebate_UnknownIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.CloseDebate("missing"))
}

// ─── Paradoxes ──────────────────────────────────────────────────────────────

func TestParadox_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertParadox(storage.AddParadoxParams{
		ID:                "p1",
		Description:       "UTC vs local",
		Analysis:          "Macro says UTC, session used local time",
		RelatedSessionIDs: []string{"s2", "s1"},
	}))

	open, err := s.GetOpenParadoxes()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, storage.ParadoxOpen, open[0].Status)
	assert.Equal(t, []string{"s2", "s1"}, open[0].RelatedSessionIDs)

	require.NoError(t, s.ResolveParadox("p1", "Normalize to UTC at the boundary"))

	open, err = s.GetOpenParadoxes()
	require.NoError(t, err)
	assert.Empty(t, open)

	p, err := s.GetParadox("p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, storage.ParadoxResolved, p.Status)
	require.NotNil(t, p.ResolutionSuggestion)
	assert.Equal(t, "Normalize to UTC at the boundary", *p.ResolutionSuggestion)
	assert.NotNil(t, p.ResolvedAt)
}

func TestParadox_NoAnalysisNoSuggestion(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertParadox(storage.AddParadoxParams{ID: "p1", Description: "d"}))
	require.NoError(t, s.ResolveParadox("p1", ""))

	p, err := s.GetParadox("p1")
	require.NoError(t, err)
	assert.Nil(t, p.Analysis)
	assert.Nil(t, p.ResolutionSuggestion)
	assert.Empty(t, p.RelatedSessionIDs)
}

func TestResolveOpenParadox_FirstWriterWins(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertParadox(storage.AddParadoxParams{ID: "p1", Description: "d", Analysis: "a"}))

	changed, err := s.ResolveOpenParadox("p1", "first suggestion")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.ResolveOpenParadox("p1", "second suggestion")
	require.NoError(t, err)
	assert.False(t, changed)

	p, err := s.GetParadox("p1")
	require.NoError(t, err)
	require.NotNil(t, p.ResolutionSuggestion)
	assert.Equal(t, "first suggestion", *p.ResolutionSuggestion)
}

func TestResolveOpenParadox_UnknownID(t *testing.T) {
	s := newTestStore(t)
	changed, err := s.ResolveOpenParadox("missing", "x")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestResolveOpenParadox_ExecFailure(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertParadox(storage.AddParadoxParams{ID: "p1", Description: "d"}))
	s.FailExec("UPDATE paradoxes", errors.New("disk I/O error"))

	_, err := s.ResolveOpenParadox("p1", "x")
	assert.EqualError(t, err, "disk I/O error")
}

func TestParadox_RelatedSessionIDsWithCommas(t *testing.T) {
	s := newTestStore(t)
	ids := []string{"epic,a", "s 2", `quote"d`}
	require.NoError(t, s.InsertParadox(storage.AddParadoxParams{ID: "p1", Description: "d", RelatedSessionIDs: ids}))

	p, err := s.GetParadox("p1")
	require.NoError(t, err)
	assert.Equal(t, ids, p.RelatedSessionIDs)

	var raw string
	require.NoError(t, s.DB().QueryRow(`SELECT related_session_ids FROM paradoxes WHERE id = 'p1'`).Scan(&raw))
	assert.Equal(t, `["epic,a","s 2","quote\"d"]`, raw)
}

func TestParadox_LegacyCommaColumn(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DB().Exec(
		`INSERT INTO paradoxes (id, description, status, related_session_ids, created_at) VALUES ('p1', 'd', 'open', 's1, s2', ?)`,
		storage.Now(),
	)
	require.NoError(t, err)

	p, err := s.GetParadox("p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, p.RelatedSessionIDs)
}

func TestGetParadox_NotFoundIsNil(t *testing.T) {
	s := newTestStore(t)
	p, err := s.GetParadox("missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

// ─── Refactor plans ─────────────────────────────────────────────────────────

func TestRefactorPlans_ModuleFilterIncludesModuleless(t *testing.T) {
	s := newTestStore(t)
	plans := []storage.AddRefactorPlanParams{
		{ID: "r-auth", SessionID: "s1", ModuleName: "auth", PlanText: "extract token check"},
		{ID: "r-none", SessionID: "s1", PlanText: "general cleanup"},
		{ID: "r-billing", SessionID: "s2", ModuleName: "billing", PlanText: "split invoices"},
	}
	for _, p := range plans {
		require.NoError(t, s.InsertRefactorPlan(p))
	}

	got, err := s.GetPendingRefactorPlans("auth")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
		assert.Equal(t, storage.RefactorPending, p.Status)
	}
	assert.ElementsMatch(t, []string{"r-auth", "r-none"}, ids)

	all, err := s.GetPendingRefactorPlans("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "r-billing", all[0].ID)
}

// ─── Fault injection ────────────────────────────────────────────────────────

func TestFailExec_SurfacesError(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("disk full")
	s.FailExec("UPDATE macro", boom)

	err := s.SetMacro("x")
	assert.ErrorIs(t, err, boom)
}
