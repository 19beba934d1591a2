// Package storage implements the persistent state of Vitacore.
//
// It owns every persisted entity (steps, sessions, the Macro document,
// debates, paradoxes and refactor plans) in a single embedded SQLite
// database. Each exported operation is one statement; no transaction
// spans more than one call.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// MemoryPath selects an in-memory database instead of a file.
const MemoryPath = ":memory:"

// ErrDuplicate is returned when an insert collides with an existing
// primary key.
var ErrDuplicate = errors.New("storage: duplicate key")

// Status values persisted in the status columns.
const (
	DebateOpen   = "open"
	DebateClosed = "closed"

	ParadoxOpen     = "open"
	ParadoxResolved = "resolved"

	RefactorPending = "pending"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Step is one logged unit of work inside a session.
type Step struct {
	ID           int64  `json:"id"`
	SessionID    string `json:"session_id"`
	Action       string `json:"action"`
	Implications string `json:"implications"`
	CreatedAt    string `json:"created_at"`
}

// Session is a closed, summarized batch of steps.
type Session struct {
	ID        string  `json:"id"`
	Summary   string  `json:"summary"`
	CreatedAt string  `json:"created_at"`
	ClosedAt  *string `json:"closed_at,omitempty"`
}

// Macro is the singleton architecture document.
type Macro struct {
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at"`
}

// Debate is an open discussion item scoped to a role.
type Debate struct {
	ID        string  `json:"id"`
	Role      string  `json:"role"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Content   *string `json:"content,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Paradox is a detected contradiction between the Macro and session summaries.
type Paradox struct {
	ID                   string   `json:"id"`
	Description          string   `json:"description"`
	Analysis             *string  `json:"analysis,omitempty"`
	Status               string   `json:"status"`
	RelatedSessionIDs    []string `json:"related_session_ids"`
	CreatedAt            string   `json:"created_at"`
	ResolvedAt           *string  `json:"resolved_at,omitempty"`
	ResolutionSuggestion *string  `json:"resolution_suggestion,omitempty"`
}

// RefactorPlan is a proposed remediation plan for a session.
type RefactorPlan struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	ModuleName *string `json:"module_name,omitempty"`
	PlanText   string  `json:"plan_text"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// AddParadoxParams holds the input for creating a new paradox.
type AddParadoxParams struct {
	ID                string
	Description       string
	Analysis          string
	RelatedSessionIDs []string
}

// AddRefactorPlanParams holds the input for creating a new refactor plan.
type AddRefactorPlanParams struct {
	ID         string
	SessionID  string
	ModuleName string
	PlanText   string
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds storage configuration.
type Config struct {
	// Path is the SQLite file, or MemoryPath.
	Path string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{Path: filepath.Join(home, ".vitacore", "vitacore.sqlite")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the storage engine backed by SQLite.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storeHooks struct {
	exec  func(db execer, query string, args ...any) (sql.Result, error)
	query func(db queryer, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execHook(query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(s.db, query, args...)
	}
	return s.db.Exec(query, args...)
}

func (s *Store) queryHook(query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(s.db, query, args...)
	}
	return s.db.Query(query, args...)
}

// New opens the database at cfg.Path, creating the parent directory
// when needed, applies pragmas and initializes the schema.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("storage: empty database path")
	}

	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// Every new connection to ":memory:" is a fresh database.
	if cfg.Path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.cfg.Path
}

// ─── Schema ──────────────────────────────────────────────────────────────────

// Init creates the schema and seeds the empty Macro row. It is safe to
// call any number of times against the same database.
func (s *Store) Init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS steps (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			action       TEXT NOT NULL,
			implications TEXT NOT NULL,
			created_at   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_steps_session_id ON steps(session_id);
		CREATE INDEX IF NOT EXISTS idx_steps_created    ON steps(created_at DESC);

		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			summary    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			closed_at  TEXT
		);

		CREATE TABLE IF NOT EXISTS macro (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			content    TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS debates (
			id         TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			title      TEXT NOT NULL,
			status     TEXT NOT NULL,
			content    TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS paradoxes (
			id                    TEXT PRIMARY KEY,
			description           TEXT NOT NULL,
			analysis              TEXT,
			status                TEXT NOT NULL DEFAULT 'open',
			related_session_ids   TEXT,
			created_at            TEXT NOT NULL,
			resolved_at           TEXT,
			resolution_suggestion TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_paradoxes_status ON paradoxes(status);

		CREATE TABLE IF NOT EXISTS refactor_plans (
			id          TEXT PRIMARY KEY,
			session_id  TEXT NOT NULL,
			module_name TEXT,
			plan_text   TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'pending',
			created_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_refactor_plans_status ON refactor_plans(status);
		CREATE INDEX IF NOT EXISTS idx_refactor_plans_module ON refactor_plans(module_name);
	`
	if _, err := s.execHook(schema); err != nil {
		return err
	}

	// The Macro singleton exists from the first initialization with empty content.
	_, err := s.execHook(
		`INSERT OR IGNORE INTO macro (id, content, updated_at) VALUES (1, '', ?)`,
		formatTime(time.Unix(0, 0)),
	)
	return err
}

// ─── Steps ───────────────────────────────────────────────────────────────────

// InsertStep records a step for the session with the current timestamp.
// Duplicate (session, action) pairs are allowed.
func (s *Store) InsertStep(sessionID, action, implications string) error {
	_, err := s.execHook(
		`INSERT INTO steps (session_id, action, implications, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, action, implications, Now(),
	)
	return err
}

// GetStepsBySession returns the session's steps in insertion order.
func (s *Store) GetStepsBySession(sessionID string) ([]Step, error) {
	return s.querySteps(
		`SELECT id, session_id, action, implications, created_at
		 FROM steps WHERE session_id = ?
		 ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
}

// GetStepsForOracle returns the most recent steps across all sessions,
// newest first, capped at limit.
func (s *Store) GetStepsForOracle(limit int) ([]Step, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySteps(
		`SELECT id, session_id, action, implications, created_at
		 FROM steps
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// HasSession reports whether a session row exists for the id.
func (s *Store) HasSession(sessionID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertSession creates the closed session record. It returns an error
// wrapping ErrDuplicate when the id already exists; this is the only
// place session uniqueness is enforced.
func (s *Store) InsertSession(sessionID, summary string) error {
	now := Now()
	_, err := s.execHook(
		`INSERT INTO sessions (id, summary, created_at, closed_at) VALUES (?, ?, ?, ?)`,
		sessionID, summary, now, now,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: session %q: %v", ErrDuplicate, sessionID, err)
	}
	return err
}

// GetRecentSessions returns the most recently closed sessions.
func (s *Store) GetRecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.queryHook(
		`SELECT id, summary, created_at, closed_at
		 FROM sessions
		 ORDER BY closed_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Summary, &sess.CreatedAt, &sess.ClosedAt); err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}

// ─── Macro ───────────────────────────────────────────────────────────────────

// GetMacro returns the current Macro content. ok is false when the
// content is empty, which is how "no Macro yet" is represented.
func (s *Store) GetMacro() (content string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT content FROM macro WHERE id = 1`).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, content != "", nil
}

// GetMacroRecord returns the Macro row including its update time.
func (s *Store) GetMacroRecord() (*Macro, error) {
	var m Macro
	err := s.db.QueryRow(`SELECT content, updated_at FROM macro WHERE id = 1`).Scan(&m.Content, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetMacro overwrites the Macro singleton. No history is kept.
func (s *Store) SetMacro(content string) error {
	res, err := s.execHook(
		`UPDATE macro SET content = ?, updated_at = ? WHERE id = 1`,
		content, Now(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("storage: macro row missing")
	}
	return nil
}

// ─── Debates ─────────────────────────────────────────────────────────────────

// GetOpenDebates returns open debates in creation order, filtered by
// exact role match when role is non-empty.
func (s *Store) GetOpenDebates(role string) ([]Debate, error) {
	query := `SELECT id, role, title, status, content, created_at FROM debates WHERE status = 'open'`
	args := []any{}

	if role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.queryHook(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Debate
	for rows.Next() {
		var d Debate
		if err := rows.Scan(&d.ID, &d.Role, &d.Title, &d.Status, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// CloseDebate marks a debate as closed. Unknown ids are a no-op.
func (s *Store) CloseDebate(id string) error {
	_, err := s.execHook(`UPDATE debates SET status = 'closed' WHERE id = ?`, id)
	return err
}

// ─── Paradoxes ───────────────────────────────────────────────────────────────

// InsertParadox creates an open paradox.
func (s *Store) InsertParadox(p AddParadoxParams) error {
	_, err := s.execHook(
		`INSERT INTO paradoxes (id, description, analysis, status, related_session_ids, created_at)
		 VALUES (?, ?, ?, 'open', ?, ?)`,
		p.ID, p.Description, nullableString(p.Analysis),
		joinIDs(p.RelatedSessionIDs), Now(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: paradox %q: %v", ErrDuplicate, p.ID, err)
	}
	return err
}

// GetOpenParadoxes returns open paradoxes, newest first.
func (s *Store) GetOpenParadoxes() ([]Paradox, error) {
	return s.queryParadoxes(
		`SELECT id, description, analysis, status, related_session_ids, created_at, resolved_at, resolution_suggestion
		 FROM paradoxes WHERE status = 'open'
		 ORDER BY created_at DESC, rowid DESC`,
	)
}

// GetParadox returns the paradox with the given id, or nil when it
// does not exist.
func (s *Store) GetParadox(id string) (*Paradox, error) {
	list, err := s.queryParadoxes(
		`SELECT id, description, analysis, status, related_session_ids, created_at, resolved_at, resolution_suggestion
		 FROM paradoxes WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// ResolveParadox marks the paradox resolved and stores the suggestion
// when one is given. It does not check the current status.
func (s *Store) ResolveParadox(id, suggestion string) error {
	_, err := s.execHook(
		`UPDATE paradoxes
		 SET status = 'resolved', resolved_at = ?, resolution_suggestion = ?
		 WHERE id = ?`,
		Now(), nullableString(suggestion), id,
	)
	return err
}

// ResolveOpenParadox resolves the paradox only while it is still open. It
// reports false when no row changed: the id is unknown or another caller
// resolved it first. A stored suggestion is never overwritten.
func (s *Store) ResolveOpenParadox(id, suggestion string) (bool, error) {
	res, err := s.execHook(
		`UPDATE paradoxes
		 SET status = 'resolved', resolved_at = ?, resolution_suggestion = ?
		 WHERE id = ? AND status = 'open'`,
		Now(), nullableString(suggestion), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ─── Refactor plans ──────────────────────────────────────────────────────────

// InsertRefactorPlan creates a pending refactor plan.
func (s *Store) InsertRefactorPlan(p AddRefactorPlanParams) error {
	_, err := s.execHook(
		`INSERT INTO refactor_plans (id, session_id, module_name, plan_text, status, created_at)
		 VALUES (?, ?, ?, ?, 'pending', ?)`,
		p.ID, p.SessionID, nullableString(p.ModuleName), p.PlanText, Now(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: refactor plan %q: %v", ErrDuplicate, p.ID, err)
	}
	return err
}

// GetPendingRefactorPlans returns pending plans, newest first. With a
// module filter, plans for that module and plans with no module are
// returned; module-less plans are visible to every module.
func (s *Store) GetPendingRefactorPlans(moduleName string) ([]RefactorPlan, error) {
	query := `SELECT id, session_id, module_name, plan_text, status, created_at
		FROM refactor_plans WHERE status = 'pending'`
	args := []any{}

	if moduleName != "" {
		query += " AND (module_name IS NULL OR module_name = ?)"
		args = append(args, moduleName)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.queryHook(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []RefactorPlan
	for rows.Next() {
		var p RefactorPlan
		if err := rows.Scan(&p.ID, &p.SessionID, &p.ModuleName, &p.PlanText, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) querySteps(query string, args ...any) ([]Step, error) {
	rows, err := s.queryHook(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Step
	for rows.Next() {
		var st Step
		if err := rows.Scan(&st.ID, &st.SessionID, &st.Action, &st.Implications, &st.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

func (s *Store) queryParadoxes(query string, args ...any) ([]Paradox, error) {
	rows, err := s.queryHook(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Paradox
	for rows.Next() {
		var (
			p       Paradox
			related *string
		)
		if err := rows.Scan(
			&p.ID, &p.Description, &p.Analysis, &p.Status, &related,
			&p.CreatedAt, &p.ResolvedAt, &p.ResolutionSuggestion,
		); err != nil {
			return nil, err
		}
		p.RelatedSessionIDs = splitIDs(derefString(related))
		results = append(results, p)
	}
	return results, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// joinIDs stores an ordered id list as a JSON array column. Ids may
// contain any character, commas included.
func joinIDs(ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	v := string(data)
	return &v
}

// splitIDs decodes a related-session column. Rows written before the
// JSON encoding hold a comma-separated list.
func splitIDs(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if strings.HasPrefix(v, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(v), &ids); err == nil {
			if len(ids) == 0 {
				return nil
			}
			return ids
		}
	}
	var ids []string
	for _, id := range strings.Split(v, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// isUniqueViolation checks if an error is a SQLite UNIQUE or PRIMARY KEY constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// timeLayout has fixed-width fractional seconds so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return formatTime(time.Now())
}
