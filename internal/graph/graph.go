// Package graph projects the stored project memory into nodes and edges
// for visualization. The projection is read-only.
package graph

import (
	"context"
	"fmt"

	"github.com/HendryAvila/vitacore/internal/storage"
	"golang.org/x/sync/errgroup"
)

// SessionLimit caps how many recent sessions appear in the graph.
const SessionLimit = 50

// Node types.
const (
	TypeMacro    = "macro"
	TypeSession  = "session"
	TypeStep     = "step"
	TypeParadox  = "paradox"
	TypeRefactor = "refactor"
	TypeDebate   = "debate"
)

// Reader is the read-only view of the store the projection needs.
type Reader interface {
	GetMacro() (string, bool, error)
	GetRecentSessions(limit int) ([]storage.Session, error)
	GetStepsBySession(sessionID string) ([]storage.Step, error)
	GetOpenParadoxes() ([]storage.Paradox, error)
	GetPendingRefactorPlans(moduleName string) ([]storage.RefactorPlan, error)
	GetOpenDebates(role string) ([]storage.Debate, error)
}

// Node is one vertex of the graph.
type Node struct {
	ID                string   `json:"id" yaml:"id"`
	Type              string   `json:"type" yaml:"type"`
	Label             string   `json:"label" yaml:"label"`
	Summary           string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	SessionID         string   `json:"sessionId,omitempty" yaml:"session_id,omitempty"`
	RelatedSessionIDs []string `json:"relatedSessionIds,omitempty" yaml:"related_session_ids,omitempty"`
}

// Edge links two node ids.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is the full projection.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Build reads the store and assembles the graph:
//   - the Macro, linked to every session
//   - the latest sessions, each linked to its steps
//   - open paradoxes, linked to the related sessions present in the graph
//   - pending refactor plans, linked to their session
//   - open debates, unlinked
func Build(ctx context.Context, store Reader) (*Graph, error) {
	var (
		macro     string
		hasMacro  bool
		sessions  []storage.Session
		paradoxes []storage.Paradox
		plans     []storage.RefactorPlan
		debates   []storage.Debate
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		macro, hasMacro, err = store.GetMacro()
		return err
	})
	g.Go(func() (err error) {
		sessions, err = store.GetRecentSessions(SessionLimit)
		return err
	})
	g.Go(func() (err error) {
		paradoxes, err = store.GetOpenParadoxes()
		return err
	})
	g.Go(func() (err error) {
		plans, err = store.GetPendingRefactorPlans("")
		return err
	})
	g.Go(func() (err error) {
		debates, err = store.GetOpenDebates("")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}

	out := &Graph{Nodes: []Node{}, Edges: []Edge{}}

	if hasMacro {
		out.Nodes = append(out.Nodes, Node{
			ID:      TypeMacro,
			Type:    TypeMacro,
			Label:   "Macro",
			Summary: truncate(macro, 200),
		})
	}

	present := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		sessionNode := sessionNodeID(s.ID)
		present[s.ID] = true
		out.Nodes = append(out.Nodes, Node{
			ID:      sessionNode,
			Type:    TypeSession,
			Label:   s.ID,
			Summary: s.Summary,
		})
		if hasMacro {
			out.Edges = append(out.Edges, Edge{From: TypeMacro, To: sessionNode})
		}

		steps, err := store.GetStepsBySession(s.ID)
		if err != nil {
			return nil, fmt.Errorf("graph: steps of %s: %w", s.ID, err)
		}
		for i, step := range steps {
			stepNode := fmt.Sprintf("step:%s:%d", s.ID, i)
			out.Nodes = append(out.Nodes, Node{
				ID:        stepNode,
				Type:      TypeStep,
				Label:     truncate(step.Action, 40),
				Summary:   step.Implications,
				SessionID: s.ID,
			})
			out.Edges = append(out.Edges, Edge{From: sessionNode, To: stepNode})
		}
	}

	for _, p := range paradoxes {
		paradoxNode := "paradox:" + p.ID
		n := Node{
			ID:                paradoxNode,
			Type:              TypeParadox,
			Label:             truncate(p.Description, 50),
			RelatedSessionIDs: p.RelatedSessionIDs,
		}
		if p.Analysis != nil {
			n.Summary = *p.Analysis
		}
		out.Nodes = append(out.Nodes, n)
		for _, sid := range p.RelatedSessionIDs {
			if present[sid] {
				out.Edges = append(out.Edges, Edge{From: paradoxNode, To: sessionNodeID(sid)})
			}
		}
	}

	for _, r := range plans {
		refactorNode := "refactor:" + r.ID
		out.Nodes = append(out.Nodes, Node{
			ID:        refactorNode,
			Type:      TypeRefactor,
			Label:     refactorLabel(r),
			Summary:   r.PlanText,
			SessionID: r.SessionID,
		})
		out.Edges = append(out.Edges, Edge{From: refactorNode, To: sessionNodeID(r.SessionID)})
	}

	for _, d := range debates {
		n := Node{ID: "debate:" + d.ID, Type: TypeDebate, Label: d.Title}
		if d.Content != nil {
			n.Summary = *d.Content
		}
		out.Nodes = append(out.Nodes, n)
	}

	return out, nil
}

func sessionNodeID(id string) string {
	return "session:" + id
}

func refactorLabel(r storage.RefactorPlan) string {
	if r.ModuleName != nil && *r.ModuleName != "" {
		if r.PlanText == "" {
			return *r.ModuleName
		}
		return *r.ModuleName + ": " + truncate(r.PlanText, 25)
	}
	if r.PlanText == "" {
		return truncate(r.ID, 35)
	}
	return truncate(r.PlanText, 35)
}

// truncate cuts s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
