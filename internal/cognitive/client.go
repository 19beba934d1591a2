package cognitive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider sends one system+user exchange to a language model.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 60 * time.Second

// Fallback texts used when the provider answers with nothing.
const (
	emptySummary = "Session has no recorded steps."
	emptyOracle  = "No answer from the oracle."
	emptyPlan    = "Could not generate a refactor plan."
)

// Client implements Port on top of a Provider.
type Client struct {
	provider Provider
	timeout  time.Duration
}

var _ Port = (*Client)(nil)

// NewClient creates a Client. A non-positive timeout selects DefaultTimeout.
func NewClient(p Provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{provider: p, timeout: timeout}
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// generate runs one bounded provider call. A timeout is reported like
// any other provider failure.
func (c *Client) generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.provider.Generate(ctx, system, user)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s: timed out after %s", c.provider.Name(), c.timeout)
		}
		return "", fmt.Errorf("%s: %w", c.provider.Name(), err)
	}
	return strings.TrimSpace(text), nil
}

// SummarizeSession condenses a session's steps.
func (c *Client) SummarizeSession(ctx context.Context, steps []Step) (string, error) {
	text, err := c.generate(ctx, sessionSummarySystem, sessionSummaryUser(steps))
	if err != nil {
		return "", err
	}
	if text == "" {
		return emptySummary, nil
	}
	return text, nil
}

// EvolveMacro produces a new Macro body.
func (c *Client) EvolveMacro(ctx context.Context, macro string, summaries []string) (string, error) {
	return c.generate(ctx, evolveMacroSystem, evolveMacroUser(macro, summaries))
}

// AnswerFromContext answers a question given context records.
func (c *Client) AnswerFromContext(ctx context.Context, question string, records []ContextRecord) (string, error) {
	text, err := c.generate(ctx, oracleSystem, oracleUser(question, records))
	if err != nil {
		return "", err
	}
	if text == "" {
		return emptyOracle, nil
	}
	return text, nil
}

// DetectParadoxes asks for contradictions between the Macro and the
// summaries. Provider failures are errors; unparseable answers are not.
func (c *Client) DetectParadoxes(ctx context.Context, macro string, summaries []string) ([]ParadoxCandidate, error) {
	text, err := c.generate(ctx, paradoxSystem, paradoxUser(macro, summaries))
	if err != nil {
		return nil, err
	}
	candidates, err := ParseParadoxCandidates(text)
	if err != nil {
		return []ParadoxCandidate{}, nil
	}
	return candidates, nil
}

// DraftRefactorPlan drafts a plan from a session log and the Macro.
func (c *Client) DraftRefactorPlan(ctx context.Context, steps []Step, macro string) (string, error) {
	text, err := c.generate(ctx, refactorPlanSystem, refactorPlanUser(steps, macro))
	if err != nil {
		return "", err
	}
	if text == "" {
		return emptyPlan, nil
	}
	return text, nil
}

// ParseParadoxCandidates decodes a JSON array of {description, analysis}
// objects. A surrounding markdown code fence is tolerated. Items that
// are not objects with both string fields are dropped. An empty input yields an empty list.
func ParseParadoxCandidates(text string) ([]ParadoxCandidate, error) {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return []ParadoxCandidate{}, nil
	}

	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse paradox candidates: %w", err)
	}

	out := make([]ParadoxCandidate, 0, len(raw))
	for _, v := range raw {
		item, ok := v.(map[string]any)
		if !ok {
			continue
		}
		desc, ok1 := item["description"].(string)
		analysis, ok2 := item["analysis"].(string)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, ParadoxCandidate{Description: desc, Analysis: analysis})
	}
	return out, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
