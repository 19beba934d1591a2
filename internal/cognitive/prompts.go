package cognitive

import (
	"fmt"
	"strings"
)

// NoMacroMarker replaces the Macro body in prompts when none exists yet.
const NoMacroMarker = "No previous Macro exists (first time)."

const sessionSummarySystem = `You are a Tech Lead. Condense the log of steps from one work session into exactly 3 short bullet points. Each bullet must capture an action and its implication. No preamble or headings, only the 3 lines.`

const evolveMacroSystem = `You are a software architect. Given the current Macro (the project's architecture and context document) and summaries of recent sessions, produce an evolved Macro that integrates new learnings and decisions without losing clarity. Reply only with the new Macro text, no meta commentary.`

const oracleSystem = `You are the Principal Architect. You receive past project records (actions and implications). Review them, discard bad practices, correct security mistakes, and write a clear technical directive for the current developer.
Reply only with a directive of exactly 3 numbered steps. No preamble or headings. At most 150 words.`

const paradoxSystem = `You are an architecture auditor. Compare the Macro document (project rules and standards) with recent session summaries. If you find contradictions (e.g. "Macro says UTC, a session used local time"), list each one.
Reply ONLY with valid JSON: an array of objects with exactly two keys, "description" (string, short description of the paradox) and "analysis" (string, analysis of the conflict). If there are none, reply []. No text before or after the JSON.`

const refactorPlanSystem = `You are the Tech Lead. From a session log (actions and implications) and the project Macro, identify technical debt and propose a concrete refactoring plan.
Reply only with 3 to 5 actionable bullet points (e.g. "Extract email validation into a middleware"). No headings or preamble. At most 200 words.`

func sessionSummaryUser(steps []Step) string {
	if len(steps) == 0 {
		return "There are no steps in this session. Reply: Session has no recorded steps."
	}
	blocks := make([]string, 0, len(steps))
	for i, s := range steps {
		blocks = append(blocks, fmt.Sprintf("[%d] Action: %s\nImplications: %s", i+1, s.Action, s.Implications))
	}
	return strings.Join(blocks, "\n\n")
}

func evolveMacroUser(macro string, summaries []string) string {
	macroBlock := NoMacroMarker
	if macro != "" {
		macroBlock = "Current Macro:\n" + macro
	}
	sessionsBlock := "No session summaries."
	if len(summaries) > 0 {
		sessionsBlock = "Recent session summaries:\n" + strings.Join(summaries, "\n---\n")
	}
	return macroBlock + "\n\n" + sessionsBlock + "\n\nEvolve the Macro and reply only with the new content."
}

func oracleUser(question string, records []ContextRecord) string {
	contextBlock := "No context records."
	if len(records) > 0 {
		blocks := make([]string, 0, len(records))
		for i, r := range records {
			b := fmt.Sprintf("[%d] Action: %s\nImplications: %s", i+1, r.Action, r.Implications)
			if r.SessionID != "" {
				b += fmt.Sprintf(" (session: %s)", r.SessionID)
			}
			blocks = append(blocks, b)
		}
		contextBlock = strings.Join(blocks, "\n\n")
	}
	return "Project context:\n" + contextBlock +
		"\n\nDeveloper question: " + question +
		"\n\nReply with a 3-step technical directive."
}

func paradoxUser(macro string, summaries []string) string {
	macroBlock := "No Macro defined."
	if macro != "" {
		macroBlock = "Macro:\n" + macro
	}
	sessionsBlock := "No summaries."
	if len(summaries) > 0 {
		sessionsBlock = "Session summaries:\n" + strings.Join(summaries, "\n---\n")
	}
	return macroBlock + "\n\n" + sessionsBlock +
		"\n\nList paradoxes as a JSON array of { \"description\", \"analysis\" }. If there are none: []."
}

func refactorPlanUser(steps []Step, macro string) string {
	stepsBlock := "No steps in the session."
	if len(steps) > 0 {
		blocks := make([]string, 0, len(steps))
		for i, s := range steps {
			blocks = append(blocks, fmt.Sprintf("[%d] %s\n%s", i+1, s.Action, s.Implications))
		}
		stepsBlock = strings.Join(blocks, "\n\n")
	}
	macroBlock := "No Macro."
	if macro != "" {
		macroBlock = "Macro:\n" + macro
	}
	return "Session log:\n" + stepsBlock + "\n\n" + macroBlock +
		"\n\nProduce a refactoring plan (3 to 5 actionable bullets)."
}
