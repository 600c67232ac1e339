// internal/plan/plan.go
package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies one of the action types a provider may emit in a plan.
type Kind string

const (
	KindAnswerDirectly Kind = "answer_directly"
	KindBrowse         Kind = "browse"
	KindExtractContent Kind = "extract_content"
	KindClick          Kind = "click"
	KindType           Kind = "type"
	KindClarify        Kind = "clarify"
)

// Known reports whether k is one of the six action kinds the executor understands.
// Anything else is the distinct "unknown action" condition, never a failure.
func (k Kind) Known() bool {
	switch k {
	case KindAnswerDirectly, KindBrowse, KindExtractContent, KindClick, KindType, KindClarify:
		return true
	}
	return false
}

// Action is a single step in a plan. Which fields are populated depends on Type.
type Action struct {
	Type           Kind   `json:"type"`
	Question       string `json:"question,omitempty"`
	URL            string `json:"url,omitempty"`
	ProcessingGoal string `json:"processing_goal,omitempty"`
	Selector       string `json:"selector,omitempty"`
	Text           string `json:"text,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Plan is the ordered list of actions produced for one user command.
// Order is execution order. An empty list is valid.
type Plan struct {
	Actions []Action `json:"actions"`
}

// Fallback builds the universal recovery plan: answer the original user input
// directly. It is applied whenever a provider response cannot be understood
// as a plan.
func Fallback(userInput string) *Plan {
	return &Plan{Actions: []Action{{Type: KindAnswerDirectly, Question: userInput}}}
}

// fencedObjectRegex extracts a JSON object wrapped in a markdown code block.
// \x60 is a backtick; Go raw strings cannot contain them.
var fencedObjectRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json)?\\s*({.*})\\s*\x60\x60\x60")

// Normalize strips the formatting noise language models like to wrap plans in:
// markdown code fences and //-style line comments. It is the single
// normalization step that precedes strict parsing.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if m := fencedObjectRegex.FindStringSubmatch(s); len(m) > 1 {
			s = m[1]
		}
	}
	return strings.TrimSpace(stripLineComments(s))
}

// stripLineComments removes // comments outside JSON string literals, so URL
// schemes inside values ("https://...") survive intact.
func stripLineComments(s string) string {
	lines := strings.Split(s, "\n")
	for li, line := range lines {
		inString := false
		escaped := false
		for i := 0; i < len(line); i++ {
			c := line[i]
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' && inString {
				escaped = true
				continue
			}
			if c == '"' {
				inString = !inString
				continue
			}
			if c == '/' && !inString && i+1 < len(line) && line[i+1] == '/' {
				lines[li] = strings.TrimRight(line[:i], " \t")
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Parse decodes a provider's raw response into a Plan after normalization.
// A response without a JSON object, or without an "actions" array, is an
// error; callers apply Fallback and carry on.
func Parse(raw string) (*Plan, error) {
	payload := Normalize(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, fmt.Errorf("plan is not a JSON object: %w", err)
	}

	rawActions, ok := probe["actions"]
	if !ok {
		return nil, fmt.Errorf(`plan is missing the "actions" array`)
	}

	var actions []Action
	if err := json.Unmarshal(rawActions, &actions); err != nil {
		return nil, fmt.Errorf(`plan "actions" is not an array of actions: %w`, err)
	}

	return &Plan{Actions: actions}, nil
}
