package caseforge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yjnoh/caseforge/llm"
	"github.com/yjnoh/caseforge/prompt"
)

// generationPromptName is the system-prompt template looked up in the loader.
const generationPromptName = "generate-cases"

// BuildGenerationPrompt assembles the user prompt for a generation call. The
// effective description is passed separately from the item because the user
// may have edited it during the Confirm step. Focus areas and extra context
// are optional hints; each asks the model for additional dedicated cases on
// top of count.
func BuildGenerationPrompt(item *WorkItem, description string, count int, focusAreas []string, extraContext string) string {
	b := prompt.NewBuilder()
	b.Add(fmt.Sprintf("Write %d test cases for the following work item.", count))
	b.AddSection("Work Item", fmt.Sprintf("Key: %s\nSummary: %s\nType: %s\nPriority: %s",
		item.Key, item.Summary, item.IssueType, item.Priority))
	if strings.TrimSpace(description) != "" {
		b.AddSection("Description", description)
	}
	if item.AcceptanceCriteria != "" {
		b.AddSection("Acceptance Criteria", item.AcceptanceCriteria)
		b.Add("Include one additional case that verifies the acceptance criteria directly.")
	}
	if len(focusAreas) > 0 {
		b.AddList("Focus Areas", focusAreas)
		b.Add("Add one dedicated case per focus area, beyond the requested count.")
	}
	if strings.TrimSpace(extraContext) != "" {
		b.AddSection("Additional Context", extraContext)
		b.Add("Add one case that verifies behavior under the additional context, beyond the requested count.")
	}
	b.Add(`Respond with JSON only, in this exact shape:
{"testcases": [{"title": "...", "precondition": "...", "steps": ["...", "..."], "expectation": "..."}]}`)
	return b.Build()
}

// generationResponse is the JSON envelope the AI is asked to produce.
type generationResponse struct {
	TestCases []TestCase `json:"testcases"`
}

// ParseGenerationResponse extracts test cases from an AI completion. The
// content may be a fenced ```json block, a bare ``` block, or raw JSON; each
// form is tried in that order. A response without a "testcases" key yields an
// empty list, not an error. Steps are normalized so embedded rank markers
// never survive into the session.
func ParseGenerationResponse(content string) ([]TestCase, error) {
	payload := stripFence(content)

	var resp generationResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}

	cases := make([]TestCase, 0, len(resp.TestCases))
	for _, tc := range resp.TestCases {
		cases = append(cases, tc.Normalize())
	}
	return cases, nil
}

// stripFence unwraps a markdown code fence around the JSON payload, if any.
func stripFence(content string) string {
	s := strings.TrimSpace(content)
	for _, open := range []string{"```json", "```"} {
		if !strings.HasPrefix(s, open) {
			continue
		}
		inner := strings.TrimPrefix(s, open)
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		return strings.TrimSpace(inner)
	}
	return s
}

// generateWithAI runs one AI generation attempt. Any failure (call error,
// unparseable payload, empty result) returns an error; the caller degrades to
// the template catalog.
func (w *Wizard) generateWithAI(ctx context.Context, s *Session) ([]TestCase, error) {
	system, err := w.prompts.LoadWithVars(generationPromptName, map[string]any{
		"Count": strconv.Itoa(s.RequestedCount),
	})
	if err != nil {
		// Missing template is not fatal; the user prompt carries the schema.
		slog.Debug("generation system prompt unavailable", "error", err)
		system = ""
	}

	userPrompt := BuildGenerationPrompt(s.Item, s.EffectiveDescription(),
		s.RequestedCount, s.FocusAreas, s.ExtraContext)

	result, err := w.ai.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	cases, err := ParseGenerationResponse(result.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: empty result", ErrGenerationFailed)
	}

	slog.Debug("ai generation complete",
		"cases", len(cases),
		"model", result.Model,
		"inputTokens", result.Usage.InputTokens,
		"outputTokens", result.Usage.OutputTokens)
	return cases, nil
}
