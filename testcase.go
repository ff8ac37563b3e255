package caseforge

import (
	"fmt"
	"regexp"
	"strings"
)

// TestCase is one generated or hand-authored scenario. Steps are stored
// without rank markers; rendering re-numbers from list position.
type TestCase struct {
	Title        string   `json:"title"`
	Precondition string   `json:"precondition"`
	Steps        []string `json:"steps"`
	Expectation  string   `json:"expectation"`
}

// stepMarker matches a leading "3." or "3)" rank marker on a step line.
var stepMarker = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// ParseSteps splits free text into an ordered list of step strings: one per
// non-empty line, with any embedded rank marker stripped. Order comes from
// line position, never from the embedded numbers.
func ParseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(stepMarker.ReplaceAllString(line, ""))
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

// FormatSteps renders steps with canonical "{n}. {text}" markers, numbering
// sequentially from 1.
func FormatSteps(steps []string) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return out
}

// StepsText renders steps as one numbered line per step.
func StepsText(steps []string) string {
	return strings.Join(FormatSteps(steps), "\n")
}

// Normalize strips rank markers the steps may have arrived with (from an AI
// response or pasted text) so that rendering always re-numbers cleanly.
func (tc TestCase) Normalize() TestCase {
	tc.Steps = ParseSteps(strings.Join(tc.Steps, "\n"))
	return tc
}

// Clone returns a deep copy; review edits must never reach the generation
// baseline through a shared steps slice.
func (tc TestCase) Clone() TestCase {
	tc.Steps = append([]string(nil), tc.Steps...)
	return tc
}

// cloneCases deep-copies a case list.
func cloneCases(cases []TestCase) []TestCase {
	if cases == nil {
		return nil
	}
	out := make([]TestCase, len(cases))
	for i, tc := range cases {
		out[i] = tc.Clone()
	}
	return out
}
