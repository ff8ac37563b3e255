package caseforge

import (
	"fmt"
	"strings"
)

// RenderReport renders the session's cases as a plain-text export. The output
// is identical whether the cases came from AI, the template catalog, or manual
// edits; only the header's mode field records the origin.
func RenderReport(s *Session) string {
	var b strings.Builder

	key, summary := "-", "-"
	if s.Item != nil {
		key, summary = s.Item.Key, s.Item.Summary
	}

	mode := string(s.Mode)
	if mode == "" {
		mode = "none"
	}

	fmt.Fprintf(&b, "Test Cases for %s: %s\n", key, summary)
	fmt.Fprintf(&b, "Generation mode: %s\n", mode)
	if s.DescriptionEdited {
		b.WriteString("Description: edited before generation\n")
	}
	fmt.Fprintf(&b, "Total: %d case(s)\n", len(s.Cases))

	for i, tc := range s.Cases {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, tc.Title)
		if tc.Precondition != "" {
			fmt.Fprintf(&b, "Precondition: %s\n", tc.Precondition)
		}
		if len(tc.Steps) > 0 {
			b.WriteString("Steps:\n")
			for _, line := range FormatSteps(tc.Steps) {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
		if tc.Expectation != "" {
			fmt.Fprintf(&b, "Expected: %s\n", tc.Expectation)
		}
	}

	return b.String()
}
