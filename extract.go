package caseforge

import (
	"regexp"
	"strings"
)

// acceptancePatterns are tried in priority order. Each captures everything
// after the marker up to the next blank line or end of text. The Korean
// markers mirror the English ones ("test condition" / "verification
// condition").
var acceptancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)acceptance\s*criteria?[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)ac[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)테스트\s*조건[:\s]*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)검증\s*조건[:\s]*(.*?)(?:\n\n|\z)`),
}

// ExtractAcceptanceCriteria returns the first acceptance-criteria block found
// in the description, trimmed, or "" when no marker matches. The function is
// stateless: the same input always yields the same output.
func ExtractAcceptanceCriteria(description string) string {
	for _, pattern := range acceptancePatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
