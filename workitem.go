package caseforge

import (
	"context"
	"strings"
)

// WorkItem represents the requirement under test: a tracker issue, a design
// node, or a manually entered description.
type WorkItem struct {
	Key         string `json:"key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	IssueType   string `json:"issueType,omitempty"`

	// AcceptanceCriteria is derived from Description at fetch/entry time and
	// is not recomputed when the description is edited later.
	AcceptanceCriteria string `json:"acceptanceCriteria,omitempty"`

	// Source names the connector the item came from ("jira", "github",
	// "gitlab", "figma", "manual").
	Source string `json:"source,omitempty"`
}

// Tracker fetches work items from an issue tracker by key.
type Tracker interface {
	FetchByKey(ctx context.Context, key string) (*WorkItem, error)
}

// DesignSource fetches work items from a design tool share URL.
type DesignSource interface {
	FetchByURL(ctx context.Context, shareURL string) (*WorkItem, error)
}

// NewManualWorkItem builds a work item from hand-entered title and
// description. Acceptance criteria are derived from the description the same
// way as for fetched items.
func NewManualWorkItem(title, description string) *WorkItem {
	return &WorkItem{
		Key:                manualKey(title),
		Summary:            strings.TrimSpace(title),
		Description:        description,
		Priority:           "Medium",
		IssueType:          "Task",
		AcceptanceCriteria: ExtractAcceptanceCriteria(description),
		Source:             "manual",
	}
}

// manualKey derives a stable key from the title so generated case titles can
// reference something; manual items have no tracker key.
func manualKey(title string) string {
	fields := strings.Fields(strings.ToUpper(title))
	if len(fields) == 0 {
		return "MANUAL"
	}
	key := fields[0]
	for _, r := range key {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "MANUAL"
		}
	}
	return "MANUAL-" + key
}

// bugTypes and storyTypes classify issue types for conditional fallback
// templates.
var (
	bugTypes   = []string{"bug", "defect"}
	storyTypes = []string{"story", "feature"}
)

// IsBugType reports whether the item's issue type is a bug/defect category.
func (w *WorkItem) IsBugType() bool {
	return matchesType(w.IssueType, bugTypes)
}

// IsStoryType reports whether the item's issue type is a story/feature
// category.
func (w *WorkItem) IsStoryType() bool {
	return matchesType(w.IssueType, storyTypes)
}

func matchesType(issueType string, names []string) bool {
	t := strings.ToLower(strings.TrimSpace(issueType))
	for _, n := range names {
		if t == n {
			return true
		}
	}
	return false
}
