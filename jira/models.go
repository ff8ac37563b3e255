package jira

import (
	"encoding/json"
	"regexp"
	"strings"
)

// User represents the authenticated Jira user.
type User struct {
	AccountID   string `json:"accountId,omitempty"`
	Name        string `json:"name,omitempty"` // Server/DC
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress,omitempty"`
}

// Issue represents a Jira issue, trimmed to the fields the workflow reads.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the consumed issue fields.
type IssueFields struct {
	Summary string `json:"summary"`

	// Description is plain text on API v2 and an ADF document on v3; it is
	// kept raw and flattened on demand.
	Description json.RawMessage `json:"description,omitempty"`

	Status    *Status    `json:"status,omitempty"`
	Priority  *Priority  `json:"priority,omitempty"`
	IssueType *IssueType `json:"issuetype,omitempty"`
}

// Status is an issue status.
type Status struct {
	Name string `json:"name"`
}

// Priority is an issue priority.
type Priority struct {
	Name string `json:"name"`
}

// IssueType is an issue type.
type IssueType struct {
	Name string `json:"name"`
}

// DescriptionText flattens the description to plain text regardless of the
// API version that produced it.
func (f *IssueFields) DescriptionText() string {
	if len(f.Description) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(f.Description, &s) == nil {
		return s
	}

	var doc adfNode
	if json.Unmarshal(f.Description, &doc) == nil {
		return strings.TrimSpace(doc.text())
	}

	return ""
}

// adfNode is the subset of the Atlassian Document Format needed to pull
// readable text out of a rich description.
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// text concatenates all text nodes, inserting line breaks between block-level
// nodes so paragraph boundaries survive flattening.
func (n adfNode) text() string {
	if n.Type == "text" {
		return n.Text
	}

	var b strings.Builder
	for _, child := range n.Content {
		part := child.text()
		if part == "" {
			continue
		}
		if b.Len() > 0 && isBlockNode(child.Type) {
			b.WriteString("\n")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isBlockNode(nodeType string) bool {
	switch nodeType {
	case "paragraph", "heading", "listItem", "codeBlock", "blockquote":
		return true
	}
	return false
}

// issueKeyRegex validates Jira issue keys (e.g., PROJ-123).
var issueKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// ValidateIssueKey validates a Jira issue key format.
func ValidateIssueKey(key string) bool {
	return issueKeyRegex.MatchString(key)
}
