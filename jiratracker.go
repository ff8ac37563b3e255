package caseforge

import (
	"context"
	"fmt"

	"github.com/yjnoh/caseforge/jira"
)

// JiraTracker implements Tracker over a Jira client.
type JiraTracker struct {
	client *jira.Client
}

// NewJiraTracker wraps an existing Jira client.
func NewJiraTracker(client *jira.Client) *JiraTracker {
	return &JiraTracker{client: client}
}

// FetchByKey retrieves a Jira issue and maps it to a WorkItem.
func (t *JiraTracker) FetchByKey(ctx context.Context, key string) (*WorkItem, error) {
	issue, err := t.client.GetIssue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	description := issue.Fields.DescriptionText()

	item := &WorkItem{
		Key:                issue.Key,
		Summary:            issue.Fields.Summary,
		Description:        description,
		Priority:           "Medium",
		AcceptanceCriteria: ExtractAcceptanceCriteria(description),
		Source:             "jira",
	}
	if issue.Fields.Status != nil {
		item.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil && issue.Fields.Priority.Name != "" {
		item.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.IssueType != nil {
		item.IssueType = issue.Fields.IssueType.Name
	}

	return item, nil
}
