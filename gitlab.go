package caseforge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gitlab "github.com/xanzy/go-gitlab"
)

// GitLabTracker implements Tracker over the GitLab Issues API. Keys are issue
// IIDs, optionally prefixed with "#".
type GitLabTracker struct {
	client  *gitlab.Client
	project string
}

// NewGitLabTracker creates a tracker for one project. project is the path
// with namespace (e.g., "group/repo"). baseURL may be empty for gitlab.com.
func NewGitLabTracker(token, baseURL, project string) (*GitLabTracker, error) {
	if token == "" {
		return nil, fmt.Errorf("gitlab token is required")
	}
	if project == "" {
		return nil, fmt.Errorf("project path is required")
	}

	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}

	return &GitLabTracker{client: client, project: project}, nil
}

// FetchByKey retrieves a GitLab issue and maps it to a WorkItem.
func (t *GitLabTracker) FetchByKey(ctx context.Context, key string) (*WorkItem, error) {
	iid, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key), "#"))
	if err != nil {
		return nil, fmt.Errorf("%w: gitlab issues are addressed by iid", ErrKeyRequired)
	}

	issue, _, err := t.client.Issues.GetIssue(t.project, iid, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch %s#%d: %w", t.project, iid, err)
	}

	return &WorkItem{
		Key:                fmt.Sprintf("%s#%d", t.project, iid),
		Summary:            issue.Title,
		Description:        issue.Description,
		Status:             issue.State,
		Priority:           "Medium",
		IssueType:          issueTypeFromGitLabLabels(issue.Labels),
		AcceptanceCriteria: ExtractAcceptanceCriteria(issue.Description),
		Source:             "gitlab",
	}, nil
}

func issueTypeFromGitLabLabels(labels gitlab.Labels) string {
	for _, label := range labels {
		switch strings.ToLower(label) {
		case "bug":
			return "Bug"
		case "enhancement", "feature":
			return "Feature"
		}
	}
	return "Task"
}
