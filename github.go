package caseforge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubTracker implements Tracker over the GitHub Issues API. Keys are issue
// numbers, optionally prefixed with "#".
type GitHubTracker struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubTracker creates a tracker for one repository. token is a personal
// access token; owner and repo identify the repository.
func NewGitHubTracker(token, owner, repo string) (*GitHubTracker, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubTracker{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// FetchByKey retrieves a GitHub issue and maps it to a WorkItem.
func (t *GitHubTracker) FetchByKey(ctx context.Context, key string) (*WorkItem, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key), "#"))
	if err != nil {
		return nil, fmt.Errorf("%w: github issues are addressed by number", ErrKeyRequired)
	}

	issue, _, err := t.client.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s#%d: %w", t.owner, t.repo, number, err)
	}

	description := issue.GetBody()

	return &WorkItem{
		Key:                fmt.Sprintf("%s#%d", t.repo, number),
		Summary:            issue.GetTitle(),
		Description:        description,
		Status:             issue.GetState(),
		Priority:           "Medium",
		IssueType:          issueTypeFromLabels(issue.Labels),
		AcceptanceCriteria: ExtractAcceptanceCriteria(description),
		Source:             "github",
	}, nil
}

// issueTypeFromLabels maps conventional GitHub labels onto issue types so the
// conditional fallback templates apply.
func issueTypeFromLabels(labels []*github.Label) string {
	for _, label := range labels {
		switch strings.ToLower(label.GetName()) {
		case "bug":
			return "Bug"
		case "enhancement", "feature":
			return "Feature"
		}
	}
	return "Task"
}
