package caseforge

import (
	"context"

	"github.com/yjnoh/caseforge/testrail"
)

// TestRailPublisher implements TestManagement over a TestRail client.
type TestRailPublisher struct {
	client *testrail.Client
}

// NewTestRailPublisher wraps an existing TestRail client.
func NewTestRailPublisher(client *testrail.Client) *TestRailPublisher {
	return &TestRailPublisher{client: client}
}

// ListProjects implements TestManagement.
func (p *TestRailPublisher) ListProjects(ctx context.Context) ([]Project, error) {
	projects, err := p.client.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Project, len(projects))
	for i, pr := range projects {
		out[i] = Project{ID: pr.ID, Name: pr.Name}
	}
	return out, nil
}

// ListSuites implements TestManagement.
func (p *TestRailPublisher) ListSuites(ctx context.Context, projectID int) ([]Suite, error) {
	suites, err := p.client.GetSuites(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]Suite, len(suites))
	for i, s := range suites {
		out[i] = Suite{ID: s.ID, Name: s.Name}
	}
	return out, nil
}

// ListSections implements TestManagement.
func (p *TestRailPublisher) ListSections(ctx context.Context, projectID, suiteID int) ([]Section, error) {
	sections, err := p.client.GetSections(ctx, projectID, suiteID)
	if err != nil {
		return nil, err
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = Section{ID: s.ID, Name: s.Name}
	}
	return out, nil
}

// CreateCase implements TestManagement. Steps are rendered with canonical
// numbering into TestRail's steps field.
func (p *TestRailPublisher) CreateCase(ctx context.Context, sectionID int, tc TestCase) error {
	_, err := p.client.AddCase(ctx, sectionID, testrail.CaseRequest{
		Title:          tc.Title,
		CustomPreconds: tc.Precondition,
		CustomSteps:    StepsText(tc.Steps),
		CustomExpected: tc.Expectation,
	})
	return err
}
