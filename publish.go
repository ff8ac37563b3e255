package caseforge

import (
	"context"
	"fmt"
)

// =============================================================================
// Test-management contract
// =============================================================================

// Project is a test-management project.
type Project struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Suite is a test suite within a project.
type Suite struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Section is a case section within a suite.
type Section struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TestManagement registers generated cases in an external test-management
// system and lists the destinations they can be filed under.
type TestManagement interface {
	ListProjects(ctx context.Context) ([]Project, error)
	ListSuites(ctx context.Context, projectID int) ([]Suite, error)
	ListSections(ctx context.Context, projectID, suiteID int) ([]Section, error)
	CreateCase(ctx context.Context, sectionID int, tc TestCase) error
}

// Destination identifies where published cases are filed.
type Destination struct {
	ProjectID int `json:"projectId"`
	SuiteID   int `json:"suiteId"`
	SectionID int `json:"sectionId"`
}

// Complete reports whether every level of the destination is selected.
func (d Destination) Complete() bool {
	return d.ProjectID != 0 && d.SuiteID != 0 && d.SectionID != 0
}

// =============================================================================
// Destination picker
// =============================================================================

// DestinationPicker walks the project, suite, section hierarchy lazily:
// each level is fetched when first needed, and selecting a parent reloads its
// children and clears stale selections below it.
type DestinationPicker struct {
	tms TestManagement

	Projects []Project
	Suites   []Suite
	Sections []Section

	dest Destination
}

// NewDestinationPicker creates a picker over the given connector.
func NewDestinationPicker(tms TestManagement) *DestinationPicker {
	return &DestinationPicker{tms: tms}
}

// NewPicker creates a destination picker over the wizard's test-management
// connector.
func (w *Wizard) NewPicker() *DestinationPicker {
	return NewDestinationPicker(w.tms)
}

// LoadProjects fetches the project list if it has not been fetched yet.
func (p *DestinationPicker) LoadProjects(ctx context.Context) ([]Project, error) {
	if p.Projects != nil {
		return p.Projects, nil
	}
	projects, err := p.tms.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	p.Projects = projects
	return p.Projects, nil
}

// SelectProject sets the project, reloads its suites, and clears any suite
// and section selection made under a previous project.
func (p *DestinationPicker) SelectProject(ctx context.Context, projectID int) error {
	suites, err := p.tms.ListSuites(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load suites: %w", err)
	}

	p.dest = Destination{ProjectID: projectID}
	p.Suites = suites
	p.Sections = nil
	return nil
}

// SelectSuite sets the suite and loads its sections. A project must be
// selected first.
func (p *DestinationPicker) SelectSuite(ctx context.Context, suiteID int) error {
	if p.dest.ProjectID == 0 {
		return ErrNoDestination
	}

	sections, err := p.tms.ListSections(ctx, p.dest.ProjectID, suiteID)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}

	p.dest.SuiteID = suiteID
	p.dest.SectionID = 0
	p.Sections = sections
	return nil
}

// SelectSection sets the section. A suite must be selected first.
func (p *DestinationPicker) SelectSection(sectionID int) error {
	if p.dest.SuiteID == 0 {
		return ErrNoDestination
	}
	p.dest.SectionID = sectionID
	return nil
}

// Destination returns the selection, or ErrNoDestination while incomplete.
func (p *DestinationPicker) Destination() (Destination, error) {
	if !p.dest.Complete() {
		return Destination{}, ErrNoDestination
	}
	return p.dest, nil
}

// =============================================================================
// Publish
// =============================================================================

// PublishReport aggregates the outcome of a publish batch.
type PublishReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Attempted returns the total number of registration attempts.
func (r PublishReport) Attempted() int { return r.Succeeded + r.Failed }

// Publish registers the selected cases at the destination. selected holds
// indexes into the session's case list; nil selects every case. Registration
// failures are per case: the loop always runs to the end and the report
// carries the success and failure counts.
func (w *Wizard) Publish(ctx context.Context, s *Session, dest Destination, selected []int) (PublishReport, error) {
	if s.CurrentStep != StepPublish {
		return PublishReport{}, ErrStepInvalid
	}
	if w.tms == nil {
		return PublishReport{}, ErrNoTestManagement
	}
	if !dest.Complete() {
		return PublishReport{}, ErrNoDestination
	}
	if err := s.Validate(RequireCases); err != nil {
		return PublishReport{}, err
	}

	if selected == nil {
		selected = make([]int, len(s.Cases))
		for i := range s.Cases {
			selected[i] = i
		}
	}
	for _, i := range selected {
		if i < 0 || i >= len(s.Cases) {
			return PublishReport{}, ErrCaseIndexInvalid
		}
	}

	var report PublishReport
	for _, i := range selected {
		tc := s.Cases[i]
		if err := w.tms.CreateCase(ctx, dest.SectionID, tc); err != nil {
			report.Failed++
			w.logger.Warn("case registration failed", "title", tc.Title, "error", err)
			continue
		}
		report.Succeeded++
	}

	w.logger.Debug("publish complete",
		"succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}
