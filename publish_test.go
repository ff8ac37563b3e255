package caseforge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTMS is an in-memory TestManagement with scriptable failures.
type fakeTMS struct {
	projects []Project
	suites   map[int][]Suite
	sections map[int][]Section

	failTitles   map[string]bool
	created      []string
	projectCalls int
	suiteCalls   int
}

func (f *fakeTMS) ListProjects(context.Context) ([]Project, error) {
	f.projectCalls++
	return f.projects, nil
}

func (f *fakeTMS) ListSuites(_ context.Context, projectID int) ([]Suite, error) {
	f.suiteCalls++
	return f.suites[projectID], nil
}

func (f *fakeTMS) ListSections(_ context.Context, _, suiteID int) ([]Section, error) {
	return f.sections[suiteID], nil
}

func (f *fakeTMS) CreateCase(_ context.Context, _ int, tc TestCase) error {
	if f.failTitles[tc.Title] {
		return errors.New("registration rejected")
	}
	f.created = append(f.created, tc.Title)
	return nil
}

func newFakeTMS() *fakeTMS {
	return &fakeTMS{
		projects: []Project{{ID: 1, Name: "Web"}, {ID: 2, Name: "Mobile"}},
		suites: map[int][]Suite{
			1: {{ID: 11, Name: "Master"}},
			2: {{ID: 21, Name: "Regression"}},
		},
		sections: map[int][]Section{
			11: {{ID: 111, Name: "Auth"}},
			21: {{ID: 211, Name: "Checkout"}},
		},
		failTitles: make(map[string]bool),
	}
}

func publishReadySession(t *testing.T, w *Wizard, titles ...string) Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, w.EnterManualItem(&s, "Login", ""))
	advanceToReview(t, w, &s, 3)

	s.Cases = nil
	for _, title := range titles {
		require.NoError(t, w.AppendCase(&s, TestCase{Title: title, Steps: []string{"step"}}))
	}
	require.NoError(t, w.ProceedToPublish(&s))
	return s
}

func TestPublishLoopContinuesPastFailures(t *testing.T) {
	tms := newFakeTMS()
	tms.failTitles["case two"] = true
	w := New(WithTestManagement(tms))

	s := publishReadySession(t, w, "case one", "case two", "case three")
	dest := Destination{ProjectID: 1, SuiteID: 11, SectionID: 111}

	report, err := w.Publish(context.Background(), &s, dest, nil)
	require.NoError(t, err, "per-case failures must not fail the batch")

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, report.Attempted())
	assert.Equal(t, []string{"case one", "case three"}, tms.created,
		"the loop must keep going after a failure")
}

func TestPublishSelectedSubset(t *testing.T) {
	tms := newFakeTMS()
	w := New(WithTestManagement(tms))

	s := publishReadySession(t, w, "a", "b", "c")
	dest := Destination{ProjectID: 1, SuiteID: 11, SectionID: 111}

	report, err := w.Publish(context.Background(), &s, dest, []int{0, 2})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, []string{"a", "c"}, tms.created)
}

func TestPublishValidation(t *testing.T) {
	tms := newFakeTMS()
	w := New(WithTestManagement(tms))
	s := publishReadySession(t, w, "a")

	_, err := w.Publish(context.Background(), &s, Destination{ProjectID: 1}, nil)
	assert.ErrorIs(t, err, ErrNoDestination)

	dest := Destination{ProjectID: 1, SuiteID: 11, SectionID: 111}
	_, err = w.Publish(context.Background(), &s, dest, []int{5})
	assert.ErrorIs(t, err, ErrCaseIndexInvalid)

	// Wrong step.
	fresh := NewSession()
	_, err = w.Publish(context.Background(), &fresh, dest, nil)
	assert.ErrorIs(t, err, ErrStepInvalid)
}

func TestDestinationPickerLazyLoading(t *testing.T) {
	tms := newFakeTMS()
	picker := NewDestinationPicker(tms)
	ctx := context.Background()

	_, err := picker.LoadProjects(ctx)
	require.NoError(t, err)
	_, err = picker.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, tms.projectCalls, "projects are fetched once")

	require.NoError(t, picker.SelectProject(ctx, 1))
	assert.Equal(t, []Suite{{ID: 11, Name: "Master"}}, picker.Suites)

	require.NoError(t, picker.SelectSuite(ctx, 11))
	assert.Equal(t, []Section{{ID: 111, Name: "Auth"}}, picker.Sections)
	require.NoError(t, picker.SelectSection(111))

	dest, err := picker.Destination()
	require.NoError(t, err)
	assert.Equal(t, Destination{ProjectID: 1, SuiteID: 11, SectionID: 111}, dest)
}

func TestDestinationPickerReselectionInvalidates(t *testing.T) {
	tms := newFakeTMS()
	picker := NewDestinationPicker(tms)
	ctx := context.Background()

	require.NoError(t, picker.SelectProject(ctx, 1))
	require.NoError(t, picker.SelectSuite(ctx, 11))
	require.NoError(t, picker.SelectSection(111))

	// Picking a different project drops the stale suite and section.
	require.NoError(t, picker.SelectProject(ctx, 2))
	assert.Equal(t, []Suite{{ID: 21, Name: "Regression"}}, picker.Suites)
	assert.Nil(t, picker.Sections)

	_, err := picker.Destination()
	assert.ErrorIs(t, err, ErrNoDestination)
}

func TestDestinationPickerOrderEnforced(t *testing.T) {
	picker := NewDestinationPicker(newFakeTMS())
	ctx := context.Background()

	assert.ErrorIs(t, picker.SelectSuite(ctx, 11), ErrNoDestination)
	assert.ErrorIs(t, picker.SelectSection(111), ErrNoDestination)
}
