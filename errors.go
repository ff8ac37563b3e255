package caseforge

import "errors"

// Wizard transition errors
var (
	// ErrStepInvalid indicates the action is not valid in the current step.
	ErrStepInvalid = errors.New("action not valid in current step")

	// ErrKeyRequired indicates a work-item key was not supplied.
	ErrKeyRequired = errors.New("work-item key is required")

	// ErrTitleRequired indicates a manual work item was entered without a title.
	ErrTitleRequired = errors.New("work-item title is required")

	// ErrCountOutOfRange indicates the requested case count is outside 1..10.
	ErrCountOutOfRange = errors.New("requested case count out of range")

	// ErrCaseIndexInvalid indicates a review edit referenced a missing case.
	ErrCaseIndexInvalid = errors.New("test case index out of range")

	// ErrFocusAreaUnknown indicates a generation hint named a focus area
	// outside KnownFocusAreas.
	ErrFocusAreaUnknown = errors.New("unknown focus area")
)

// Connector availability errors
var (
	// ErrNoTracker indicates no issue-tracker connector is configured.
	ErrNoTracker = errors.New("no issue-tracker connector configured")

	// ErrNoDesignSource indicates no design-tool connector is configured.
	ErrNoDesignSource = errors.New("no design-tool connector configured")

	// ErrNoTestManagement indicates no test-management connector is configured.
	ErrNoTestManagement = errors.New("no test-management connector configured")

	// ErrNoDestination indicates the publish destination is incomplete.
	ErrNoDestination = errors.New("publish destination not selected")

	// ErrGenerationFailed indicates the AI provider returned no usable result.
	ErrGenerationFailed = errors.New("ai generation failed")
)
