package caseforge

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// =============================================================================
// Wizard Steps
// =============================================================================

// Step identifies the wizard screen the session is on. Steps are strictly
// ordered; Publish is terminal and only reachable when a test-management
// connector is active.
type Step int

// Wizard steps in order.
const (
	StepInput Step = iota + 1
	StepConfirm
	StepConfigure
	StepGenerate
	StepReview
	StepPublish
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepConfirm:
		return "confirm"
	case StepConfigure:
		return "configure"
	case StepGenerate:
		return "generate"
	case StepReview:
		return "review"
	case StepPublish:
		return "publish"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Requested case count bounds.
const (
	MinCaseCount = 1
	MaxCaseCount = 10
)

// GenerationMode records how the current baseline was produced.
type GenerationMode string

// Generation modes.
const (
	ModeNone     GenerationMode = ""
	ModeAI       GenerationMode = "ai"
	ModeFallback GenerationMode = "fallback"
)

// =============================================================================
// Session
// =============================================================================

// Session is the ephemeral per-run wizard state. Transition handlers on
// Wizard mutate it in place; nothing is persisted between runs.
type Session struct {
	// Identification
	RunID string `json:"runId"`

	// Position
	CurrentStep Step `json:"currentStep"`

	// Working data
	Item              *WorkItem `json:"item,omitempty"`
	EditedDescription string    `json:"editedDescription,omitempty"`
	DescriptionEdited bool      `json:"descriptionEdited,omitempty"`
	RequestedCount    int       `json:"requestedCount"`

	// Optional generation hints collected at the Configure step. Focus areas
	// and extra context each add cases on top of the requested count.
	FocusAreas   []string `json:"focusAreas,omitempty"`
	ExtraContext string   `json:"extraContext,omitempty"`

	// Baseline is the last generation result; Cases is the editable copy the
	// review step works on. Review edits never touch Baseline, so a
	// regeneration can always start from a clean slate.
	Baseline []TestCase `json:"baseline,omitempty"`
	Cases    []TestCase `json:"cases,omitempty"`

	// Generated is set once per entry into the Generate step and cleared by
	// any invalidating change (new work item, edited description, restart).
	Generated bool           `json:"generated,omitempty"`
	Mode      GenerationMode `json:"mode,omitempty"`
}

// NewSession creates a blank session positioned at the Input step.
func NewSession() Session {
	return Session{
		RunID:          generateRunID(),
		CurrentStep:    StepInput,
		RequestedCount: 5,
	}
}

// generateRunID creates a unique session run ID.
func generateRunID() string {
	id, err := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 10)
	if err != nil {
		// Entropy failure is not worth failing session creation over.
		return "session"
	}
	return "run-" + id
}

// EffectiveDescription returns the edited description when one was committed,
// otherwise the work item's original description.
func (s Session) EffectiveDescription() string {
	if s.DescriptionEdited {
		return s.EditedDescription
	}
	if s.Item != nil {
		return s.Item.Description
	}
	return ""
}

// =============================================================================
// Session Validation
// =============================================================================

// Requirement defines a session prerequisite for a transition.
type Requirement string

// Session requirements.
const (
	RequireItem      Requirement = "item"
	RequireCount     Requirement = "count"
	RequireCases     Requirement = "cases"
	RequireGenerated Requirement = "generated"
)

// Validate checks that the session has the required fields.
func (s Session) Validate(requirements ...Requirement) error {
	for _, req := range requirements {
		switch req {
		case RequireItem:
			if s.Item == nil {
				return fmt.Errorf("work item required")
			}
		case RequireCount:
			if s.RequestedCount < MinCaseCount || s.RequestedCount > MaxCaseCount {
				return ErrCountOutOfRange
			}
		case RequireCases:
			if len(s.Cases) == 0 {
				return fmt.Errorf("test cases required")
			}
		case RequireGenerated:
			if !s.Generated {
				return fmt.Errorf("generation has not run")
			}
		default:
			return fmt.Errorf("unknown requirement: %s", req)
		}
	}
	return nil
}

// Summary returns a human-readable session summary.
func (s Session) Summary() string {
	key := "-"
	if s.Item != nil {
		key = s.Item.Key
	}
	return fmt.Sprintf("Session %s [%s]: item %s, %d case(s), mode %s",
		s.RunID, s.CurrentStep, key, len(s.Cases), s.Mode)
}
