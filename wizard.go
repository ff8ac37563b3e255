package caseforge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yjnoh/caseforge/llm"
	"github.com/yjnoh/caseforge/prompt"
)

// Wizard drives the generation workflow: look up a work item, confirm its
// description, configure the case count, generate, review, and optionally
// publish. Connectors are optional; a step that needs a missing connector
// fails with a sentinel error instead of advancing.
type Wizard struct {
	tracker Tracker
	design  DesignSource
	ai      llm.Client
	tms     TestManagement
	prompts *prompt.Loader
	logger  *slog.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithTracker sets the issue-tracker connector.
func WithTracker(t Tracker) Option {
	return func(w *Wizard) { w.tracker = t }
}

// WithDesignSource sets the design-tool connector.
func WithDesignSource(d DesignSource) Option {
	return func(w *Wizard) { w.design = d }
}

// WithAI sets the AI connector. Without one, generation always uses the
// template catalog.
func WithAI(c llm.Client) Option {
	return func(w *Wizard) { w.ai = c }
}

// WithTestManagement sets the test-management connector used by Publish.
func WithTestManagement(t TestManagement) Option {
	return func(w *Wizard) { w.tms = t }
}

// WithPromptLoader overrides the default prompt loader.
func WithPromptLoader(l *prompt.Loader) Option {
	return func(w *Wizard) { w.prompts = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// New creates a Wizard.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		prompts: prompt.NewLoader(""),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// HasAI reports whether an AI connector is configured.
func (w *Wizard) HasAI() bool { return w.ai != nil }

// HasTracker reports whether an issue-tracker connector is configured.
func (w *Wizard) HasTracker() bool { return w.tracker != nil }

// HasDesignSource reports whether a design-tool connector is configured.
func (w *Wizard) HasDesignSource() bool { return w.design != nil }

// HasTestManagement reports whether a test-management connector is configured.
func (w *Wizard) HasTestManagement() bool { return w.tms != nil }

// =============================================================================
// Input step
// =============================================================================

// LookupWorkItem fetches a work item by key from the tracker and advances to
// the Confirm step. A lookup failure leaves the session unchanged.
func (w *Wizard) LookupWorkItem(ctx context.Context, s *Session, key string) error {
	if s.CurrentStep != StepInput {
		return ErrStepInvalid
	}
	if w.tracker == nil {
		return ErrNoTracker
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrKeyRequired
	}

	item, err := w.tracker.FetchByKey(ctx, key)
	if err != nil {
		return err
	}

	w.setItem(s, item)
	w.logger.Debug("work item loaded", "key", item.Key, "source", item.Source)
	return nil
}

// ImportDesignNode fetches a work item from a design-tool share URL and
// advances to the Confirm step.
func (w *Wizard) ImportDesignNode(ctx context.Context, s *Session, shareURL string) error {
	if s.CurrentStep != StepInput {
		return ErrStepInvalid
	}
	if w.design == nil {
		return ErrNoDesignSource
	}
	shareURL = strings.TrimSpace(shareURL)
	if shareURL == "" {
		return ErrKeyRequired
	}

	item, err := w.design.FetchByURL(ctx, shareURL)
	if err != nil {
		return err
	}

	w.setItem(s, item)
	w.logger.Debug("design node imported", "key", item.Key)
	return nil
}

// EnterManualItem builds a work item from hand-entered title and description
// and advances to the Confirm step.
func (w *Wizard) EnterManualItem(s *Session, title, description string) error {
	if s.CurrentStep != StepInput {
		return ErrStepInvalid
	}
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}

	w.setItem(s, NewManualWorkItem(title, description))
	return nil
}

// setItem installs a new work item, discarding any prior edits and generated
// cases. A new item always restarts the downstream pipeline.
func (w *Wizard) setItem(s *Session, item *WorkItem) {
	s.Item = item
	s.EditedDescription = ""
	s.DescriptionEdited = false
	s.FocusAreas = nil
	s.ExtraContext = ""
	invalidate(s)
	s.CurrentStep = StepConfirm
}

// invalidate discards generation state after an upstream change.
func invalidate(s *Session) {
	s.Baseline = nil
	s.Cases = nil
	s.Generated = false
	s.Mode = ModeNone
}

// =============================================================================
// Confirm step
// =============================================================================

// ConfirmDescription commits the description the generation will use and
// advances to the Configure step. Changing the effective description discards
// previously generated cases; acceptance criteria stay as derived at fetch
// time. Confirming an unchanged description keeps everything.
func (w *Wizard) ConfirmDescription(s *Session, description string) error {
	if s.CurrentStep != StepConfirm {
		return ErrStepInvalid
	}
	if err := s.Validate(RequireItem); err != nil {
		return err
	}

	previous := s.EffectiveDescription()

	if description == s.Item.Description {
		s.EditedDescription = ""
		s.DescriptionEdited = false
	} else {
		s.EditedDescription = description
		s.DescriptionEdited = true
	}

	if s.EffectiveDescription() != previous {
		invalidate(s)
	}

	s.CurrentStep = StepConfigure
	return nil
}

// =============================================================================
// Configure step
// =============================================================================

// Configure sets the requested case count and advances to the Generate step.
// A count change alone does not discard existing cases; entering Generate
// regenerates regardless.
func (w *Wizard) Configure(s *Session, count int) error {
	if s.CurrentStep != StepConfigure {
		return ErrStepInvalid
	}
	if count < MinCaseCount || count > MaxCaseCount {
		return ErrCountOutOfRange
	}

	s.RequestedCount = count
	s.CurrentStep = StepGenerate
	return nil
}

// SetGenerationHints records optional focus areas and extra context for the
// next generation. Each hint yields an extra case on top of the requested
// count, so hints never eat into the base catalog. Hints survive Back and
// regeneration; loading a new work item clears them.
func (w *Wizard) SetGenerationHints(s *Session, focusAreas []string, extraContext string) error {
	if s.CurrentStep != StepConfigure {
		return ErrStepInvalid
	}

	areas := make([]string, 0, len(focusAreas))
	for _, area := range focusAreas {
		area = strings.ToLower(strings.TrimSpace(area))
		if area == "" {
			continue
		}
		if !isKnownFocusArea(area) {
			return fmt.Errorf("%w: %q", ErrFocusAreaUnknown, area)
		}
		areas = append(areas, area)
	}
	if len(areas) == 0 {
		areas = nil
	}

	s.FocusAreas = areas
	s.ExtraContext = strings.TrimSpace(extraContext)
	return nil
}

// =============================================================================
// Generate step
// =============================================================================

// Generate produces the session's test cases and advances to the Review step.
// Every call regenerates from scratch, replacing both the baseline and the
// editable copy. With an AI connector, the AI runs first and any failure
// silently degrades to the template catalog. Generation hints yield extra
// cases beyond the requested count: via prompt instructions in AI mode, via
// appended templates in fallback mode.
func (w *Wizard) Generate(ctx context.Context, s *Session) error {
	if s.CurrentStep != StepGenerate {
		return ErrStepInvalid
	}
	if err := s.Validate(RequireItem, RequireCount); err != nil {
		return err
	}

	mode := ModeFallback
	var cases []TestCase

	if w.ai != nil {
		aiCases, err := w.generateWithAI(ctx, s)
		if err != nil {
			w.logger.Warn("ai generation failed, using templates",
				"key", s.Item.Key, "error", err)
		} else {
			cases = aiCases
			mode = ModeAI
		}
	}

	if cases == nil {
		cases = FallbackCases(s.Item, s.RequestedCount)
		cases = append(cases, EnrichmentCases(s.Item, s.FocusAreas, s.ExtraContext)...)
	}

	s.Baseline = cases
	s.Cases = cloneCases(cases)
	s.Generated = true
	s.Mode = mode
	s.CurrentStep = StepReview

	w.logger.Debug("generation complete", "key", s.Item.Key, "mode", mode, "cases", len(cases))
	return nil
}

// =============================================================================
// Review step
// =============================================================================

// UpdateCase replaces the case at index i with the edited version. Steps are
// re-normalized so pasted rank markers do not accumulate.
func (w *Wizard) UpdateCase(s *Session, i int, tc TestCase) error {
	if s.CurrentStep != StepReview {
		return ErrStepInvalid
	}
	if i < 0 || i >= len(s.Cases) {
		return ErrCaseIndexInvalid
	}

	s.Cases[i] = tc.Normalize()
	return nil
}

// DeleteCase removes the case at index i.
func (w *Wizard) DeleteCase(s *Session, i int) error {
	if s.CurrentStep != StepReview {
		return ErrStepInvalid
	}
	if i < 0 || i >= len(s.Cases) {
		return ErrCaseIndexInvalid
	}

	s.Cases = append(s.Cases[:i], s.Cases[i+1:]...)
	return nil
}

// AppendCase adds a hand-authored case to the end of the list.
func (w *Wizard) AppendCase(s *Session, tc TestCase) error {
	if s.CurrentStep != StepReview {
		return ErrStepInvalid
	}

	s.Cases = append(s.Cases, tc.Normalize())
	return nil
}

// ProceedToPublish advances to the Publish step. Requires a test-management
// connector and at least one case.
func (w *Wizard) ProceedToPublish(s *Session) error {
	if s.CurrentStep != StepReview {
		return ErrStepInvalid
	}
	if w.tms == nil {
		return ErrNoTestManagement
	}
	if err := s.Validate(RequireGenerated, RequireCases); err != nil {
		return err
	}

	s.CurrentStep = StepPublish
	return nil
}

// =============================================================================
// Navigation
// =============================================================================

// Back moves one step backward. Going back never discards data; only forward
// actions (new item, changed description, regeneration) do.
func (w *Wizard) Back(s *Session) error {
	if s.CurrentStep <= StepInput {
		return ErrStepInvalid
	}
	s.CurrentStep--
	return nil
}

// Restart abandons the session and starts a fresh one in place.
func (w *Wizard) Restart(s *Session) {
	*s = NewSession()
}
