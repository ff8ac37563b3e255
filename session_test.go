package caseforge

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession()

	if s.CurrentStep != StepInput {
		t.Errorf("CurrentStep = %v, want %v", s.CurrentStep, StepInput)
	}
	if s.RequestedCount != 5 {
		t.Errorf("RequestedCount = %d, want 5", s.RequestedCount)
	}
	if !strings.HasPrefix(s.RunID, "run-") {
		t.Errorf("RunID = %q, want run- prefix", s.RunID)
	}
	if s.Generated || s.Mode != ModeNone || s.Item != nil {
		t.Error("new session should carry no generation state")
	}
}

func TestNewSessionUniqueRunIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewSession().RunID
		if seen[id] {
			t.Fatalf("duplicate run id %q", id)
		}
		seen[id] = true
	}
}

func TestEffectiveDescription(t *testing.T) {
	item := &WorkItem{Key: "K-1", Description: "original"}

	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"original when unedited", Session{Item: item}, "original"},
		{"edited wins", Session{Item: item, EditedDescription: "edited", DescriptionEdited: true}, "edited"},
		{"empty edit is representable", Session{Item: item, DescriptionEdited: true}, ""},
		{"no item", Session{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.EffectiveDescription(); got != tt.want {
				t.Errorf("EffectiveDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionValidate(t *testing.T) {
	item := &WorkItem{Key: "K-1"}

	tests := []struct {
		name         string
		session      Session
		requirements []Requirement
		wantErr      bool
	}{
		{"item present", Session{Item: item}, []Requirement{RequireItem}, false},
		{"item missing", Session{}, []Requirement{RequireItem}, true},
		{"count in range", Session{RequestedCount: 5}, []Requirement{RequireCount}, false},
		{"count too low", Session{RequestedCount: 0}, []Requirement{RequireCount}, true},
		{"count too high", Session{RequestedCount: 11}, []Requirement{RequireCount}, true},
		{"cases present", Session{Cases: []TestCase{{}}}, []Requirement{RequireCases}, false},
		{"cases missing", Session{}, []Requirement{RequireCases}, true},
		{"generated", Session{Generated: true}, []Requirement{RequireGenerated}, false},
		{"not generated", Session{}, []Requirement{RequireGenerated}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate(tt.requirements...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionValidateCountSentinel(t *testing.T) {
	s := Session{RequestedCount: 99}
	if err := s.Validate(RequireCount); !errors.Is(err, ErrCountOutOfRange) {
		t.Errorf("error = %v, want ErrCountOutOfRange", err)
	}
}

func TestStepString(t *testing.T) {
	steps := map[Step]string{
		StepInput:     "input",
		StepConfirm:   "confirm",
		StepConfigure: "configure",
		StepGenerate:  "generate",
		StepReview:    "review",
		StepPublish:   "publish",
		Step(42):      "step(42)",
	}
	for step, want := range steps {
		if got := step.String(); got != want {
			t.Errorf("Step(%d).String() = %q, want %q", int(step), got, want)
		}
	}
}
