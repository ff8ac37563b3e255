package caseforge

import (
	"reflect"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "dot markers",
			text: "1. open page\n2. click button\n3. observe result",
			want: []string{"open page", "click button", "observe result"},
		},
		{
			name: "paren markers",
			text: "1) open page\n2) click button",
			want: []string{"open page", "click button"},
		},
		{
			name: "unnumbered lines",
			text: "open page\nclick button",
			want: []string{"open page", "click button"},
		},
		{
			name: "skips empty lines",
			text: "1. first\n\n\n2. second\n",
			want: []string{"first", "second"},
		},
		{
			name: "order comes from position not numbers",
			text: "9. first in list\n1. second in list",
			want: []string{"first in list", "second in list"},
		},
		{
			name: "leading whitespace before marker",
			text: "  3.   indented step  ",
			want: []string{"indented step"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSteps(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSteps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatSteps(t *testing.T) {
	got := FormatSteps([]string{"open page", "click button"})
	want := []string{"1. open page", "2. click button"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatSteps() = %v, want %v", got, want)
	}
}

func TestStepRenumberingIdempotent(t *testing.T) {
	steps := []string{"open page", "click button", "observe"}

	// Format, parse, format again: the second pass must equal the first.
	once := FormatSteps(steps)
	reparsed := ParseSteps(StepsText(steps))
	twice := FormatSteps(reparsed)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("renumbering not idempotent: %v vs %v", once, twice)
	}
}

func TestNormalizeStripsEmbeddedMarkers(t *testing.T) {
	tc := TestCase{
		Title: "t",
		Steps: []string{"1. already numbered", "2) also numbered", "plain"},
	}

	got := tc.Normalize()
	want := []string{"already numbered", "also numbered", "plain"}
	if !reflect.DeepEqual(got.Steps, want) {
		t.Errorf("Normalize() steps = %v, want %v", got.Steps, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := TestCase{Title: "t", Steps: []string{"a", "b"}}
	clone := original.Clone()

	clone.Steps[0] = "changed"
	if original.Steps[0] != "a" {
		t.Error("Clone shares the steps slice with the original")
	}
}

func TestCloneCases(t *testing.T) {
	cases := []TestCase{{Title: "one", Steps: []string{"s"}}}
	copied := cloneCases(cases)

	copied[0].Steps[0] = "mutated"
	if cases[0].Steps[0] != "s" {
		t.Error("cloneCases shares step slices with the source")
	}

	if cloneCases(nil) != nil {
		t.Error("cloneCases(nil) should be nil")
	}
}
