package caseforge

import (
	"fmt"
	"strings"
)

// FallbackCases builds up to count test cases from the fixed template catalog.
// It is used whenever no AI connector is active or the AI call produced no
// usable result. The catalog order is fixed: normal path, invalid input,
// authorization, an optional issue-type template, performance. Only the titles
// vary with the work item.
func FallbackCases(item *WorkItem, count int) []TestCase {
	catalog := fallbackCatalog(item)
	if count > len(catalog) {
		count = len(catalog)
	}
	if count < 0 {
		count = 0
	}
	return cloneCases(catalog[:count])
}

func fallbackCatalog(item *WorkItem) []TestCase {
	label := fallbackLabel(item)

	catalog := []TestCase{
		{
			Title:        fmt.Sprintf("%s - verify normal path", label),
			Precondition: "System is running and the user is signed in with a valid account.",
			Steps: []string{
				"Open the feature under test.",
				"Perform the primary action with valid input.",
				"Observe the result.",
			},
			Expectation: "The action completes successfully and the result matches the described behavior.",
		},
		{
			Title:        fmt.Sprintf("%s - verify invalid input handling", label),
			Precondition: "System is running and the feature under test is reachable.",
			Steps: []string{
				"Open the feature under test.",
				"Submit empty, malformed, and boundary-value inputs.",
				"Observe the validation response for each input.",
			},
			Expectation: "Each invalid input is rejected with a clear message and no partial state is saved.",
		},
		{
			Title:        fmt.Sprintf("%s - verify authorization", label),
			Precondition: "Two accounts exist: one with access to the feature and one without.",
			Steps: []string{
				"Sign in with the account that lacks access.",
				"Attempt to reach the feature directly.",
				"Attempt the primary action through the API if one is exposed.",
			},
			Expectation: "Access is denied at every entry point and no data is disclosed or modified.",
		},
	}

	switch {
	case item != nil && item.IsBugType():
		catalog = append(catalog, TestCase{
			Title:        fmt.Sprintf("%s - verify the reported defect is fixed", label),
			Precondition: "The environment reproduces the conditions described in the report.",
			Steps: []string{
				"Follow the reproduction steps from the report exactly.",
				"Observe the behavior at the previously failing point.",
				"Repeat with minor variations of the reproduction steps.",
			},
			Expectation: "The defect no longer reproduces and nearby behavior is unchanged.",
		})
	case item != nil && item.IsStoryType():
		catalog = append(catalog, TestCase{
			Title:        fmt.Sprintf("%s - verify the user scenario end to end", label),
			Precondition: "Test data for a realistic user journey is prepared.",
			Steps: []string{
				"Walk through the full user scenario from entry to completion.",
				"Verify every intermediate screen and state along the way.",
				"Complete the scenario and check the final outcome.",
			},
			Expectation: "The whole journey succeeds and each acceptance point is met.",
		})
	}

	catalog = append(catalog, TestCase{
		Title:        fmt.Sprintf("%s - verify response time under load", label),
		Precondition: "A measurement tool is attached and baseline timings are recorded.",
		Steps: []string{
			"Perform the primary action once and record the response time.",
			"Repeat the action with a representative concurrent load.",
			"Compare timings against the recorded baseline.",
		},
		Expectation: "Response time stays within the agreed limit and does not degrade under load.",
	})

	return catalog
}

// knownFocusAreas lists the selectable focus areas in their fixed order.
var knownFocusAreas = []string{
	"security",
	"performance",
	"usability",
	"compatibility",
	"accessibility",
	"data integrity",
	"error handling",
	"integration",
}

// KnownFocusAreas returns the focus areas a generation hint may name.
func KnownFocusAreas() []string {
	return append([]string(nil), knownFocusAreas...)
}

func isKnownFocusArea(area string) bool {
	for _, known := range knownFocusAreas {
		if area == known {
			return true
		}
	}
	return false
}

// EnrichmentCases builds the extra cases a session's generation hints ask
// for, plus an acceptance-criteria check when the item carries criteria.
// These are additive: the requested count caps only the base catalog, each
// hint was asked for explicitly. Unknown focus areas are skipped; the hint
// setter validates them.
func EnrichmentCases(item *WorkItem, focusAreas []string, extraContext string) []TestCase {
	label := fallbackLabel(item)
	var cases []TestCase

	if item != nil && item.AcceptanceCriteria != "" {
		cases = append(cases, TestCase{
			Title:        fmt.Sprintf("%s - verify the acceptance criteria are met", label),
			Precondition: "The acceptance criteria from the work item are at hand:\n" + item.AcceptanceCriteria,
			Steps: []string{
				"Walk through each acceptance criterion in order.",
				"Exercise the behavior the criterion describes.",
				"Record pass or fail per criterion.",
			},
			Expectation: "Every acceptance criterion is met.",
		})
	}

	for _, area := range focusAreas {
		if tc, ok := focusAreaCase(label, area); ok {
			cases = append(cases, tc)
		}
	}

	if context := strings.TrimSpace(extraContext); context != "" {
		cases = append(cases, TestCase{
			Title:        fmt.Sprintf("%s - verify behavior under the described conditions", label),
			Precondition: "The environment matches the stated conditions:\n" + context,
			Steps: []string{
				"Reproduce the conditions described above.",
				"Perform the primary action under those conditions.",
				"Observe the result and any degradation.",
			},
			Expectation: "The feature behaves correctly under the described conditions.",
		})
	}

	return cases
}

// focusAreaCase returns the template for one focus area.
func focusAreaCase(label, area string) (TestCase, bool) {
	switch area {
	case "security":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify authentication and data protection", label),
			Precondition: "Accounts with and without access exist; traffic can be inspected.",
			Steps: []string{
				"Attempt the primary action without authenticating.",
				"Authenticate and inspect what data the responses carry.",
				"Check that sensitive fields are protected in transit and at rest.",
			},
			Expectation: "Unauthenticated access is refused and no sensitive data leaks.",
		}, true
	case "performance":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify throughput under sustained load", label),
			Precondition: "A load tool is configured with a realistic request mix.",
			Steps: []string{
				"Run the primary action at baseline load and record timings.",
				"Ramp the load to the expected peak and hold it.",
				"Compare timings and error rates against the baseline.",
			},
			Expectation: "Latency and error rates stay within agreed limits at peak load.",
		}, true
	case "usability":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify the interaction flow is usable", label),
			Precondition: "A user unfamiliar with the feature is available.",
			Steps: []string{
				"Ask the user to complete the primary task without guidance.",
				"Note every hesitation, wrong turn, and error message shown.",
				"Ask the user to describe what the feature did.",
			},
			Expectation: "The task completes without guidance and the outcome is understood.",
		}, true
	case "compatibility":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify behavior across browsers and devices", label),
			Precondition: "The supported browser and device matrix is listed.",
			Steps: []string{
				"Perform the primary action on each supported browser.",
				"Repeat on the smallest and largest supported screen sizes.",
				"Compare layout and behavior against the reference environment.",
			},
			Expectation: "Behavior and layout are consistent across the supported matrix.",
		}, true
	case "accessibility":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify accessibility of the interface", label),
			Precondition: "A screen reader and keyboard-only setup are available.",
			Steps: []string{
				"Complete the primary task using only the keyboard.",
				"Repeat the task with a screen reader active.",
				"Check contrast and focus indicators on every interactive element.",
			},
			Expectation: "The task is completable without a pointer and announced correctly.",
		}, true
	case "data integrity":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify data stays consistent", label),
			Precondition: "Direct read access to the stored data is available.",
			Steps: []string{
				"Perform the primary action and inspect the stored result.",
				"Interrupt the action midway and inspect the stored state.",
				"Repeat the action and check for duplicates or drift.",
			},
			Expectation: "Stored data matches the inputs and interrupted runs leave no partial state.",
		}, true
	case "error handling":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify failures are reported clearly", label),
			Precondition: "Dependencies of the feature can be made to fail on demand.",
			Steps: []string{
				"Trigger each dependency failure while performing the action.",
				"Read the message shown for each failure.",
				"Retry after restoring the dependency.",
			},
			Expectation: "Each failure yields a clear message and a retry succeeds cleanly.",
		}, true
	case "integration":
		return TestCase{
			Title:        fmt.Sprintf("%s - verify integration with connected systems", label),
			Precondition: "The connected systems are reachable in the test environment.",
			Steps: []string{
				"Perform the primary action and trace the calls it makes outward.",
				"Verify the data received by each connected system.",
				"Verify the data flowing back is applied correctly.",
			},
			Expectation: "Data crosses every system boundary intact in both directions.",
		}, true
	default:
		return TestCase{}, false
	}
}

// fallbackLabel names the work item in template titles.
func fallbackLabel(item *WorkItem) string {
	if item == nil {
		return "Work item"
	}
	switch {
	case item.Key != "" && item.Summary != "":
		return fmt.Sprintf("[%s] %s", item.Key, item.Summary)
	case item.Key != "":
		return fmt.Sprintf("[%s]", item.Key)
	case item.Summary != "":
		return item.Summary
	default:
		return "Work item"
	}
}
