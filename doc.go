// Package caseforge turns work-item descriptions into structured test cases.
//
// The package is organized around a step-wise wizard: a work item is pulled
// from an issue tracker (or a design tool, or entered by hand), its
// description is confirmed and optionally edited, a requested case count is
// chosen, test cases are generated (by an AI provider when one is connected,
// by a deterministic template catalog otherwise), reviewed and edited, and
// finally published to a test-management system.
//
// Subpackages by domain:
//
//   - jira: Jira REST connector (issue lookup, connection check)
//   - figma: Figma connector (share-URL parsing, node text extraction)
//   - llm: AI completion client (OpenAI-compatible HTTP API)
//   - testrail: test-management connector (projects, suites, sections, cases)
//   - config: persisted settings (JSON or YAML, whole-file save)
//   - prompt: prompt template loading
//   - http: HTTP client utilities shared by the connectors
//   - testutil: test utilities and fixtures
//
// # Quick Start
//
//	w := caseforge.New(caseforge.WithTracker(tracker))
//
//	s := caseforge.NewSession()
//	_ = w.LookupWorkItem(ctx, &s, "PROJ-123")
//	_ = w.ConfirmDescription(&s, s.Item.Description)
//	_ = w.Configure(&s, 5)
//	_ = w.Generate(ctx, &s)
//
//	fmt.Println(caseforge.RenderReport(&s))
//
// See individual package documentation for connector usage.
package caseforge
