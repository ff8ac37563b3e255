// Package jira provides a minimal Jira REST client: credential verification
// and issue retrieval, which is all the generation workflow consumes.
//
// Cloud (email + API token), Server basic auth, and personal access tokens
// are supported. Issue descriptions may arrive as plain text (API v2) or as
// an ADF document (API v3); DescriptionText flattens either to plain text.
package jira
