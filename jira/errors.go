package jira

import "errors"

// Configuration errors.
var (
	ErrConfigURLRequired     = errors.New("jira url is required")
	ErrConfigAuthTypeInvalid = errors.New("jira auth type must be api_token, basic, or pat")
	ErrConfigAPITokenAuth    = errors.New("api_token auth requires email and token")
	ErrConfigBasicAuth       = errors.New("basic auth requires username and password")
	ErrConfigPATAuth         = errors.New("pat auth requires token")
)

// Issue errors.
var (
	ErrIssueNotFound   = errors.New("jira issue not found")
	ErrIssueKeyInvalid = errors.New("invalid issue key format")
)
