package jira

import (
	"context"
	"fmt"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"

	chttp "github.com/yjnoh/caseforge/http"
)

// apiBase is the REST API prefix. v2 is accepted by both Cloud and
// Server/DC and returns plain-text descriptions.
const apiBase = "/rest/api/2"

// Client provides access to the Jira REST API.
type Client struct {
	http *chttp.Client
}

// NewClient creates a new Jira client.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	settings := clientSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = chttp.DefaultTimeout
	}
	httpClient := settings.httpClient
	if httpClient == nil {
		httpClient = &gohttp.Client{Timeout: timeout}
	}

	return &Client{
		http: chttp.NewClient(chttp.ClientConfig{
			Client:        httpClient,
			BaseURL:       strings.TrimSuffix(cfg.URL, "/"),
			ServiceName:   "jira",
			MaxRetries:    cfg.MaxRetries,
			ErrorKeys:     []string{"errorMessages", "message"},
			BeforeRequest: authHook(cfg),
		}),
	}, nil
}

type clientSettings struct {
	httpClient *gohttp.Client
}

// Option configures the client.
type Option func(*clientSettings)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *gohttp.Client) Option {
	return func(s *clientSettings) { s.httpClient = httpClient }
}

// authHook builds the auth header hook for the configured scheme.
func authHook(cfg *Config) func(*gohttp.Request) {
	switch cfg.Auth.Type {
	case AuthBasic:
		return chttp.BasicAuth(cfg.Auth.Username, cfg.Auth.Password)
	case AuthPAT:
		return chttp.BearerToken(cfg.Auth.Token)
	default:
		// Cloud: email:api_token as basic auth.
		return chttp.BasicAuth(cfg.Auth.Email, cfg.Auth.Token)
	}
}

// Myself fetches the authenticated user. Used as the connection liveness
// check: it fails fast on bad credentials or an unreachable host.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := c.http.Get(ctx, apiBase+"/myself", &user); err != nil {
		if chttp.IsUnauthorized(err) {
			return nil, &chttp.AuthError{Service: "jira", Reason: "credentials rejected"}
		}
		return nil, err
	}
	return &user, nil
}

// GetIssue retrieves an issue by key, fetching only the consumed fields.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	path := fmt.Sprintf("%s/issue/%s?fields=%s", apiBase, key,
		url.QueryEscape("summary,description,status,priority,issuetype"))

	var issue Issue
	if err := c.http.Get(ctx, path, &issue); err != nil {
		if chttp.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, key)
		}
		return nil, err
	}
	return &issue, nil
}

// Verify checks connectivity within the given timeout.
func (c *Client) Verify(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := c.Myself(ctx)
	return err
}
