// Package testrail provides a minimal TestRail REST client: destination
// listing (projects, suites, sections) and case creation.
//
// TestRail installations disagree on list response shapes: older servers
// return a bare JSON array, newer ones wrap it in a pagination object, and
// some proxies collapse single-element lists to one object. All three shapes
// decode to the same slice here; malformed entries are skipped with a
// warning rather than failing the listing.
package testrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gohttp "net/http"
	"strings"
	"time"

	chttp "github.com/yjnoh/caseforge/http"
)

var (
	// ErrConfigIncomplete indicates url, username, or api key is missing.
	ErrConfigIncomplete = errors.New("testrail url, username, and api key are required")
)

// apiBase is the REST API prefix TestRail serves under index.php.
const apiBase = "/index.php?/api/v2"

// Project is a TestRail project.
type Project struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Suite is a test suite within a project.
type Suite struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Section is a case section within a suite.
type Section struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CaseRequest is the payload of add_case.
type CaseRequest struct {
	Title          string `json:"title"`
	TemplateID     int    `json:"template_id,omitempty"`
	CustomPreconds string `json:"custom_preconds,omitempty"`
	CustomSteps    string `json:"custom_steps,omitempty"`
	CustomExpected string `json:"custom_expected,omitempty"`
}

// Case is the created case returned by add_case.
type Case struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Client provides access to the TestRail REST API.
type Client struct {
	http *chttp.Client
}

// Config holds TestRail connection settings.
type Config struct {
	URL      string
	Username string
	APIKey   string
	Timeout  time.Duration
}

// NewClient creates a TestRail client with basic auth (username + API key).
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.URL == "" || cfg.Username == "" || cfg.APIKey == "" {
		return nil, ErrConfigIncomplete
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
			ServiceName:   "testrail",
			ErrorKeys:     []string{"error"},
			BeforeRequest: chttp.BasicAuth(cfg.Username, cfg.APIKey),
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

// Verify checks credentials by listing projects within the given timeout.
func (c *Client) Verify(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := c.GetProjects(ctx); err != nil {
		if chttp.IsUnauthorized(err) {
			return &chttp.AuthError{Service: "testrail", Reason: "credentials rejected"}
		}
		return err
	}
	return nil
}

// GetProjects lists all projects.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	raw, err := c.http.GetRaw(ctx, apiBase+"/get_projects")
	if err != nil {
		return nil, err
	}
	return decodeList[Project](raw, "projects")
}

// GetSuites lists the suites of a project.
func (c *Client) GetSuites(ctx context.Context, projectID int) ([]Suite, error) {
	raw, err := c.http.GetRaw(ctx, fmt.Sprintf("%s/get_suites/%d", apiBase, projectID))
	if err != nil {
		return nil, err
	}
	return decodeList[Suite](raw, "suites")
}

// GetSections lists the sections of a suite.
func (c *Client) GetSections(ctx context.Context, projectID, suiteID int) ([]Section, error) {
	raw, err := c.http.GetRaw(ctx,
		fmt.Sprintf("%s/get_sections/%d&suite_id=%d", apiBase, projectID, suiteID))
	if err != nil {
		return nil, err
	}
	return decodeList[Section](raw, "sections")
}

// AddCase creates a case in the given section.
func (c *Client) AddCase(ctx context.Context, sectionID int, req CaseRequest) (*Case, error) {
	var created Case
	path := fmt.Sprintf("%s/add_case/%d", apiBase, sectionID)
	if err := c.http.Post(ctx, path, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// listEntry is the common identity every listed record must carry; entries
// without it are dropped.
type listEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// decodeList normalizes the three observed list shapes into []T. wrapperKey
// is the pagination wrapper's field name ("projects", "suites", "sections").
func decodeList[T any](raw []byte, wrapperKey string) ([]T, error) {
	items, err := rawItems(raw, wrapperKey)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var entry listEntry
		if err := json.Unmarshal(item, &entry); err != nil || entry.ID == 0 || entry.Name == "" {
			slog.Warn("skipping malformed testrail entry", "list", wrapperKey, "index", i)
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			slog.Warn("skipping malformed testrail entry", "list", wrapperKey, "index", i)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// rawItems splits the response into raw records for each observed shape.
func rawItems(raw []byte, wrapperKey string) ([]json.RawMessage, error) {
	// Bare array.
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode testrail %s response: %w", wrapperKey, err)
	}

	// Pagination wrapper.
	if wrapped, ok := obj[wrapperKey]; ok {
		if err := json.Unmarshal(wrapped, &items); err != nil {
			return nil, fmt.Errorf("decode testrail %s list: %w", wrapperKey, err)
		}
		return items, nil
	}

	// Single object.
	return []json.RawMessage{json.RawMessage(raw)}, nil
}
