// Package figma provides a minimal Figma REST client: share-URL parsing,
// node retrieval, and text collection from a node subtree.
package figma

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	chttp "github.com/yjnoh/caseforge/http"
)

var (
	// ErrShareURLInvalid indicates the URL is not a recognizable Figma share link.
	ErrShareURLInvalid = errors.New("not a figma share url")

	// ErrTokenRequired indicates no personal access token was supplied.
	ErrTokenRequired = errors.New("figma access token is required")

	// ErrNodeNotFound indicates the file has no node with the requested id.
	ErrNodeNotFound = errors.New("figma node not found")
)

// shareURLPattern matches the file key in both canonical share-link forms,
// figma.com/file/<key>/... and figma.com/design/<key>/...
var shareURLPattern = regexp.MustCompile(`figma\.com/(?:file|design)/([A-Za-z0-9]+)`)

// Link is a parsed share URL.
type Link struct {
	FileKey string
	NodeID  string
}

// ParseShareURL extracts the file key and optional node id from a share URL.
// Node ids appear in the query as "1-23" but the API addresses them as
// "1:23"; the dash form is rewritten here.
func ParseShareURL(raw string) (Link, error) {
	m := shareURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return Link{}, fmt.Errorf("%w: %s", ErrShareURLInvalid, raw)
	}

	link := Link{FileKey: m[1]}

	if u, err := url.Parse(raw); err == nil {
		if nodeID := u.Query().Get("node-id"); nodeID != "" {
			link.NodeID = strings.ReplaceAll(nodeID, "-", ":")
		}
	}

	return link, nil
}

// Node is a Figma document node trimmed to what text extraction needs.
type Node struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Characters string `json:"characters,omitempty"`
	Children   []Node `json:"children,omitempty"`
}

// CollectText walks the subtree depth-first and concatenates the content of
// every TEXT node, one line per node.
func (n Node) CollectText() string {
	var parts []string
	n.collectText(&parts)
	return strings.Join(parts, "\n")
}

func (n Node) collectText(parts *[]string) {
	if n.Type == "TEXT" && strings.TrimSpace(n.Characters) != "" {
		*parts = append(*parts, strings.TrimSpace(n.Characters))
	}
	for _, child := range n.Children {
		child.collectText(parts)
	}
}

// Client provides access to the Figma REST API.
type Client struct {
	http *chttp.Client
}

// Option configures a Client.
type Option func(*settings)

type settings struct {
	baseURL string
	client  *gohttp.Client
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *gohttp.Client) Option {
	return func(s *settings) { s.client = hc }
}

// NewClient creates a Figma client authenticated with a personal access token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	s := settings{baseURL: "https://api.figma.com"}
	for _, opt := range opts {
		opt(&s)
	}

	return &Client{
		http: chttp.NewClient(chttp.ClientConfig{
			Client:        s.client,
			BaseURL:       s.baseURL,
			ServiceName:   "figma",
			ErrorKeys:     []string{"err", "message"},
			BeforeRequest: chttp.HeaderToken("X-Figma-Token", token),
		}),
	}, nil
}

// me is the response shape of GET /v1/me.
type me struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Email  string `json:"email"`
}

// Verify checks the token against the API within the given timeout.
func (c *Client) Verify(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var user me
	if err := c.http.Get(ctx, "/v1/me", &user); err != nil {
		if chttp.IsUnauthorized(err) {
			return &chttp.AuthError{Service: "figma", Reason: "token rejected"}
		}
		return err
	}
	return nil
}

// nodesResponse is the envelope of GET /v1/files/{key}/nodes.
type nodesResponse struct {
	Name  string `json:"name"`
	Nodes map[string]struct {
		Document Node `json:"document"`
	} `json:"nodes"`
}

// GetNode fetches one node of a file by id.
func (c *Client) GetNode(ctx context.Context, fileKey, nodeID string) (*Node, string, error) {
	path := fmt.Sprintf("/v1/files/%s/nodes?ids=%s", fileKey, url.QueryEscape(nodeID))

	var resp nodesResponse
	if err := c.http.Get(ctx, path, &resp); err != nil {
		return nil, "", err
	}

	entry, ok := resp.Nodes[nodeID]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s in %s", ErrNodeNotFound, nodeID, fileKey)
	}
	return &entry.Document, resp.Name, nil
}

// fileResponse is the envelope of GET /v1/files/{key}, trimmed to the
// document root.
type fileResponse struct {
	Name     string `json:"name"`
	Document Node   `json:"document"`
}

// GetFileRoot fetches the document root of a file. Used when a share URL
// carries no node id.
func (c *Client) GetFileRoot(ctx context.Context, fileKey string) (*Node, string, error) {
	var resp fileResponse
	if err := c.http.Get(ctx, "/v1/files/"+fileKey+"?depth=2", &resp); err != nil {
		return nil, "", err
	}
	return &resp.Document, resp.Name, nil
}
