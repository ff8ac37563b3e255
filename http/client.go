// Package http provides the shared HTTP client the connector packages are
// built on: JSON requests with retries, a common error taxonomy, and auth
// header helpers.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries is the default number of retry attempts.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 1 * time.Second

// Client wraps a vendor REST API: one base URL, one auth scheme, JSON in and
// out, retries on transient failures.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceName string
	maxRetries  int
	retryWait   time.Duration

	// errorKeys are the JSON keys tried, in order, when extracting an error
	// message from a failure body. Vendors disagree on the key name.
	errorKeys []string

	// beforeRequest is called before each request, for auth headers.
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client        *http.Client
	BaseURL       string
	ServiceName   string
	MaxRetries    int
	RetryWait     time.Duration
	ErrorKeys     []string
	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		baseURL:       cfg.BaseURL,
		serviceName:   cfg.ServiceName,
		maxRetries:    cfg.MaxRetries,
		retryWait:     cfg.RetryWait,
		errorKeys:     cfg.ErrorKeys,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}
	if len(c.errorKeys) == 0 {
		c.errorKeys = []string{"message", "error"}
	}

	return c
}

// BasicAuth returns a BeforeRequest hook setting HTTP basic auth.
func BasicAuth(username, secret string) func(*http.Request) {
	return func(req *http.Request) {
		req.SetBasicAuth(username, secret)
	}
}

// BearerToken returns a BeforeRequest hook setting a Bearer token.
func BearerToken(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// HeaderToken returns a BeforeRequest hook setting a custom token header.
func HeaderToken(header, token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(header, token)
	}
}

// Get performs a GET request and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// GetRaw performs a GET request and returns the raw response body. Used where
// the response shape varies and the caller normalizes it.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.parseError(resp, path)
	}

	return io.ReadAll(resp.Body)
}

// do executes a request and decodes a JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.parseError(resp, path)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", c.serviceName, err)
	}
	return nil
}

// request executes an HTTP request with retries on transient failures.
func (c *Client) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.beforeRequest != nil {
			c.beforeRequest(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries-1 {
				if waitErr := c.wait(ctx, c.retryWait*time.Duration(1<<attempt)); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, fmt.Errorf("%s request failed: %w", c.serviceName, err)
		}

		if retryableStatus(resp.StatusCode) && attempt < c.maxRetries-1 {
			wait := c.retryAfter(resp, attempt)
			resp.Body.Close()
			if waitErr := c.wait(ctx, wait); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%s request failed: %w", c.serviceName, lastErr)
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// retryAfter calculates the wait before the next attempt, honoring the
// Retry-After header when present.
func (c *Client) retryAfter(resp *http.Response, attempt int) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return c.retryWait * time.Duration(1<<attempt)
}

// retryableStatus reports whether the status warrants a retry.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// parseError builds an APIError from a failure response.
func (c *Client) parseError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{
		Service:    c.serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		for _, key := range c.errorKeys {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var msg string
			if json.Unmarshal(raw, &msg) == nil && msg != "" {
				apiErr.Message = msg
				break
			}
			// Jira reports a list of messages.
			var msgs []string
			if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 && msgs[0] != "" {
				apiErr.Message = msgs[0]
				break
			}
			// Some vendors nest it one level down, as {"error": {"message": ...}}.
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
				apiErr.Message = nested.Message
				break
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
