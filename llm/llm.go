// Package llm defines the AI provider contract used for test-case generation
// and an implementation speaking the OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"strings"
	"time"

	chttp "github.com/yjnoh/caseforge/http"
)

var (
	// ErrAPIKeyRequired indicates no API key was supplied.
	ErrAPIKeyRequired = errors.New("llm api key is required")

	// ErrEmptyCompletion indicates the provider returned no choices.
	ErrEmptyCompletion = errors.New("llm returned an empty completion")
)

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one generation call.
type CompletionRequest struct {
	// Model overrides the client's default model when set.
	Model string

	// SystemPrompt is prepended as a system message when set.
	SystemPrompt string

	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption for a completion.
type Usage struct {
	InputTokens  int `json:"prompt_tokens"`
	OutputTokens int `json:"completion_tokens"`
}

// CompletionResult is the outcome of a completion call.
type CompletionResult struct {
	Content string
	Model   string
	Usage   Usage
}

// Client is the AI provider contract the workflow depends on.
type Client interface {
	// Complete runs one chat completion.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)

	// ListModels returns the model ids the provider serves. Doubles as the
	// connection liveness check.
	ListModels(ctx context.Context) ([]string, error)
}

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com"

// DefaultModel is used when a request does not name one.
const DefaultModel = "gpt-4o-mini"

// RESTClient implements Client against any OpenAI-compatible endpoint.
type RESTClient struct {
	http        *chttp.Client
	model       string
	maxTokens   int
	temperature float64
}

// RESTOption configures a RESTClient.
type RESTOption func(*restSettings)

type restSettings struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *gohttp.Client
	timeout     time.Duration
}

// WithBaseURL points the client at a non-default endpoint, such as a local
// or proxied deployment.
func WithBaseURL(baseURL string) RESTOption {
	return func(s *restSettings) { s.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithModel sets the default model.
func WithModel(model string) RESTOption {
	return func(s *restSettings) { s.model = model }
}

// WithMaxTokens sets the default completion budget applied when a request
// does not carry one.
func WithMaxTokens(n int) RESTOption {
	return func(s *restSettings) { s.maxTokens = n }
}

// WithTemperature sets the default sampling temperature applied when a
// request does not carry one.
func WithTemperature(t float64) RESTOption {
	return func(s *restSettings) { s.temperature = t }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *gohttp.Client) RESTOption {
	return func(s *restSettings) { s.httpClient = hc }
}

// WithTimeout sets the request timeout. Generation calls can run well past
// the shared default.
func WithTimeout(d time.Duration) RESTOption {
	return func(s *restSettings) { s.timeout = d }
}

// NewRESTClient creates a client for an OpenAI-compatible API.
func NewRESTClient(apiKey string, opts ...RESTOption) (*RESTClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	settings := restSettings{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	httpClient := settings.httpClient
	if httpClient == nil {
		httpClient = &gohttp.Client{Timeout: settings.timeout}
	}

	return &RESTClient{
		http: chttp.NewClient(chttp.ClientConfig{
			Client:        httpClient,
			BaseURL:       settings.baseURL,
			ServiceName:   "llm",
			ErrorKeys:     []string{"error", "message"},
			BeforeRequest: chttp.BearerToken(apiKey),
		}),
		model:       settings.model,
		maxTokens:   settings.maxTokens,
		temperature: settings.temperature,
	}, nil
}

// completionPayload is the wire request of POST /v1/chat/completions.
type completionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// completionEnvelope is the wire response.
type completionEnvelope struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Complete implements Client. Request fields left zero fall back to the
// client's configured defaults, the same way Model does.
func (c *RESTClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, req.Messages...)

	payload := completionPayload{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var envelope completionEnvelope
	if err := c.http.Post(ctx, "/v1/chat/completions", payload, &envelope); err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &CompletionResult{
		Content: envelope.Choices[0].Message.Content,
		Model:   envelope.Model,
		Usage:   envelope.Usage,
	}, nil
}

// modelsEnvelope is the wire response of GET /v1/models.
type modelsEnvelope struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels implements Client.
func (c *RESTClient) ListModels(ctx context.Context) ([]string, error) {
	var envelope modelsEnvelope
	if err := c.http.Get(ctx, "/v1/models", &envelope); err != nil {
		if chttp.IsUnauthorized(err) {
			return nil, &chttp.AuthError{Service: "llm", Reason: "api key rejected"}
		}
		return nil, fmt.Errorf("list models: %w", err)
	}

	ids := make([]string, 0, len(envelope.Data))
	for _, m := range envelope.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Verify checks the API key by listing models within the given timeout.
func (c *RESTClient) Verify(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := c.ListModels(ctx)
	return err
}
