package jira

import "time"

// AuthType represents the type of authentication to use.
type AuthType string

// Authentication types supported by the Jira client.
const (
	AuthAPIToken AuthType = "api_token" // Cloud: email + API token
	AuthBasic    AuthType = "basic"     // Server: username + password
	AuthPAT      AuthType = "pat"       // Server/DC: Personal Access Token
)

// Config holds the configuration for the Jira client.
type Config struct {
	// URL is the base URL of the Jira instance.
	// For Cloud: https://your-domain.atlassian.net
	// For Server: https://jira.your-company.com
	URL string

	// Auth contains authentication configuration.
	Auth AuthConfig

	// Timeout is the request timeout. Zero means the shared default.
	Timeout time.Duration

	// MaxRetries is the retry budget for transient failures. Zero means the
	// shared default.
	MaxRetries int
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Type is the authentication method to use. Empty defaults to api_token.
	Type AuthType

	// Email is required for api_token auth (Cloud).
	Email string

	// Token is the API token (Cloud) or PAT (Server/DC).
	Token string

	// Username is required for basic auth.
	Username string

	// Password is required for basic auth.
	Password string
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigURLRequired
	}

	authType := c.Auth.Type
	if authType == "" {
		authType = AuthAPIToken
	}

	switch authType {
	case AuthAPIToken:
		if c.Auth.Email == "" || c.Auth.Token == "" {
			return ErrConfigAPITokenAuth
		}
	case AuthBasic:
		if c.Auth.Username == "" || c.Auth.Password == "" {
			return ErrConfigBasicAuth
		}
	case AuthPAT:
		if c.Auth.Token == "" {
			return ErrConfigPATAuth
		}
	default:
		return ErrConfigAuthTypeInvalid
	}

	return nil
}
