package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Case count bounds enforced on the default_test_count preference.
const (
	minTestCount     = 1
	maxTestCount     = 10
	defaultTestCount = 5
)

// Settings is the persisted configuration. Sections are pointers so an
// absent section is distinguishable from an empty one.
type Settings struct {
	Jira     *JiraSettings     `json:"jira,omitempty" yaml:"jira,omitempty"`
	AI       *AISettings       `json:"ai,omitempty" yaml:"ai,omitempty"`
	Figma    *FigmaSettings    `json:"figma,omitempty" yaml:"figma,omitempty"`
	TestRail *TestRailSettings `json:"testrail,omitempty" yaml:"testrail,omitempty"`
	App      AppSettings       `json:"app" yaml:"app"`
}

// JiraSettings holds issue-tracker credentials.
type JiraSettings struct {
	URL   string `json:"url" yaml:"url"`
	Email string `json:"email" yaml:"email"`
	Token string `json:"token" yaml:"token"`
}

// Complete reports whether the section carries everything needed to connect.
func (s *JiraSettings) Complete() bool {
	return s != nil && s.URL != "" && s.Email != "" && s.Token != ""
}

// AISettings holds AI provider credentials and generation parameters.
// MaxTokens and Temperature are passed through to every completion call;
// zero leaves the provider default in place.
type AISettings struct {
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey      string  `json:"api_key" yaml:"api_key"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Complete reports whether the section carries everything needed to connect.
func (s *AISettings) Complete() bool {
	return s != nil && s.APIKey != ""
}

// FigmaSettings holds design-tool credentials.
type FigmaSettings struct {
	Token string `json:"token" yaml:"token"`
}

// Complete reports whether the section carries everything needed to connect.
func (s *FigmaSettings) Complete() bool {
	return s != nil && s.Token != ""
}

// TestRailSettings holds test-management credentials.
type TestRailSettings struct {
	URL      string `json:"url" yaml:"url"`
	Username string `json:"username" yaml:"username"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// Complete reports whether the section carries everything needed to connect.
func (s *TestRailSettings) Complete() bool {
	return s != nil && s.URL != "" && s.Username != "" && s.APIKey != ""
}

// AppSettings holds non-credential preferences.
type AppSettings struct {
	// DefaultTestCount seeds the case-count selector. Clamped to 1..10.
	DefaultTestCount int `json:"default_test_count,omitempty" yaml:"default_test_count,omitempty"`

	// AutoConnect* wire the connector at startup when its section is complete.
	AutoConnectJira     bool `json:"auto_connect_jira,omitempty" yaml:"auto_connect_jira,omitempty"`
	AutoConnectAI       bool `json:"auto_connect_ai,omitempty" yaml:"auto_connect_ai,omitempty"`
	AutoConnectTestRail bool `json:"auto_connect_testrail,omitempty" yaml:"auto_connect_testrail,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		App: AppSettings{DefaultTestCount: defaultTestCount},
	}
}

// DefaultPath returns the conventional config location,
// ~/.config/caseforge/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "caseforge.yaml"
	}
	return filepath.Join(home, ".config", "caseforge", "config.yaml")
}

// Load reads settings from path. A missing file yields defaults, not an
// error; any present file must parse. Environment overrides are applied
// after the file, and the test-count preference is clamped.
func Load(path string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: defaults plus whatever the environment provides.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := unmarshal(path, data, settings); err != nil {
			return nil, err
		}
	}

	settings.applyEnv()
	settings.clamp()
	return settings, nil
}

// Save writes the whole settings file, creating its directory if needed.
// The file carries credentials, so it is written user-only.
func (s *Settings) Save(path string) error {
	data, err := marshal(path, s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// unmarshal picks the codec from the file extension. JSON is the legacy
// format; YAML is the default for new files.
func unmarshal(path string, data []byte, settings *Settings) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func marshal(path string, settings *Settings) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// applyEnv overlays credential values from the environment. A set variable
// wins over the file so tokens can stay out of it entirely.
func (s *Settings) applyEnv() {
	if v := os.Getenv("CASEFORGE_JIRA_URL"); v != "" {
		s.ensureJira().URL = v
	}
	if v := os.Getenv("CASEFORGE_JIRA_EMAIL"); v != "" {
		s.ensureJira().Email = v
	}
	if v := os.Getenv("CASEFORGE_JIRA_TOKEN"); v != "" {
		s.ensureJira().Token = v
	}
	if v := os.Getenv("CASEFORGE_AI_API_KEY"); v != "" {
		s.ensureAI().APIKey = v
	}
	if v := os.Getenv("CASEFORGE_AI_BASE_URL"); v != "" {
		s.ensureAI().BaseURL = v
	}
	if v := os.Getenv("CASEFORGE_FIGMA_TOKEN"); v != "" {
		s.ensureFigma().Token = v
	}
	if v := os.Getenv("CASEFORGE_TESTRAIL_URL"); v != "" {
		s.ensureTestRail().URL = v
	}
	if v := os.Getenv("CASEFORGE_TESTRAIL_USERNAME"); v != "" {
		s.ensureTestRail().Username = v
	}
	if v := os.Getenv("CASEFORGE_TESTRAIL_API_KEY"); v != "" {
		s.ensureTestRail().APIKey = v
	}
}

func (s *Settings) ensureJira() *JiraSettings {
	if s.Jira == nil {
		s.Jira = &JiraSettings{}
	}
	return s.Jira
}

func (s *Settings) ensureAI() *AISettings {
	if s.AI == nil {
		s.AI = &AISettings{}
	}
	return s.AI
}

func (s *Settings) ensureFigma() *FigmaSettings {
	if s.Figma == nil {
		s.Figma = &FigmaSettings{}
	}
	return s.Figma
}

func (s *Settings) ensureTestRail() *TestRailSettings {
	if s.TestRail == nil {
		s.TestRail = &TestRailSettings{}
	}
	return s.TestRail
}

// clamp forces preferences into their valid ranges.
func (s *Settings) clamp() {
	if s.App.DefaultTestCount < minTestCount || s.App.DefaultTestCount > maxTestCount {
		s.App.DefaultTestCount = defaultTestCount
	}
}
