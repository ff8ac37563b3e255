package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yjnoh/caseforge/testutil"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.App.DefaultTestCount != defaultTestCount {
		t.Errorf("DefaultTestCount = %d, want %d", settings.App.DefaultTestCount, defaultTestCount)
	}
	if settings.Jira.Complete() || settings.AI.Complete() || settings.TestRail.Complete() {
		t.Error("no section should be complete on first run")
	}
}

func TestLoadYAML(t *testing.T) {
	path := testutil.TempFileString(t, "config.yaml", `
jira:
  url: https://acme.atlassian.net
  email: qa@acme.com
  token: tok
app:
  default_test_count: 7
  auto_connect_jira: true
`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !settings.Jira.Complete() {
		t.Errorf("jira section should be complete: %+v", settings.Jira)
	}
	if settings.App.DefaultTestCount != 7 {
		t.Errorf("DefaultTestCount = %d, want 7", settings.App.DefaultTestCount)
	}
	if !settings.App.AutoConnectJira {
		t.Error("AutoConnectJira should be true")
	}
	if settings.AI != nil || settings.Figma != nil || settings.TestRail != nil {
		t.Error("absent sections should stay nil")
	}
}

func TestLoadJSON(t *testing.T) {
	path := testutil.TempFileString(t, "config.json", `{
		"ai": {"api_key": "sk-test", "model": "gpt-4o", "max_tokens": 1500, "temperature": 0.3},
		"app": {"default_test_count": 3}
	}`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !settings.AI.Complete() || settings.AI.Model != "gpt-4o" {
		t.Errorf("AI = %+v", settings.AI)
	}
	if settings.AI.MaxTokens != 1500 || settings.AI.Temperature != 0.3 {
		t.Errorf("AI generation params = %d/%v, want 1500/0.3",
			settings.AI.MaxTokens, settings.AI.Temperature)
	}
	if settings.App.DefaultTestCount != 3 {
		t.Errorf("DefaultTestCount = %d, want 3", settings.App.DefaultTestCount)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := testutil.TempFileString(t, "config.yaml", "jira: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadClampsTestCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"zero", 0, defaultTestCount},
		{"negative", -2, defaultTestCount},
		{"too high", 25, defaultTestCount},
		{"lower bound", 1, 1},
		{"upper bound", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.TempFileString(t, "config.json",
				fmt.Sprintf(`{"app": {"default_test_count": %d}}`, tt.count))

			settings, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if settings.App.DefaultTestCount != tt.want {
				t.Errorf("DefaultTestCount = %d, want %d", settings.App.DefaultTestCount, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := testutil.TempFileString(t, "config.yaml", `
jira:
  url: https://file.example.com
  email: file@example.com
  token: file-token
`)

	t.Setenv("CASEFORGE_JIRA_TOKEN", "env-token")
	t.Setenv("CASEFORGE_AI_API_KEY", "env-key")
	t.Setenv("CASEFORGE_TESTRAIL_URL", "https://tr.example.com")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.Jira.Token != "env-token" {
		t.Errorf("Jira.Token = %q, want the environment value", settings.Jira.Token)
	}
	if settings.Jira.URL != "https://file.example.com" {
		t.Errorf("Jira.URL = %q, want the file value kept", settings.Jira.URL)
	}
	if !settings.AI.Complete() {
		t.Error("AI section should be created from the environment")
	}
	if settings.TestRail == nil || settings.TestRail.URL != "https://tr.example.com" {
		t.Errorf("TestRail = %+v", settings.TestRail)
	}
	if settings.TestRail.Complete() {
		t.Error("TestRail section should stay incomplete without credentials")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	original := Default()
	original.Jira = &JiraSettings{URL: "https://x", Email: "e@x", Token: "t"}
	original.App.DefaultTestCount = 8

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := original.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *loaded.Jira != *original.Jira {
				t.Errorf("Jira = %+v, want %+v", loaded.Jira, original.Jira)
			}
			if loaded.App.DefaultTestCount != 8 {
				t.Errorf("DefaultTestCount = %d, want 8", loaded.App.DefaultTestCount)
			}
		})
	}
}

func TestCompleteNilSafe(t *testing.T) {
	var (
		jira *JiraSettings
		ai   *AISettings
		fig  *FigmaSettings
		tr   *TestRailSettings
	)
	if jira.Complete() || ai.Complete() || fig.Complete() || tr.Complete() {
		t.Error("nil sections must report incomplete")
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	if !strings.Contains(path, "caseforge") {
		t.Errorf("DefaultPath() = %q", path)
	}
}
