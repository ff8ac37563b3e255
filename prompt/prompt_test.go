package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedPrompt(t *testing.T) {
	loader := NewLoader("")

	out, err := loader.LoadWithVars("generate-cases", map[string]any{"Count": 5})
	if err != nil {
		t.Fatalf("LoadWithVars: %v", err)
	}

	if !strings.Contains(out, "exactly 5 test cases") {
		t.Errorf("count not substituted:\n%s", out)
	}
	if !strings.Contains(out, `"testcases"`) {
		t.Error("prompt should describe the response shape")
	}
}

func TestLoadUnknownPrompt(t *testing.T) {
	loader := NewLoader("")
	if _, err := loader.Load("does-not-exist"); err == nil {
		t.Error("expected an error for an unknown prompt")
	}
}

func TestProjectDirOverridesEmbedded(t *testing.T) {
	projectDir := t.TempDir()
	promptDir := filepath.Join(projectDir, ".caseforge", "prompts")
	if err := os.MkdirAll(promptDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	custom := "Custom instructions, {{.Count}} cases please."
	path := filepath.Join(promptDir, "generate-cases.txt")
	if err := os.WriteFile(path, []byte(custom), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loader := NewLoader(projectDir)
	out, err := loader.LoadWithVars("generate-cases", map[string]any{"Count": 2})
	if err != nil {
		t.Fatalf("LoadWithVars: %v", err)
	}
	if out != "Custom instructions, 2 cases please." {
		t.Errorf("LoadWithVars() = %q, want the project override", out)
	}
}

func TestAddSearchDirWinsOverProjectDirs(t *testing.T) {
	projectDir := t.TempDir()
	projectPrompts := filepath.Join(projectDir, "prompts")
	if err := os.MkdirAll(projectPrompts, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectPrompts, "p.txt"), []byte("project"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	extraDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(extraDir, "p.txt"), []byte("extra"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loader := NewLoader(projectDir)
	loader.AddSearchDir(extraDir)

	out, err := loader.Load("p")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != "extra" {
		t.Errorf("Load() = %q, want the added dir searched first", out)
	}
}

func TestTemplateFuncs(t *testing.T) {
	dir := t.TempDir()
	content := `{{upper .Name}} / {{lower .Name}} / {{title "test cases"}} / {{join .Items ", "}}`
	if err := os.WriteFile(filepath.Join(dir, "funcs.txt"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loader := NewLoader("")
	loader.AddSearchDir(dir)

	out, err := loader.LoadWithVars("funcs", map[string]any{
		"Name":  "Widget",
		"Items": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("LoadWithVars: %v", err)
	}
	want := "WIDGET / widget / Test Cases / a, b"
	if out != want {
		t.Errorf("LoadWithVars() = %q, want %q", out, want)
	}
}

func TestTemplatesAreCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loader := NewLoader("")
	loader.AddSearchDir(dir)

	if out, _ := loader.Load("cached"); out != "v1" {
		t.Fatalf("Load() = %q", out)
	}

	if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if out, _ := loader.Load("cached"); out != "v1" {
		t.Errorf("Load() = %q, want the cached parse", out)
	}
}

func TestBuilder(t *testing.T) {
	out := NewBuilder().
		Add("Intro line.").
		AddSection("Work Item", "PROJ-1: Login fails").
		AddList("Criteria", []string{"first", "second"}).
		Build()

	want := "Intro line.\n\n" +
		"## Work Item\n\nPROJ-1: Login fails\n\n" +
		"## Criteria\n\n- first\n- second\n"
	if out != want {
		t.Errorf("Build() =\n%q\nwant\n%q", out, want)
	}
}

func TestBuilderListWithoutHeader(t *testing.T) {
	out := NewBuilder().AddList("", []string{"only"}).Build()
	if out != "- only\n" {
		t.Errorf("Build() = %q", out)
	}
}
