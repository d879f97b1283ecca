package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remedy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
project:
  name: myapp
  max_iterations: 5
  checks:
    build:
      command: make build
      parser: generic
      timeout: 10m
    lint:
      command: make lint
      parser: generic
  agent:
    name: claude
    flags: "--model sonnet"
    timeout: 30m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Project.Name != "myapp" {
		t.Errorf("expected name=myapp, got %q", cfg.Project.Name)
	}
	if cfg.Project.MaxIterations != 5 {
		t.Errorf("expected max_iterations=5, got %d", cfg.Project.MaxIterations)
	}
	if cfg.Project.Checks["build"].Command != "make build" {
		t.Errorf("unexpected build command: %q", cfg.Project.Checks["build"].Command)
	}
	if cfg.Project.Agent.Name != "claude" {
		t.Errorf("expected agent=claude, got %q", cfg.Project.Agent.Name)
	}
	// Unlisted checks are filled from the defaults.
	if cfg.Project.Checks["test"].Command == "" {
		t.Error("expected default test command to be filled in")
	}
	// Partially specified checks keep their values and get defaults for the rest.
	if cfg.Project.Checks["lint"].Timeout == "" {
		t.Error("expected default lint timeout to be filled in")
	}
	if cfg.Project.Checks["build"].Timeout != "10m" {
		t.Errorf("explicit timeout overwritten: %q", cfg.Project.Checks["build"].Timeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/remedy.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "project: [not a map")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestDefault_WorksUnconfigured(t *testing.T) {
	cfg := Default()
	if cfg.Project.MaxIterations != 3 {
		t.Errorf("expected default max_iterations=3, got %d", cfg.Project.MaxIterations)
	}
	for _, name := range []string{"build", "lint", "typecheck", "test"} {
		chk, ok := cfg.Project.Checks[name]
		if !ok {
			t.Errorf("missing default check %q", name)
			continue
		}
		if chk.Command == "" {
			t.Errorf("default check %q has no command", name)
		}
		if chk.Parser == "" {
			t.Errorf("default check %q has no parser", name)
		}
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("default config must validate cleanly, got %v", errs)
	}
}

func TestValidate_CatchesErrors(t *testing.T) {
	cfg := &Config{
		Project: Project{
			MaxIterations: 0,
			Checks: map[string]Check{
				"format": {Command: "prettier --check .", Parser: "generic"},
				"lint":   {Parser: "pylint", Timeout: "sometimes"},
			},
			Agent: Agent{Timeout: "whenever"},
		},
	}

	errs := Validate(cfg)
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}

	for _, want := range []string{
		"project.max_iterations",
		"project.checks.format",
		"project.checks.lint.command",
		"project.checks.lint.parser",
		"project.checks.lint.timeout",
		"project.agent.timeout",
	} {
		if !fields[want] {
			t.Errorf("expected validation error for %s, got %v", want, errs)
		}
	}
}

func TestParseTimeout(t *testing.T) {
	if got := ParseTimeout("90s", time.Minute); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}
	if got := ParseTimeout("", time.Minute); got != time.Minute {
		t.Errorf("expected fallback for empty, got %v", got)
	}
	if got := ParseTimeout("bogus", time.Minute); got != time.Minute {
		t.Errorf("expected fallback for invalid, got %v", got)
	}
}
