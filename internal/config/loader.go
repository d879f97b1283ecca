package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a remedy configuration from the given YAML file
// path. After parsing, it fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./.remedy.yaml, ./remedy.yaml,
// ~/.remedy/config.yaml. When no file exists the built-in defaults are
// returned, so the tool works in an unconfigured npm project.
func LoadDefault() (*Config, error) {
	candidates := []string{".remedy.yaml", "remedy.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".remedy", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}

// Default returns the built-in configuration: npm-script commands for
// all four checks and an auto-detected agent.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// defaultChecks are the commands used when a check is not configured.
var defaultChecks = map[string]Check{
	"build":     {Command: "npm run build", Parser: "generic", Timeout: "5m"},
	"lint":      {Command: "npx eslint . --format json", Parser: "eslint", Timeout: "2m"},
	"typecheck": {Command: "npx tsc --noEmit", Parser: "typescript", Timeout: "2m"},
	"test":      {Command: "npx vitest run --reporter=json", Parser: "vitest", Timeout: "5m"},
}

// applyDefaults fills missing checks and settings with built-in values.
func applyDefaults(cfg *Config) {
	p := &cfg.Project

	if p.MaxIterations <= 0 {
		p.MaxIterations = 3
	}
	if p.Agent.Timeout == "" {
		p.Agent.Timeout = "15m"
	}

	if p.Checks == nil {
		p.Checks = make(map[string]Check)
	}
	for name, def := range defaultChecks {
		chk, ok := p.Checks[name]
		if !ok {
			p.Checks[name] = def
			continue
		}
		if chk.Command == "" {
			chk.Command = def.Command
		}
		if chk.Parser == "" {
			chk.Parser = def.Parser
		}
		if chk.Timeout == "" {
			chk.Timeout = def.Timeout
		}
		p.Checks[name] = chk
	}
}
