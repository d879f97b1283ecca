package config

import "time"

// Config is the top-level configuration structure parsed from remedy YAML.
type Config struct {
	Project Project `yaml:"project"`
}

// Project defines the full project configuration: metadata, the
// validation checks, and agent settings.
type Project struct {
	Name          string           `yaml:"name"`
	MaxIterations int              `yaml:"max_iterations"`
	Checks        map[string]Check `yaml:"checks"`
	Agent         Agent            `yaml:"agent"`
}

// Check defines a deterministic validation check (build, lint,
// typecheck, or test) as a shell command plus an output parser.
type Check struct {
	Command string `yaml:"command"`
	Parser  string `yaml:"parser"`
	Timeout string `yaml:"timeout"`
}

// Agent holds settings for invoking the external coding agent.
type Agent struct {
	Name    string `yaml:"name"`    // binary name; empty = auto-detect
	Flags   string `yaml:"flags"`   // extra flags passed on every invocation
	Timeout string `yaml:"timeout"` // per-invocation timeout
}

// ParseTimeout parses a duration string, falling back to a default.
func ParseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
