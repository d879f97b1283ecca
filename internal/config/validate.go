package config

import (
	"fmt"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// recognizedParsers is the set of valid parser names for checks.
var recognizedParsers = map[string]bool{
	"eslint":     true,
	"typescript": true,
	"vitest":     true,
	"generic":    true,
}

// knownChecks is the set of check names remedy understands.
var knownChecks = map[string]bool{
	"build":     true,
	"lint":      true,
	"typecheck": true,
	"test":      true,
}

// Validate checks a Config for structural and semantic errors. It
// returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	p := cfg.Project

	if p.MaxIterations <= 0 {
		errs = append(errs, ValidationError{
			Field:   "project.max_iterations",
			Message: "must be a positive integer",
		})
	}

	for name, chk := range p.Checks {
		prefix := fmt.Sprintf("project.checks.%s", name)

		if !knownChecks[name] {
			errs = append(errs, ValidationError{
				Field:   prefix,
				Message: fmt.Sprintf("unknown check %q (expected build, lint, typecheck, or test)", name),
			})
		}
		if chk.Command == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".command",
				Message: "is required",
			})
		}
		if chk.Parser != "" && !recognizedParsers[chk.Parser] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".parser",
				Message: fmt.Sprintf("unrecognized parser %q", chk.Parser),
			})
		}
		if chk.Timeout != "" {
			if _, err := time.ParseDuration(chk.Timeout); err != nil {
				errs = append(errs, ValidationError{
					Field:   prefix + ".timeout",
					Message: fmt.Sprintf("invalid duration %q", chk.Timeout),
				})
			}
		}
	}

	if p.Agent.Timeout != "" {
		if _, err := time.ParseDuration(p.Agent.Timeout); err != nil {
			errs = append(errs, ValidationError{
				Field:   "project.agent.timeout",
				Message: fmt.Sprintf("invalid duration %q", p.Agent.Timeout),
			})
		}
	}

	return errs
}
