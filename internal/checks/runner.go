package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Canonical check names. The validation suite always runs in this order.
const (
	CheckBuild     = "build"
	CheckLint      = "lint"
	CheckTypecheck = "typecheck"
	CheckTest      = "test"
)

// FullSuite returns all check names in canonical order.
func FullSuite() []string {
	return []string{CheckBuild, CheckLint, CheckTypecheck, CheckTest}
}

// IsKnownCheck reports whether name is one of the canonical checks.
func IsKnownCheck(name string) bool {
	for _, n := range FullSuite() {
		if n == name {
			return true
		}
	}
	return false
}

// Result holds the structured output of a single check run.
type Result struct {
	CheckName  string `json:"check_name"`
	Passed     bool   `json:"passed"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int    `json:"duration_ms"`
	Summary    string `json:"summary"`
	Findings   string `json:"findings"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
}

// CheckConfig mirrors config.Check with the fields the runner needs.
type CheckConfig struct {
	Name    string
	Command string
	Parser  string
	Timeout time.Duration
}

// CommandRunner abstracts command execution for testability.
// Run returns a non-nil error only when the command could not be
// executed at all (missing shell, bad working directory). A command
// that ran and exited non-zero is reported through exitCode.
type CommandRunner interface {
	Run(ctx context.Context, dir string, command string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by shelling out.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.String(), stderrBuf.String(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, nil
}

// Runner executes checks and parses their output.
type Runner struct {
	cmd     CommandRunner
	parsers map[string]Parser
}

// NewRunner creates a Runner with the given command runner.
func NewRunner(cmd CommandRunner) *Runner {
	r := &Runner{
		cmd:     cmd,
		parsers: make(map[string]Parser),
	}
	r.parsers["eslint"] = &ESLintParser{}
	r.parsers["typescript"] = &TypeScriptParser{}
	r.parsers["vitest"] = &VitestParser{}
	r.parsers["generic"] = &GenericParser{}
	return r
}

// Run executes a single check in the given directory. The check command
// is bounded by cfg.Timeout (2 minutes when unset); a timed-out check is
// reported as a failed Result, not an error. Cancellation of ctx is
// surfaced as an error wrapping context.Canceled.
func (r *Runner) Run(ctx context.Context, dir string, cfg CheckConfig) (*Result, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, exitCode, err := r.cmd.Run(runCtx, dir, cfg.Command)
	durationMs := int(time.Since(start).Milliseconds())

	if ctx.Err() != nil {
		return nil, fmt.Errorf("check %q: %w", cfg.Name, context.Canceled)
	}
	if err != nil {
		// Deadline on the per-check context → timeout, reported as a failure.
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return &Result{
				CheckName:  cfg.Name,
				Passed:     false,
				ExitCode:   -1,
				DurationMs: durationMs,
				Summary:    fmt.Sprintf("timeout after %s", timeout),
				Stdout:     stdout,
				Stderr:     stderr,
			}, nil
		}
		return nil, fmt.Errorf("run check %q: %w", cfg.Name, err)
	}

	parser, ok := r.parsers[cfg.Parser]
	if !ok {
		parser = r.parsers["generic"]
	}

	parsed := parser.Parse(stdout, stderr, exitCode)

	findingsJSON, _ := json.Marshal(parsed.Findings)

	return &Result{
		CheckName:  cfg.Name,
		Passed:     exitCode == 0 && parsed.Passed,
		ExitCode:   exitCode,
		DurationMs: durationMs,
		Summary:    parsed.Summary,
		Findings:   string(findingsJSON),
		Stdout:     stdout,
		Stderr:     stderr,
	}, nil
}
