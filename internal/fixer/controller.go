package fixer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/calstone/remedy/internal/activity"
	"github.com/calstone/remedy/internal/agent"
	"github.com/calstone/remedy/internal/checks"
	"github.com/calstone/remedy/internal/config"
	"github.com/calstone/remedy/internal/prompt"
	"github.com/calstone/remedy/internal/runs"
	"github.com/calstone/remedy/internal/skills"
)

// Controller runs the bounded fix loop: a baseline check pass, repeated
// agent invocations with interim lint checks, a final build check that
// can grant a one-time extension, then re-verification of every
// originally targeted check. Activity, Store, and Progress are optional;
// when nil the loop runs without persistence or progress output.
type Controller struct {
	Invoker  agent.Invoker
	Checker  *checks.Runner
	Config   *config.Config
	Activity *activity.DB
	Store    *runs.Store
	Progress io.Writer
}

// Opts configures one fix run.
type Opts struct {
	Dir           string
	Task          string
	MaxIterations int // overrides config when positive
	ScanRequested bool
	PriorFailures []string
	AgentName     string
	RunID         string // generated when empty
}

// Run executes the fix loop to completion. It returns a nil Report only
// on a fatal error (a check command that could not execute, or a prompt
// that could not be built). Cancellation and budget exhaustion are
// normal outcomes reported through the Report's verdict and exit code.
func (c *Controller) Run(ctx context.Context, opts Opts) (*Report, error) {
	maxIters := opts.MaxIterations
	if maxIters <= 0 {
		maxIters = c.Config.Project.MaxIterations
	}
	if maxIters <= 0 {
		maxIters = 3
	}

	runID := opts.RunID
	if runID == "" {
		runID = ulid.Make().String()
	}

	scope := ResolveScope(opts.Task, opts.PriorFailures, opts.ScanRequested)
	det := skills.Classify(opts.Task)

	report := &Report{
		RunID:      runID,
		Task:       opts.Task,
		Scope:      scope,
		Agent:      opts.AgentName,
		Capability: det.Capability,
	}

	if c.Activity != nil {
		_ = c.Activity.CreateFixRun(runID, opts.Task, scope.Targeted, opts.AgentName)
	}

	c.logf("run %s: targeting %s (%s)", runID, strings.Join(scope.Targeted, ", "), scope.Reason)
	if det.Capability == skills.CapVisualDesign {
		c.logf("design keywords detected: %s", strings.Join(det.Matched, ", "))
	}

	// Baseline pass captures the failure state before the agent touches anything.
	baseline, err := c.runSuite(ctx, opts.Dir, runID, "baseline", 0, scope.Targeted)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return c.finish(report, VerdictCancelled, 1)
		}
		return c.abort(report, err)
	}

	if baseline.Passed && opts.Task == "" {
		report.Checks = itemize(baseline)
		c.logf("all targeted checks pass; nothing to fix")
		return c.finish(report, VerdictSuccess, 0)
	}

	failureContext := formatFailures(baseline)

	scheduled := maxIters
	extraGranted := 0

	for i := 1; i <= scheduled; i++ {
		if ctx.Err() != nil {
			return c.finish(report, VerdictCancelled, 1)
		}

		report.Iterations = i
		c.logf("iteration %d/%d", i, scheduled)

		promptText, err := c.buildPrompt(opts.Dir, opts.Task, failureContext, det.Capability)
		if err != nil {
			return c.abort(report, err)
		}
		if c.Store != nil && i == 1 {
			_ = c.Store.SavePrompt(runID, promptText)
		}

		report.Invocations++
		agentOK := false
		res, err := c.Invoker.Invoke(ctx, agent.Request{Prompt: promptText, Dir: opts.Dir})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return c.finish(report, VerdictCancelled, 1)
			}
			// Recoverable: the iteration is consumed and the loop moves on.
			c.logf("agent invocation failed: %v", err)
		} else {
			agentOK = res.Success
			if c.Store != nil {
				_ = c.Store.SaveTranscript(runID, i, res.Output)
			}
			if !agentOK {
				c.logf("agent exited non-zero")
			}
		}

		if i < scheduled {
			// Interim: a fast lint check gauges progress between iterations.
			interim, err := c.runSuite(ctx, opts.Dir, runID, "interim", i, []string{checks.CheckLint})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return c.finish(report, VerdictCancelled, 1)
				}
				return c.abort(report, err)
			}
			if agentOK && interim.Passed {
				c.logf("agent reported success and lint is clean; moving to verification")
				break
			}
			if !interim.Passed {
				failureContext = formatFailures(interim)
			}
			continue
		}

		// Final scheduled iteration: the build check decides whether the
		// one-time extension is granted.
		final, err := c.runSuite(ctx, opts.Dir, runID, "final", i, []string{checks.CheckBuild})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return c.finish(report, VerdictCancelled, 1)
			}
			return c.abort(report, err)
		}
		if !final.Passed && extraGranted == 0 {
			extraGranted = 2
			scheduled += 2
			report.ExtraGranted = extraGranted
			failureContext = formatFailures(final)
			c.logf("build still failing after %d iterations; granting %d extra", i, 2)
			continue
		}
		break
	}

	// Verification re-runs every originally targeted check; the verdict
	// comes from actual check results, never from the agent's own claims.
	verify, err := c.runSuite(ctx, opts.Dir, runID, "verify", 0, scope.Targeted)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return c.finish(report, VerdictCancelled, 1)
		}
		return c.abort(report, err)
	}
	report.Checks = itemize(verify)

	if verify.Passed {
		c.logf("all targeted checks pass")
		return c.finish(report, VerdictSuccess, 0)
	}
	c.logf("checks still failing: %s", strings.Join(verify.FailingChecks(), ", "))
	return c.finish(report, VerdictFailed, 1)
}

// runSuite resolves check configs, runs the suite, and records each
// result to the activity log and artifact store.
func (c *Controller) runSuite(ctx context.Context, dir string, runID string, phase string, iteration int, names []string) (*checks.SuiteResult, error) {
	cfgs, err := c.checkConfigs(names)
	if err != nil {
		return nil, err
	}

	suite, results, runErr := c.Checker.RunSuite(ctx, dir, checks.SuiteOpts{
		Phase:     phase,
		Iteration: iteration,
		Checks:    cfgs,
	})

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		c.logf("[%s] %s: %s (%dms)", phase, r.CheckName, status, r.DurationMs)
		if c.Activity != nil {
			_ = c.Activity.LogCheckRun(runID, phase, iteration, r.CheckName, r.Passed, r.ExitCode, r.DurationMs, r.Summary, r.Findings)
		}
		if c.Store != nil {
			_ = c.Store.SaveCheckOutput(runID, phase, iteration, r)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return suite, runErr
		}
		return suite, fmt.Errorf("%w: %v", ErrRunnerUnavailable, runErr)
	}
	return suite, nil
}

// checkConfigs maps canonical check names onto the project's configured commands.
func (c *Controller) checkConfigs(names []string) ([]checks.SuiteCheckConfig, error) {
	cfgs := make([]checks.SuiteCheckConfig, 0, len(names))
	for _, name := range names {
		chk, ok := c.Config.Project.Checks[name]
		if !ok || chk.Command == "" {
			return nil, fmt.Errorf("%w: no command configured for check %q", ErrRunnerUnavailable, name)
		}
		cfgs = append(cfgs, checks.SuiteCheckConfig{
			Name:    name,
			Command: chk.Command,
			Parser:  chk.Parser,
			Timeout: config.ParseTimeout(chk.Timeout, 0),
		})
	}
	return cfgs, nil
}

// buildPrompt renders the agent prompt for the current state: the task
// template when a task was given, the check-fix template otherwise, plus
// skill instructions when the classifier tagged the task.
func (c *Controller) buildPrompt(dir string, task string, failureContext string, capability skills.Capability) (string, error) {
	var skillText string
	if capability == skills.CapVisualDesign {
		tmpl, err := prompt.Load("visual-design.md", dir)
		if err != nil {
			return "", fmt.Errorf("load skill template: %w", err)
		}
		skillText = tmpl
	}

	name := "fix-checks.md"
	if task != "" {
		name = "fix-task.md"
	}
	tmpl, err := prompt.Load(name, dir)
	if err != nil {
		return "", fmt.Errorf("load prompt template: %w", err)
	}

	rendered, err := prompt.Render(tmpl, prompt.Vars{
		"task":               task,
		"project_dir":        dir,
		"check_failures":     failureContext,
		"skill_instructions": skillText,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return rendered, nil
}

// finish records the verdict and returns the completed report.
func (c *Controller) finish(report *Report, verdict string, exitCode int) (*Report, error) {
	report.Verdict = verdict
	report.ExitCode = exitCode
	if c.Activity != nil {
		_ = c.Activity.FinishFixRun(report.RunID, verdict, report.Iterations, report.ExtraGranted)
	}
	if c.Store != nil {
		_ = c.Store.SaveReport(report.RunID, report)
	}
	return report, nil
}

// abort marks the run aborted in the activity log and propagates the fatal error.
func (c *Controller) abort(report *Report, err error) (*Report, error) {
	if c.Activity != nil {
		_ = c.Activity.FinishFixRun(report.RunID, "aborted", report.Iterations, report.ExtraGranted)
	}
	return nil, err
}

// formatFailures renders a suite's failures as markdown for the agent prompt.
func formatFailures(suite *checks.SuiteResult) string {
	if suite == nil || suite.Passed {
		return ""
	}
	var b strings.Builder
	for _, chk := range suite.Checks {
		if chk.Passed {
			continue
		}
		fail := suite.RemainingFailures[chk.Check]
		fmt.Fprintf(&b, "### %s\n%s\n", chk.Check, fail.Summary)
		if fail.Findings != "" && fail.Findings != "null" {
			fmt.Fprintf(&b, "```\n%s\n```\n", fail.Findings)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Progress != nil {
		fmt.Fprintf(c.Progress, format+"\n", args...)
	}
}
