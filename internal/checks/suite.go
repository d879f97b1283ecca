package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SuiteCheckResult holds the result of a single check within a suite run.
type SuiteCheckResult struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Summary string `json:"summary,omitempty"`
}

// Failure describes a remaining failure after a suite run.
type Failure struct {
	Summary  string `json:"summary"`
	Findings string `json:"findings,omitempty"`
}

// SuiteResult is the structured output of a suite run.
type SuiteResult struct {
	Phase             string             `json:"phase"`
	Iteration         int                `json:"iteration"`
	Passed            bool               `json:"passed"`
	Checks            []SuiteCheckResult `json:"checks"`
	RemainingFailures map[string]Failure `json:"remaining_failures,omitempty"`
}

// JSON returns the suite result as indented JSON.
func (s *SuiteResult) JSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FailingChecks returns the names of failing checks in run order.
func (s *SuiteResult) FailingChecks() []string {
	var names []string
	for _, c := range s.Checks {
		if !c.Passed {
			names = append(names, c.Check)
		}
	}
	return names
}

// SuiteOpts configures a suite run.
type SuiteOpts struct {
	Phase     string // "baseline", "interim", "final", "verify"
	Iteration int
	Checks    []SuiteCheckConfig
}

// SuiteCheckConfig holds the config for a single check within a suite.
type SuiteCheckConfig struct {
	Name    string
	Command string
	Parser  string
	Timeout time.Duration
}

// RunSuite executes the given checks in order and returns a structured
// result. All checks run even when earlier ones fail, so the result
// always itemizes every check. Each check result is also returned
// individually for activity logging. A non-nil error means a check
// command could not be executed at all; partial results accompany it.
func (r *Runner) RunSuite(ctx context.Context, dir string, opts SuiteOpts) (*SuiteResult, []*Result, error) {
	suite := &SuiteResult{
		Phase:             opts.Phase,
		Iteration:         opts.Iteration,
		Passed:            true,
		RemainingFailures: make(map[string]Failure),
	}

	var allResults []*Result

	for _, chk := range opts.Checks {
		cfg := CheckConfig{
			Name:    chk.Name,
			Command: chk.Command,
			Parser:  chk.Parser,
			Timeout: chk.Timeout,
		}

		result, err := r.Run(ctx, dir, cfg)
		if err != nil {
			return suite, allResults, fmt.Errorf("run check %q: %w", chk.Name, err)
		}
		allResults = append(allResults, result)

		suite.Checks = append(suite.Checks, SuiteCheckResult{
			Check:   chk.Name,
			Passed:  result.Passed,
			Summary: result.Summary,
		})

		if !result.Passed {
			suite.Passed = false
			suite.RemainingFailures[chk.Name] = Failure{
				Summary:  result.Summary,
				Findings: result.Findings,
			}
		}
	}

	return suite, allResults, nil
}
