package fixer

import (
	"github.com/calstone/remedy/internal/checks"
	"github.com/calstone/remedy/internal/skills"
)

// CheckStatus is one check's final outcome in a report.
type CheckStatus struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Summary string `json:"summary,omitempty"`
}

// Report is the structured outcome of a fix run.
type Report struct {
	RunID        string            `json:"run_id"`
	Verdict      string            `json:"verdict"`
	ExitCode     int               `json:"exit_code"`
	Task         string            `json:"task,omitempty"`
	Scope        Scope             `json:"scope"`
	Agent        string            `json:"agent"`
	Capability   skills.Capability `json:"capability,omitempty"`
	Iterations   int               `json:"iterations"`
	ExtraGranted int               `json:"extra_granted"`
	Invocations  int               `json:"invocations"`
	Checks       []CheckStatus     `json:"checks"`
}

// itemize converts a suite result into report check statuses.
func itemize(suite *checks.SuiteResult) []CheckStatus {
	statuses := make([]CheckStatus, 0, len(suite.Checks))
	for _, c := range suite.Checks {
		statuses = append(statuses, CheckStatus{
			Check:   c.Check,
			Passed:  c.Passed,
			Summary: c.Summary,
		})
	}
	return statuses
}
