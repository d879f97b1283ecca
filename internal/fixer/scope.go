package fixer

import "github.com/calstone/remedy/internal/checks"

// Scope reasons.
const (
	ScopeTask          = "task"
	ScopePriorFailures = "prior-failures"
	ScopeFullScan      = "full-scan"
)

// Scope describes which checks a fix run targets and why. Targeted is
// the set re-verified after the loop to compute the final verdict.
type Scope struct {
	Reason   string   `json:"reason"`
	Baseline bool     `json:"baseline"` // run a baseline build check before the loop
	Targeted []string `json:"targeted"`
}

// ResolveScope implements the initial-scope policy:
//
//   - a task description targets the described issue, with a baseline
//     build check first;
//   - prior failures (without --scan) re-run only the failed checks;
//   - otherwise the full validation suite runs.
func ResolveScope(task string, priorFailures []string, scanRequested bool) Scope {
	if task != "" {
		return Scope{
			Reason:   ScopeTask,
			Baseline: true,
			Targeted: []string{checks.CheckBuild},
		}
	}

	if len(priorFailures) > 0 && !scanRequested {
		// Keep canonical suite order; drop names we don't recognize.
		prior := make(map[string]bool, len(priorFailures))
		for _, name := range priorFailures {
			prior[name] = true
		}
		var targeted []string
		for _, name := range checks.FullSuite() {
			if prior[name] {
				targeted = append(targeted, name)
			}
		}
		if len(targeted) > 0 {
			return Scope{Reason: ScopePriorFailures, Targeted: targeted}
		}
	}

	return Scope{Reason: ScopeFullScan, Targeted: checks.FullSuite()}
}
