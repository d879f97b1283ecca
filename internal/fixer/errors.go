package fixer

import "errors"

// ErrRunnerUnavailable marks a validation check command that could not
// be executed at all (missing tool, broken shell). This is fatal and
// aborts the loop immediately, unlike a check that ran and failed.
var ErrRunnerUnavailable = errors.New("validation runner unavailable")

// Verdicts for a completed fix run.
const (
	VerdictSuccess   = "success"
	VerdictFailed    = "failed"
	VerdictCancelled = "cancelled"
)
