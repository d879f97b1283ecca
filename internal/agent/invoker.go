package agent

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Request holds the payload for one agent invocation.
type Request struct {
	Prompt string
	Dir    string
}

// Result is the agent's reported outcome. Success reflects the agent's
// own exit status; the caller must not trust it as proof the underlying
// problem is fixed.
type Result struct {
	Success bool
	Output  string
}

// Invoker runs the external coding agent. Invoke blocks until the agent
// completes or fails; no partial results are consumed mid-call. A
// non-nil error means the agent could not be run at all; an agent that
// ran and exited non-zero is reported as Success=false with nil error.
// Cancellation of ctx surfaces as an error wrapping context.Canceled.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
}

// ExecInvoker invokes an agent CLI as a subprocess in non-interactive mode.
type ExecInvoker struct {
	Binary  string
	Flags   []string
	Timeout time.Duration // per-invocation bound; 0 = no timeout
}

// NewExecInvoker creates an ExecInvoker for the given agent binary.
// flags is a space-separated string of extra flags from config.
func NewExecInvoker(binary string, flags string, timeout time.Duration) *ExecInvoker {
	inv := &ExecInvoker{Binary: binary, Timeout: timeout}
	if flags != "" {
		inv.Flags = strings.Fields(flags)
	}
	return inv
}

func (e *ExecInvoker) Invoke(ctx context.Context, req Request) (*Result, error) {
	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string{}, e.Flags...)
	args = append(args, promptArgs(e.Binary, req.Prompt)...)

	cmd := exec.CommandContext(runCtx, e.Binary, args...)
	cmd.Dir = req.Dir

	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("agent %s: %w", e.Binary, context.Canceled)
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return &Result{Success: false, Output: out.String()}, nil
		}
		// Timeout or failure to start the process.
		return nil, fmt.Errorf("invoke agent %s: %w", e.Binary, err)
	}

	return &Result{Success: true, Output: out.String()}, nil
}

// promptArgs returns the non-interactive prompt arguments for a known
// agent binary. Unknown agents get the prompt as a bare argument.
func promptArgs(binary string, prompt string) []string {
	switch binary {
	case "claude", "cursor-agent":
		return []string{"-p", prompt}
	case "codex":
		return []string{"exec", prompt}
	case "aider":
		return []string{"--yes", "--message", prompt}
	default:
		return []string{prompt}
	}
}
