package agent

import (
	"fmt"
	"os/exec"
	"strings"
)

// knownAgents lists agent CLI binaries in detection preference order.
var knownAgents = []string{"claude", "codex", "aider", "cursor-agent"}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Detect probes PATH for a known agent CLI and returns the first one
// found. An explicit override (from --agent or config) short-circuits
// detection but is still verified against PATH.
func Detect(override string) (string, error) {
	if override != "" {
		if _, err := lookPath(override); err != nil {
			return "", fmt.Errorf("agent %q not found in PATH: %w", override, err)
		}
		return override, nil
	}

	for _, name := range knownAgents {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no coding agent found in PATH (looked for %s)", strings.Join(knownAgents, ", "))
}
