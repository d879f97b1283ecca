package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "remedy",
	Short: "remedy — bounded fix loops for failing validation checks",
	Long: `remedy drives an external coding agent (claude, codex, aider, ...)
against deterministic validation checks (build, lint, typecheck, test)
in a bounded loop. The agent's claims are never trusted: the final
verdict always comes from re-running the checks.

State is stored in ~/.remedy/ (SQLite for the activity log, JSON and
raw output for per-run artifacts).`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
