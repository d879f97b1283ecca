package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past fix runs, or the check history of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := openActivityDB()
		if err != nil {
			return err
		}
		defer cleanup()

		w := cmd.OutOrStdout()

		if len(args) == 1 {
			runID := args[0]
			run, err := d.GetFixRun(runID)
			if err != nil {
				return fmt.Errorf("get fix run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("no fix run with id %q", runID)
			}

			fmt.Fprintf(w, "Run:        %s\n", run.ID)
			if run.Task != "" {
				fmt.Fprintf(w, "Task:       %s\n", run.Task)
			}
			fmt.Fprintf(w, "Scope:      %s\n", strings.Join(run.Scope, ", "))
			fmt.Fprintf(w, "Agent:      %s\n", run.Agent)
			fmt.Fprintf(w, "Verdict:    %s\n", run.Verdict)
			fmt.Fprintf(w, "Iterations: %d", run.Iterations)
			if run.ExtraGranted > 0 {
				fmt.Fprintf(w, " (+%d extension)", run.ExtraGranted)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Started:    %s\n", run.StartedAt)
			if run.FinishedAt != "" {
				fmt.Fprintf(w, "Finished:   %s\n", run.FinishedAt)
			}

			history, err := d.GetCheckHistory(runID)
			if err != nil {
				return fmt.Errorf("get check history: %w", err)
			}
			if len(history) == 0 {
				return nil
			}

			fmt.Fprintf(w, "\n%-10s %-4s %-10s %-6s %-8s %s\n",
				"PHASE", "ITER", "CHECK", "RESULT", "DURATION", "SUMMARY")
			fmt.Fprintf(w, "%s\n", strings.Repeat("-", 72))
			for _, r := range history {
				result := "FAIL"
				if r.Passed {
					result = "PASS"
				}
				fmt.Fprintf(w, "%-10s %-4d %-10s %-6s %-8s %s\n",
					r.Phase, r.Iteration, r.CheckName, result,
					fmt.Sprintf("%dms", r.DurationMs), r.Summary)
			}
			return nil
		}

		fixRuns, err := d.ListFixRuns()
		if err != nil {
			return fmt.Errorf("list fix runs: %w", err)
		}
		if len(fixRuns) == 0 {
			fmt.Fprintln(w, "No fix runs found.")
			return nil
		}

		fmt.Fprintf(w, "%-27s %-10s %-5s %-20s %s\n",
			"RUN", "VERDICT", "ITERS", "STARTED", "TASK")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 88))
		for _, r := range fixRuns {
			verdict := r.Verdict
			if verdict == "" {
				verdict = "running"
			}
			task := r.Task
			if task == "" {
				task = "(" + strings.Join(r.Scope, ",") + ")"
			}
			fmt.Fprintf(w, "%-27s %-10s %-5d %-20s %s\n",
				r.ID, verdict, r.Iterations, r.StartedAt, task)
		}
		return nil
	},
}
