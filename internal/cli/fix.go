package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calstone/remedy/internal/activity"
	"github.com/calstone/remedy/internal/agent"
	"github.com/calstone/remedy/internal/checks"
	"github.com/calstone/remedy/internal/config"
	"github.com/calstone/remedy/internal/fixer"
	"github.com/calstone/remedy/internal/git"
	"github.com/calstone/remedy/internal/runs"
)

var fixCmd = &cobra.Command{
	Use:   "fix [task]",
	Short: "Run the bounded fix loop",
	Long: `Run the fix loop in the current directory. With a task argument the
agent targets the described issue (after a baseline build check). With
no task, remedy re-runs the checks that failed last time, or the full
suite when there is no history or --scan is given.

Exit code 0 means every targeted check passed on final verification;
exit code 1 means failures remain after the iteration budget.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var task string
		if len(args) == 1 {
			task = args[0]
		}
		scan, _ := cmd.Flags().GetBool("scan")
		agentOverride, _ := cmd.Flags().GetString("agent")
		commit, _ := cmd.Flags().GetBool("commit")
		maxIters, _ := cmd.Flags().GetInt("max-iterations")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if agentOverride == "" {
			agentOverride = cfg.Project.Agent.Name
		}
		agentName, err := agent.Detect(agentOverride)
		if err != nil {
			return err
		}

		d, cleanup, err := openActivityDB()
		if err != nil {
			return err
		}
		defer cleanup()

		// History informs the default scope; losing it is not fatal.
		priorFailures, err := d.PriorFailures()
		if err != nil {
			priorFailures = nil
		}

		var store *runs.Store
		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			store = runs.NewStore(outputDir)
		} else {
			store, err = runs.DefaultStore()
			if err != nil {
				return err
			}
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}

		invoker := agent.NewExecInvoker(
			agentName,
			cfg.Project.Agent.Flags,
			config.ParseTimeout(cfg.Project.Agent.Timeout, 15*time.Minute),
		)

		ctrl := &fixer.Controller{
			Invoker:  invoker,
			Checker:  checks.NewRunner(&checks.ExecRunner{}),
			Config:   cfg,
			Activity: d,
			Store:    store,
			Progress: cmd.OutOrStdout(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := ctrl.Run(ctx, fixer.Opts{
			Dir:           dir,
			Task:          task,
			MaxIterations: maxIters,
			ScanRequested: scan,
			PriorFailures: priorFailures,
			AgentName:     agentName,
		})
		if err != nil {
			return err
		}

		printReport(cmd, report)

		if report.Verdict == fixer.VerdictSuccess && commit {
			if err := commitFixes(dir, report); err != nil {
				return err
			}
		}

		if report.ExitCode != 0 {
			cmd.SilenceUsage = true
			if report.Verdict == fixer.VerdictCancelled {
				return fmt.Errorf("fix run %s cancelled", report.RunID)
			}
			return fmt.Errorf("fix run %s failed: %d check(s) still failing", report.RunID, len(failingChecks(report)))
		}
		return nil
	},
}

// printReport writes the itemized per-check outcome and the verdict line.
func printReport(cmd *cobra.Command, report *fixer.Report) {
	w := cmd.OutOrStdout()
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w)
	for _, c := range report.Checks {
		if c.Passed {
			fmt.Fprintf(w, "[%s] %s\n", pass("PASS"), c.Check)
		} else {
			fmt.Fprintf(w, "[%s] %s — %s\n", fail("FAIL"), c.Check, c.Summary)
		}
	}

	fmt.Fprintf(w, "\nRun:        %s\n", report.RunID)
	fmt.Fprintf(w, "Iterations: %d", report.Iterations)
	if report.ExtraGranted > 0 {
		fmt.Fprintf(w, " (+%d extension)", report.ExtraGranted)
	}
	fmt.Fprintln(w)

	switch report.Verdict {
	case fixer.VerdictSuccess:
		fmt.Fprintf(w, "Verdict:    %s\n", pass("SUCCESS"))
	case fixer.VerdictCancelled:
		fmt.Fprintf(w, "Verdict:    %s\n", color.New(color.FgYellow).Sprint("CANCELLED"))
	default:
		fmt.Fprintf(w, "Verdict:    %s\n", fail("FAILED"))
	}
}

// commitFixes commits the agent's changes after a successful run.
func commitFixes(dir string, report *fixer.Report) error {
	dirty, err := git.HasUncommitted(dir)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	msg := "fix: resolve failing checks"
	if report.Task != "" {
		msg = "fix: " + report.Task
	}
	msg += "\n\nremedy run " + report.RunID
	return git.CommitAll(dir, msg)
}

func failingChecks(report *fixer.Report) []string {
	var names []string
	for _, c := range report.Checks {
		if !c.Passed {
			names = append(names, c.Check)
		}
	}
	return names
}

// openActivityDB opens and migrates the activity log, returning a cleanup func.
func openActivityDB() (*activity.DB, func(), error) {
	path, err := activity.DefaultDBPath()
	if err != nil {
		return nil, nil, err
	}
	d, err := activity.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, func() { d.Close() }, nil
}

func init() {
	fixCmd.Flags().Bool("scan", false, "Run the full validation suite regardless of history")
	fixCmd.Flags().String("agent", "", "Agent binary to use (default: config, then auto-detect)")
	fixCmd.Flags().Bool("commit", false, "Commit the changes after a successful run")
	fixCmd.Flags().Int("max-iterations", 0, "Iteration budget (default: config, then 3)")
	fixCmd.Flags().String("output-dir", "", "Directory for run artifacts (default ~/.remedy/runs)")
}
