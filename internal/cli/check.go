package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calstone/remedy/internal/checks"
	"github.com/calstone/remedy/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run deterministic validation checks without the fix loop",
}

var checkRunCmd = &cobra.Command{
	Use:   "run [check-names...]",
	Short: "Run one or more checks in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		names := args
		if len(names) == 0 {
			names = checks.FullSuite()
		}
		for _, name := range names {
			if !checks.IsKnownCheck(name) {
				return fmt.Errorf("unknown check %q (expected build, lint, typecheck, or test)", name)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}

		var suiteChecks []checks.SuiteCheckConfig
		for _, name := range names {
			chk, ok := cfg.Project.Checks[name]
			if !ok || chk.Command == "" {
				return fmt.Errorf("check %q has no command configured", name)
			}
			suiteChecks = append(suiteChecks, checks.SuiteCheckConfig{
				Name:    name,
				Command: chk.Command,
				Parser:  chk.Parser,
				Timeout: config.ParseTimeout(chk.Timeout, 0),
			})
		}

		runner := checks.NewRunner(&checks.ExecRunner{})
		suite, _, err := runner.RunSuite(cmd.Context(), dir, checks.SuiteOpts{
			Phase:  "standalone",
			Checks: suiteChecks,
		})
		if err != nil {
			return fmt.Errorf("run checks: %w", err)
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			jsonStr, err := suite.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, jsonStr)
		} else {
			pass := color.New(color.FgGreen).SprintFunc()
			fail := color.New(color.FgRed).SprintFunc()
			for _, c := range suite.Checks {
				if c.Passed {
					fmt.Fprintf(w, "[%s] %s\n", pass("PASS"), c.Check)
				} else {
					fmt.Fprintf(w, "[%s] %s — %s\n", fail("FAIL"), c.Check, c.Summary)
				}
			}
		}

		if !suite.Passed {
			cmd.SilenceUsage = true
			return fmt.Errorf("%d check(s) failed", len(suite.RemainingFailures))
		}
		return nil
	},
}

func init() {
	checkRunCmd.Flags().String("format", "text", "Output format: text or json")
	checkCmd.AddCommand(checkRunCmd)
}
