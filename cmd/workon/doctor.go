package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	doctorFix    bool
	doctorDryRun bool
	doctorJSON   bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose (and optionally repair) problems in the worktree registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}
		cfg := workon.NewConfig(repo)

		report, err := workon.Diagnose(e.ctx, repo, cfg)
		if err != nil {
			return err
		}
		report.DryRun = doctorDryRun

		if doctorFix || doctorDryRun {
			report.Fixed = workon.Repair(e.ctx, repo, report, doctorDryRun)
		}

		if doctorJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		if len(report.Issues) == 0 {
			e.out.Success("no issues found")
			return nil
		}
		for _, issue := range report.Issues {
			label := issue.Kind
			if issue.Name != "" {
				label = issue.Name + ": " + issue.Message
			} else {
				label = issue.Message
			}
			if issue.Fixable {
				e.out.Warn(label + " (fixable)")
			} else {
				e.out.Warn(label)
			}
		}
		for _, name := range report.Fixed {
			if doctorDryRun {
				e.out.Info("would fix " + name)
			} else {
				e.out.Success("fixed " + name)
			}
		}
		if !doctorFix {
			fmt.Fprintln(os.Stderr, "run with --fix to repair fixable issues")
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "repair fixable issues")
	doctorCmd.Flags().BoolVar(&doctorDryRun, "dry-run", false, "report what --fix would repair without mutating anything")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "emit the report as JSON on stdout")
}
