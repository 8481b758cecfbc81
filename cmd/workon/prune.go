package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	pruneDryRun       bool
	pruneYes          bool
	pruneGone         bool
	pruneMerged       string
	pruneMergedSet    bool
	pruneAllowDirty   bool
	pruneAllowUnpushed bool
	pruneForce        bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune [NAMES...]",
	Short: "Remove worktrees whose branch is gone, merged, or explicitly named",
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}
		cfg := workon.NewConfig(repo)

		sel := workon.PruneSelection{
			Names: args,
			Gone:  pruneGone,
		}
		if pruneMergedSet {
			sel.MergedInto = pruneMerged
			if sel.MergedInto == "" {
				c := workon.NewConfig(repo)
				sel.MergedInto = c.DefaultBranch(e.ctx, "")
			}
			if sel.MergedInto == "" {
				sel.MergedInto, _ = workon.ResolveDefaultBranch(e.ctx, e.git, repo.BareDir(), "")
			}
		}
		filt := workon.PruneFilters{
			AllowDirty:    pruneAllowDirty,
			AllowUnpushed: pruneAllowUnpushed,
			Force:         pruneForce,
		}

		plan, err := workon.Plan(e.ctx, repo, cfg, currentWorktreePath(e), sel, filt)
		if err != nil {
			return err
		}

		for _, entry := range plan.Remove {
			e.out.Info(fmt.Sprintf("remove %s (%s)", entry.Descriptor.Name, entry.Reason))
		}
		for _, skip := range plan.Skip {
			e.out.Warn(fmt.Sprintf("skip %s (%s)", skip.Descriptor.Name, skip.Reason))
		}

		if len(plan.Remove) == 0 {
			e.out.Info("nothing to prune")
			return nil
		}

		if pruneDryRun {
			return nil
		}

		if !pruneYes && !confirm(fmt.Sprintf("remove %d worktree(s)? [y/N] ", len(plan.Remove))) {
			e.out.Info("aborted")
			return nil
		}

		result := workon.Execute(e.ctx, repo, plan)
		for _, name := range result.Removed {
			e.out.Success("removed " + name)
		}
		if len(result.Errors) > 0 {
			for name, err := range result.Errors {
				e.out.Error(fmt.Sprintf("%s: %v", name, err))
			}
			return fmt.Errorf("%d worktree(s) failed to prune", len(result.Errors))
		}
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "report what would be pruned without removing anything")
	pruneCmd.Flags().BoolVar(&pruneYes, "yes", false, "skip the confirmation prompt")
	pruneCmd.Flags().BoolVar(&pruneGone, "gone", false, "select worktrees whose upstream branch is gone")
	pruneCmd.Flags().BoolVar(&pruneAllowDirty, "allow-dirty", false, "allow pruning worktrees with uncommitted changes")
	pruneCmd.Flags().BoolVar(&pruneAllowUnpushed, "allow-unpushed", false, "allow pruning worktrees with unpushed commits")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "skip the protected-branch, dirty, and unpushed safety checks")

	mergedFlag := pruneCmd.Flags().VarPF(&mergedValue{}, "merged", "", "select worktrees merged into BRANCH (default branch if omitted)")
	mergedFlag.NoOptDefVal = " "
}

// mergedValue implements pflag.Value so `--merged` can be passed with or
// without an explicit BRANCH argument.
type mergedValue struct{}

func (m *mergedValue) String() string {
	return pruneMerged
}

func (m *mergedValue) Set(s string) error {
	pruneMergedSet = true
	pruneMerged = strings.TrimSpace(s)
	return nil
}

func (m *mergedValue) Type() string {
	return "string"
}
