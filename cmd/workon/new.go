package main

import (
	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	newBase            string
	newOrphan          bool
	newDetach          bool
	newCopyUntracked   bool
	newNoCopyUntracked bool
	newNoHooks         bool
)

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a new worktree, optionally from a pull request reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		e := newEnv()

		repo, err := e.locateRepo()
		if err != nil {
			return err
		}
		cfg := workon.NewConfig(repo)

		explicitKind := newOrphan || newDetach || newBase != ""

		var (
			branchName = name
			target     = newBase
			hookBase   = newBase
			kind       = workon.BranchNormal
		)
		if newOrphan {
			kind = workon.BranchOrphan
		} else if newDetach {
			kind = workon.BranchDetached
		}

		if !explicitKind {
			if pr, perr := workon.ParsePrReference(name); perr != nil {
				return perr
			} else if pr != nil {
				format, ferr := cfg.PrFormat(e.ctx, "")
				if ferr != nil {
					return ferr
				}
				worktreeName, remoteRef, baseRef, prepErr := workon.PreparePr(e.ctx, repo, e.gh, pr, format)
				if prepErr != nil {
					return prepErr
				}
				branchName = worktreeName
				target = remoteRef
				hookBase = baseRef
			}
		}

		desc, err := workon.Add(e.ctx, repo, branchName, kind, target)
		if err != nil {
			return err
		}

		if newCopyUntracked || (cfg.AutoCopyUntracked(e.ctx, copyOverride()) && !newNoCopyUntracked) {
			if cur := currentWorktreePath(e); cur != "" && cur != desc.Path {
				if cerr := copyUntrackedFiles(e.ctx, cfg, cur, desc.Path, nil, false); cerr != nil {
					e.out.Warn(cerr.Error())
				}
			}
		}

		runPostCreateHooks(e, repo, newNoHooks, desc.Path, desc.Branch, hookBase)

		printPath(desc.Path)
		return nil
	},
}

// copyOverride reconciles the two copy-untracked flags into the single
// *bool override Config.AutoCopyUntracked expects.
func copyOverride() *bool {
	if newCopyUntracked {
		t := true
		return &t
	}
	if newNoCopyUntracked {
		f := false
		return &f
	}
	return nil
}

func init() {
	newCmd.Flags().StringVar(&newBase, "base", "", "base branch or commit to create the new branch from")
	newCmd.Flags().BoolVar(&newOrphan, "orphan", false, "create a root-less branch with an empty tree")
	newCmd.Flags().BoolVar(&newDetach, "detach", false, "check out a commit without attaching a branch")
	newCmd.Flags().BoolVar(&newCopyUntracked, "copy-untracked", false, "copy untracked files from the current worktree")
	newCmd.Flags().BoolVar(&newNoCopyUntracked, "no-copy-untracked", false, "never copy untracked files, even if workon.autoCopyUntracked is set")
	newCmd.Flags().BoolVar(&newNoHooks, "no-hooks", false, "skip workon.postCreateHook")
	newCmd.MarkFlagsMutuallyExclusive("copy-untracked", "no-copy-untracked")
	newCmd.MarkFlagsMutuallyExclusive("orphan", "detach")
}
