package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var initNoHooks bool

var initCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Create a new bare-plus-worktrees repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		e := newEnv()
		path, err := workon.Init(e.ctx, e.git, root)
		if err != nil {
			return err
		}

		repo, err := workon.Locate(e.ctx, e.git, path)
		if err == nil {
			cfg := workon.NewConfig(repo)
			branch := cfg.DefaultBranch(e.ctx, "")
			runPostCreateHooks(e, repo, initNoHooks, path, branch, "")
		}

		printPath(path)
		return nil
	},
}

var cloneNoHooks bool

var cloneCmd = &cobra.Command{
	Use:   "clone URL [PATH]",
	Short: "Clone a remote repository into a bare-plus-worktrees layout",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		root := workon.GetRepoNameFromURL(url)
		if len(args) == 2 {
			root = args[1]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		e := newEnv()
		path, err := workon.Clone(e.ctx, e.git, root, url)
		if err != nil {
			return err
		}

		repo, err := workon.Locate(e.ctx, e.git, path)
		if err == nil {
			cfg := workon.NewConfig(repo)
			branch := cfg.DefaultBranch(e.ctx, "")
			runPostCreateHooks(e, repo, cloneNoHooks, path, branch, "")
		}

		printPath(path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initNoHooks, "no-hooks", false, "skip workon.postCreateHook")
	cloneCmd.Flags().BoolVar(&cloneNoHooks, "no-hooks", false, "skip workon.postCreateHook")
}
