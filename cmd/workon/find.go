package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	findDirty        bool
	findNoInteractive bool
)

var findCmd = &cobra.Command{
	Use:   "find [NAME]",
	Short: "Locate a worktree and print its path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			desc, err := workon.Find(e.ctx, repo, args[0])
			if err != nil {
				return err
			}
			if desc == nil {
				return &workon.WorktreeError{Kind: "not_found", Name: args[0]}
			}
			printPath(desc.Path)
			return nil
		}

		all, err := workon.List(e.ctx, repo)
		if err != nil {
			return err
		}

		var candidates []*workon.WorktreeDescriptor
		for _, d := range all {
			if findDirty {
				dirty, _ := d.IsDirty(e.ctx)
				if !dirty {
					continue
				}
			}
			candidates = append(candidates, d)
		}

		if !findNoInteractive {
			e.out.Info("interactive selection is not supported in this environment; pass NAME or --no-interactive with a single matching candidate")
		}

		switch len(candidates) {
		case 0:
			return fmt.Errorf("no worktree matched the given filters")
		case 1:
			printPath(candidates[0].Path)
			return nil
		default:
			return fmt.Errorf("%d worktrees matched; narrow the filter or pass NAME", len(candidates))
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered worktree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}

		all, err := workon.List(e.ctx, repo)
		if err != nil {
			return err
		}

		for _, d := range all {
			branch := d.Branch
			if d.IsDetached() {
				branch = "(detached)"
			}
			line := fmt.Sprintf("%s  %s  %s", workon.Pad(d.Name, 24), workon.Pad(branch, 32), d.Path)
			e.out.Print(line)
		}
		return nil
	},
}

func init() {
	findCmd.Flags().BoolVar(&findDirty, "dirty", false, "only consider worktrees with uncommitted changes")
	findCmd.Flags().BoolVar(&findNoInteractive, "no-interactive", false, "fail instead of prompting when more than one worktree matches")
}
