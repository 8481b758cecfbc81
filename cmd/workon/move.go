package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	moveForce  bool
	moveDryRun bool
)

var moveCmd = &cobra.Command{
	Use:   "move [FROM] TO",
	Short: "Rename a worktree's branch, directory, and registry entry together",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}
		cfg := workon.NewConfig(repo)

		var from, to string
		if len(args) == 2 {
			from, to = args[0], args[1]
		} else {
			to = args[0]
			cur := currentWorktreePath(e)
			all, lerr := workon.List(e.ctx, repo)
			if lerr != nil {
				return lerr
			}
			for _, d := range all {
				if d.Path == cur {
					from = d.Name
					break
				}
			}
			if from == "" {
				return fmt.Errorf("could not determine the current worktree; pass FROM explicitly")
			}
		}

		plan, err := workon.Move(e.ctx, repo, cfg, from, to, workon.MoveOptions{
			Force:  moveForce,
			DryRun: moveDryRun,
		})
		if err != nil {
			return err
		}

		if moveDryRun {
			e.out.Info(fmt.Sprintf("would move %s -> %s", plan.FromPath, plan.ToPath))
			return nil
		}

		e.out.Success(fmt.Sprintf("moved %s -> %s", filepath.Base(plan.FromPath), filepath.Base(plan.ToPath)))
		printPath(plan.ToPath)
		return nil
	},
}

func init() {
	moveCmd.Flags().BoolVar(&moveForce, "force", false, "skip the dirty/unpushed/protected-branch safety checks")
	moveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "report what would happen without mutating anything")
}
