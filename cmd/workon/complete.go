package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var completeIndex int

// completeCmd is a minimal completion backend for the shell-init wrapper
// functions: it lists subcommand names and, unconditionally, every
// registered worktree name, letting the shell filter candidates by prefix
// itself rather than trying to replicate cobra's argument-position logic.
var completeCmd = &cobra.Command{
	Use:    "_complete",
	Short:  "Internal completion backend for shell-init",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dashIdx := cmd.ArgsLenAtDash()
		wordArgs := args
		if dashIdx >= 0 {
			wordArgs = args[dashIdx:]
		}

		if completeIndex <= 1 || len(wordArgs) <= 1 {
			for _, c := range rootCmd.Commands() {
				if c.Hidden {
					continue
				}
				fmt.Println(c.Name())
			}
		}

		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return nil
		}
		all, err := workon.List(e.ctx, repo)
		if err != nil {
			return nil
		}
		for _, d := range all {
			fmt.Println(d.Name)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().IntVar(&completeIndex, "index", 0, "0-based word index the shell is completing")
	completeCmd.Flags().SetInterspersed(false)
}
