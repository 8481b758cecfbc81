// workon manages concurrent Git worktrees under a bare-plus-worktrees layout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workon",
	Short: "Manage concurrent Git worktrees under a bare-plus-worktrees layout",
	Long: `workon manages multiple concurrent working directories for a single
repository, under a bare store at <root>/.bare with each branch checked out
as a sibling directory <root>/<branch>.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(copyUntrackedCmd)
	rootCmd.AddCommand(shellInitCmd)
	rootCmd.AddCommand(completeCmd)
}

// env bundles the pieces every command needs: a git subprocess runner and
// status output. It is constructed fresh per invocation, never reused.
type env struct {
	ctx context.Context
	git *workon.DefaultGitRunner
	gh  *workon.DefaultGHRunner
	out *workon.Output
}

func newEnv() *env {
	return &env{
		ctx: context.Background(),
		git: &workon.DefaultGitRunner{},
		gh:  &workon.DefaultGHRunner{},
		out: workon.DefaultOutput(),
	}
}

// locateRepo discovers the workon repository containing the current
// directory.
func (e *env) locateRepo() (*workon.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return workon.Locate(e.ctx, e.git, cwd)
}

// currentWorktreePath returns the absolute path of the worktree the command
// was invoked from, used by safety checks that must never touch it. The
// command may be run from any subdirectory of the worktree, not just its
// root, so this resolves the enclosing worktree rather than using cwd
// itself.
func currentWorktreePath(e *env) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return workon.CurrentWorktreePath(e.ctx, e.git, cwd)
}

// printPath is the single place that writes to stdout for worktree-producing
// commands, per the CLI convention that stdout carries exactly one thing: the
// resulting absolute path.
func printPath(path string) {
	fmt.Println(path)
}

// runPostCreateHooks runs workon.postCreateHook unless noHooks is set,
// warning (not failing) on error.
func runPostCreateHooks(e *env, repo *workon.Repo, noHooks bool, worktreePath, branch, base string) {
	if noHooks {
		return
	}
	cfg := workon.NewConfig(repo)
	hooks := cfg.PostCreateHooks(e.ctx)
	if len(hooks) == 0 {
		return
	}
	if err := workon.RunHooks(e.ctx, hooks, worktreePath, branch, base, e.out); err != nil {
		e.out.Warn(err.Error())
	}
}
