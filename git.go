package workon

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
)

// CmdResult holds command execution results.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// GitRunner executes git commands. All plumbing in this package -- ref reads
// and writes, the worktree registry, index/status scans, branch rename, and
// remote fetch -- goes through this single seam so tests can substitute a
// fake runner without a real git binary.
type GitRunner interface {
	Run(ctx context.Context, args []string, dir string) (*CmdResult, error)
}

// DefaultGitRunner implements GitRunner using os/exec and a real git binary.
// Credential handling for fetch is done by setting GIT_TERMINAL_PROMPT=0 so a
// missing credential fails fast instead of blocking on a prompt; an askpass
// helper can be layered on by setting GIT_ASKPASS in the environment before
// invoking commands that fetch.
type DefaultGitRunner struct{}

// Run executes a git command rooted at dir (the empty string uses the
// current working directory).
func (r *DefaultGitRunner) Run(ctx context.Context, args []string, dir string) (*CmdResult, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")

	stdout, err := cmd.Output()
	result := &CmdResult{Stdout: string(stdout)}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.Stderr = string(exitErr.Stderr)
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}

	return result, err
}

// runTrimmed runs a git command and returns its trimmed stdout.
func runTrimmed(ctx context.Context, git GitRunner, dir string, args ...string) (string, error) {
	res, err := git.Run(ctx, args, dir)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// GetRepoNameFromURL extracts the repository name from a clone URL, used to
// derive the default root directory name for `clone`.
func GetRepoNameFromURL(url string) string {
	if strings.HasPrefix(url, "git@") {
		parts := strings.Split(url, ":")
		if len(parts) >= 2 {
			path := parts[len(parts)-1]
			return strings.TrimSuffix(filepath.Base(path), ".git")
		}
	}

	path := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		path = url[idx+1:]
	}
	return strings.TrimSuffix(path, ".git")
}
