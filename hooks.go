package workon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// RunHooks runs each workon.postCreateHook command in order inside
// worktreePath, with WORKON_WORKTREE_PATH/WORKON_BRANCH_NAME/WORKON_BASE_BRANCH
// set in its environment. A non-zero exit aborts the remaining chain and
// returns an error; the caller treats this as a warning, not a fatal failure.
func RunHooks(ctx context.Context, commands []string, worktreePath, branchName, baseBranch string, output *Output) error {
	env := os.Environ()
	env = append(env, "WORKON_WORKTREE_PATH="+worktreePath)
	if branchName != "" {
		env = append(env, "WORKON_BRANCH_NAME="+branchName)
	}
	if baseBranch != "" {
		env = append(env, "WORKON_BASE_BRANCH="+baseBranch)
	}

	shellProgram, shellFlag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shellProgram, shellFlag = "cmd", "/C"
	}

	for _, cmdStr := range commands {
		output.Info("Running: " + cmdStr)

		cmd := exec.CommandContext(ctx, shellProgram, shellFlag, cmdStr)
		cmd.Dir = worktreePath
		cmd.Env = env
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			exitCode := -1
			if exitErr, ok := err.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
			}
			return fmt.Errorf("post-create hook %q exited %d: %w", cmdStr, exitCode, err)
		}
	}

	return nil
}
