package workon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitCreatesBareLayout(t *testing.T) {
	ctx := context.Background()
	git := &DefaultGitRunner{}
	root := filepath.Join(t.TempDir(), "r")

	path, err := Init(ctx, git, root)
	require.NoError(t, err)
	require.DirExists(t, path)

	repo := &Repo{Root: root, Git: git}
	require.DirExists(t, repo.BareDir())

	gitlink, err := os.ReadFile(repo.GitlinkPath())
	require.NoError(t, err)
	require.Equal(t, "gitdir: ./.bare\n", string(gitlink))

	cfg := NewConfig(repo)
	defaultBranch := cfg.DefaultBranch(ctx, "")
	require.NotEmpty(t, defaultBranch)
	require.Equal(t, repo.WorktreePath(defaultBranch), path)
}

func TestInitFailsWhenDefaultBranchPathIsTaken(t *testing.T) {
	ctx := context.Background()
	git := &DefaultGitRunner{}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main"), []byte("x"), 0o644))

	_, err := Init(ctx, git, root)
	require.Error(t, err, "a pre-existing file at the default branch's worktree path should block worktree creation")
}
