package workon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAddTestRepo(t *testing.T) (context.Context, *Repo) {
	t.Helper()
	ctx := context.Background()
	git := &DefaultGitRunner{}
	root := t.TempDir()

	_, err := git.Run(ctx, []string{"init", "-b", "main"}, root)
	require.NoError(t, err)
	git.Run(ctx, []string{"config", "user.email", "t@t.com"}, root)
	git.Run(ctx, []string{"config", "user.name", "T"}, root)
	_, err = git.Run(ctx, []string{"commit", "--allow-empty", "-m", "init"}, root)
	require.NoError(t, err)

	bare := filepath.Join(root, ".bare")
	require.NoError(t, os.Rename(filepath.Join(root, ".git"), bare))
	require.NoError(t, writeGitlink(filepath.Join(root, ".git"), "./.bare"))

	return ctx, &Repo{Root: root, Git: git}
}

func TestAddNormalCreatesNewBranch(t *testing.T) {
	ctx, repo := newAddTestRepo(t)

	desc, err := Add(ctx, repo, "feature", BranchNormal, "")
	require.NoError(t, err)
	require.Equal(t, "feature", desc.Branch)
	require.DirExists(t, desc.Path)
	require.False(t, desc.IsDetached())
}

func TestAddNamespacedPreservesSlashes(t *testing.T) {
	ctx, repo := newAddTestRepo(t)

	desc, err := Add(ctx, repo, "team/feature", BranchNormal, "")
	require.NoError(t, err)
	require.Equal(t, "team/feature", desc.Branch)
	require.Equal(t, "feature", desc.Name)
	require.Equal(t, repo.WorktreePath("team/feature"), desc.Path)
}

func TestAddOrphanCreatesEmptyInitialCommit(t *testing.T) {
	ctx, repo := newAddTestRepo(t)

	desc, err := Add(ctx, repo, "scratch", BranchOrphan, "")
	require.NoError(t, err)

	res, err := repo.Git.Run(ctx, []string{"log", "--oneline"}, desc.Path)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(res.Stdout), "\n"), 1)
}

func TestAddDetachedHasNoBranch(t *testing.T) {
	ctx, repo := newAddTestRepo(t)

	desc, err := Add(ctx, repo, "snapshot", BranchDetached, "main")
	require.NoError(t, err)
	require.True(t, desc.IsDetached())
	require.Empty(t, desc.Branch)
}

func TestAddFailsWhenTargetExists(t *testing.T) {
	ctx, repo := newAddTestRepo(t)

	_, err := Add(ctx, repo, "feature", BranchNormal, "")
	require.NoError(t, err)

	_, err = Add(ctx, repo, "feature", BranchNormal, "")
	require.Error(t, err)
	var wtErr *WorktreeError
	require.ErrorAs(t, err, &wtErr)
	require.Equal(t, "target_exists", wtErr.Kind)
}

