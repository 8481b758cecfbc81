package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-workon/git-workon"
)

// setup creates a fresh workon repository rooted at a temp directory and
// returns a handle plus a context for the test to drive it with.
func setup(t *testing.T) (context.Context, *workon.Repo, *workon.DefaultGitRunner) {
	t.Helper()
	ctx := context.Background()
	git := &workon.DefaultGitRunner{}

	root := filepath.Join(t.TempDir(), "r")
	_, err := workon.Init(ctx, git, root)
	require.NoError(t, err)

	repo, err := workon.Locate(ctx, git, root)
	require.NoError(t, err)

	git.Run(ctx, []string{"config", "user.email", "test@test.com"}, repo.BareDir())
	git.Run(ctx, []string{"config", "user.name", "Test"}, repo.BareDir())

	return ctx, repo, git
}

func TestInitDefault(t *testing.T) {
	ctx, repo, git := setup(t)

	configData, err := os.ReadFile(filepath.Join(repo.BareDir(), "config"))
	require.NoError(t, err)
	require.Contains(t, string(configData), "bare = true")

	gitlink, err := os.ReadFile(repo.GitlinkPath())
	require.NoError(t, err)
	require.Equal(t, "gitdir: ./.bare\n", string(gitlink))

	cfg := workon.NewConfig(repo)
	defaultBranch := cfg.DefaultBranch(ctx, "")
	mainPath := repo.WorktreePath(defaultBranch)
	info, err := os.Stat(mainPath)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	desc, err := workon.Find(ctx, repo, defaultBranch)
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.False(t, desc.IsDetached())

	count, err := git.Run(ctx, []string{"rev-list", "--count", "--all"}, mainPath)
	require.NoError(t, err)
	require.Equal(t, "1\n", count.Stdout)

	msg, err := git.Run(ctx, []string{"log", "-1", "--format=%s"}, mainPath)
	require.NoError(t, err)
	require.Equal(t, "Initial commit\n", msg.Stdout)
}

func TestNamespacedNew(t *testing.T) {
	ctx, repo, _ := setup(t)

	desc, err := workon.Add(ctx, repo, "user/feature", workon.BranchNormal, "")
	require.NoError(t, err)

	expectedPath := repo.WorktreePath("user/feature")
	info, err := os.Stat(expectedPath)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, expectedPath, desc.Path)
	require.Equal(t, "user/feature", desc.Branch)
	require.Equal(t, "feature", desc.Name)

	_, err = os.Stat(filepath.Join(repo.BareDir(), "worktrees", "feature", "gitdir"))
	require.NoError(t, err)
}

func TestMoveBasic(t *testing.T) {
	ctx, repo, _ := setup(t)
	cfg := workon.NewConfig(repo)
	defaultBranch := cfg.DefaultBranch(ctx, "")
	mainPath := repo.WorktreePath(defaultBranch)

	plan, err := workon.Move(ctx, repo, cfg, defaultBranch, "bugfix", workon.MoveOptions{})
	require.NoError(t, err)
	require.Equal(t, repo.WorktreePath("bugfix"), plan.ToPath)

	_, err = os.Stat(mainPath)
	require.True(t, os.IsNotExist(err))

	info, err := os.Stat(plan.ToPath)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	desc, err := workon.Find(ctx, repo, "bugfix")
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.Equal(t, "bugfix", desc.Branch)

	oldDesc, err := workon.Find(ctx, repo, defaultBranch)
	require.NoError(t, err)
	require.Nil(t, oldDesc)

	registryGitdir := filepath.Join(repo.BareDir(), "worktrees", "bugfix", "gitdir")
	content, err := os.ReadFile(registryGitdir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(plan.ToPath, ".git")+"\n", string(content))

	backLink, err := os.ReadFile(filepath.Join(plan.ToPath, ".git"))
	require.NoError(t, err)
	require.Equal(t, "gitdir: "+filepath.Join(repo.BareDir(), "worktrees", "bugfix")+"\n", string(backLink))
}

func TestMoveDirtyBlocked(t *testing.T) {
	ctx, repo, _ := setup(t)
	cfg := workon.NewConfig(repo)
	defaultBranch := cfg.DefaultBranch(ctx, "")
	mainPath := repo.WorktreePath(defaultBranch)

	require.NoError(t, os.WriteFile(filepath.Join(mainPath, "x"), []byte("untracked"), 0o644))

	_, err := workon.Move(ctx, repo, cfg, defaultBranch, "bugfix", workon.MoveOptions{})
	require.Error(t, err)
	var wtErr *workon.WorktreeError
	require.ErrorAs(t, err, &wtErr)
	require.Equal(t, "dirty_worktree", wtErr.Kind)

	_, err = os.Stat(mainPath)
	require.NoError(t, err, "a blocked move must not mutate the repository")

	plan, err := workon.Move(ctx, repo, cfg, defaultBranch, "bugfix", workon.MoveOptions{Force: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(plan.ToPath, "x"))
	require.NoError(t, err)
	require.Equal(t, "untracked", string(data))
}

func TestPruneDeletedBranch(t *testing.T) {
	ctx, repo, git := setup(t)
	cfg := workon.NewConfig(repo)

	_, err := workon.Add(ctx, repo, "a", workon.BranchNormal, "")
	require.NoError(t, err)
	_, err = workon.Add(ctx, repo, "b", workon.BranchNormal, "")
	require.NoError(t, err)

	_, err = git.Run(ctx, []string{"update-ref", "-d", "refs/heads/b"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := workon.Plan(ctx, repo, cfg, "", workon.PruneSelection{}, workon.PruneFilters{})
	require.NoError(t, err)

	var removedNames []string
	for _, entry := range plan.Remove {
		removedNames = append(removedNames, entry.Descriptor.Name)
	}
	require.Contains(t, removedNames, "b")
	require.NotContains(t, removedNames, "a")

	result := workon.Execute(ctx, repo, plan)
	require.Empty(t, result.Errors)

	aDesc, err := workon.Find(ctx, repo, "a")
	require.NoError(t, err)
	require.NotNil(t, aDesc)
}

func TestPruneDeletedBranchDirtySkipped(t *testing.T) {
	ctx, repo, git := setup(t)
	cfg := workon.NewConfig(repo)

	bDesc, err := workon.Add(ctx, repo, "b", workon.BranchNormal, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(bDesc.Path, "x"), []byte("dirty"), 0o644))

	git.Run(ctx, []string{"update-ref", "-d", "refs/heads/b"}, repo.BareDir())

	plan, err := workon.Plan(ctx, repo, cfg, "", workon.PruneSelection{}, workon.PruneFilters{})
	require.NoError(t, err)

	var skippedNames []string
	for _, skip := range plan.Skip {
		skippedNames = append(skippedNames, skip.Descriptor.Name)
	}
	require.Contains(t, skippedNames, "b")

	planAllowDirty, err := workon.Plan(ctx, repo, cfg, "", workon.PruneSelection{}, workon.PruneFilters{AllowDirty: true})
	require.NoError(t, err)
	var removedNames []string
	for _, entry := range planAllowDirty.Remove {
		removedNames = append(removedNames, entry.Descriptor.Name)
	}
	require.Contains(t, removedNames, "b")
}

func TestPruneProtectedGlob(t *testing.T) {
	ctx, repo, git := setup(t)
	cfg := workon.NewConfig(repo)

	_, err := git.Run(ctx, []string{"config", "--add", "workon.pruneProtectedBranches", "release/*"}, repo.BareDir())
	require.NoError(t, err)

	_, err = workon.Add(ctx, repo, "release/1.0", workon.BranchNormal, "")
	require.NoError(t, err)
	_, err = workon.Add(ctx, repo, "feature/x", workon.BranchNormal, "")
	require.NoError(t, err)

	git.Run(ctx, []string{"update-ref", "-d", "refs/heads/release/1.0"}, repo.BareDir())
	git.Run(ctx, []string{"update-ref", "-d", "refs/heads/feature/x"}, repo.BareDir())

	plan, err := workon.Plan(ctx, repo, cfg, "", workon.PruneSelection{}, workon.PruneFilters{})
	require.NoError(t, err)

	removed := map[string]bool{}
	for _, entry := range plan.Remove {
		removed[entry.Descriptor.Name] = true
	}
	skipped := map[string]bool{}
	for _, skip := range plan.Skip {
		skipped[skip.Descriptor.Name] = true
	}
	require.True(t, skipped["1.0"])
	require.True(t, removed["x"])

	forcedPlan, err := workon.Plan(ctx, repo, cfg, "", workon.PruneSelection{}, workon.PruneFilters{Force: true})
	require.NoError(t, err)
	forcedRemoved := map[string]bool{}
	for _, entry := range forcedPlan.Remove {
		forcedRemoved[entry.Descriptor.Name] = true
	}
	require.True(t, forcedRemoved["1.0"])
	require.True(t, forcedRemoved["x"])
}

func TestDoctorRepairsMissingDirectory(t *testing.T) {
	ctx, repo, _ := setup(t)
	cfg := workon.NewConfig(repo)

	desc, err := workon.Add(ctx, repo, "gone", workon.BranchNormal, "")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(desc.Path))

	report, err := workon.Diagnose(ctx, repo, cfg)
	require.NoError(t, err)

	var found bool
	for _, issue := range report.Issues {
		if issue.Name == "gone" && issue.Kind == workon.IssueMissingDirectory {
			found = true
		}
	}
	require.True(t, found)

	fixed := workon.Repair(ctx, repo, report, false)
	require.Contains(t, fixed, "gone")

	after, err := workon.Find(ctx, repo, "gone")
	require.NoError(t, err)
	require.Nil(t, after)
}
