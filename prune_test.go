package workon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanSelectsDeletedBranch(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)
	_, err := Add(ctx, repo, "a", BranchNormal, "")
	require.NoError(t, err)
	_, err = Add(ctx, repo, "b", BranchNormal, "")
	require.NoError(t, err)

	_, err = repo.Git.Run(ctx, []string{"update-ref", "-d", "refs/heads/b"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{})
	require.NoError(t, err)
	require.Len(t, plan.Remove, 1)
	require.Equal(t, "b", plan.Remove[0].Descriptor.Name)
	require.Equal(t, ReasonDeletedBranch, plan.Remove[0].Reason)
}

func TestPlanSkipsCurrentAndDefaultBranch(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)
	mainDesc, err := Find(ctx, repo, "main")
	require.NoError(t, err)
	require.NotNil(t, mainDesc)

	_, err = repo.Git.Run(ctx, []string{"update-ref", "-d", "refs/heads/main"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := Plan(ctx, repo, cfg, mainDesc.Path, PruneSelection{}, PruneFilters{})
	require.NoError(t, err)
	require.Empty(t, plan.Remove)

	var reasons []string
	for _, skip := range plan.Skip {
		reasons = append(reasons, skip.Reason)
	}
	require.Contains(t, reasons, "current worktree")
}

func TestPlanNamedSelectorIgnoresSafetyDefaultBranchSkip(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)

	plan, err := Plan(ctx, repo, cfg, "", PruneSelection{Names: []string{"main"}}, PruneFilters{})
	require.NoError(t, err)
	require.Len(t, plan.Remove, 1)
	require.Equal(t, ReasonNamed, plan.Remove[0].Reason)
}

func TestPlanDirtySkippedUnlessAllowedOrForced(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)
	desc, err := Add(ctx, repo, "b", BranchNormal, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(desc.Path, "x"), []byte("dirty"), 0o644))
	_, err = repo.Git.Run(ctx, []string{"update-ref", "-d", "refs/heads/b"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{})
	require.NoError(t, err)
	require.Empty(t, plan.Remove)
	require.Len(t, plan.Skip, 1)
	require.Equal(t, "uncommitted changes", plan.Skip[0].Reason)

	planDirty, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{AllowDirty: true})
	require.NoError(t, err)
	require.Len(t, planDirty.Remove, 1)

	planForced, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{Force: true})
	require.NoError(t, err)
	require.Len(t, planForced.Remove, 1)
}

func TestPlanProtectedSkippedUnlessForced(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)
	_, err := repo.Git.Run(ctx, []string{"config", "--add", "workon.pruneProtectedBranches", "release/*"}, repo.BareDir())
	require.NoError(t, err)

	_, err = Add(ctx, repo, "release/1.0", BranchNormal, "")
	require.NoError(t, err)
	_, err = repo.Git.Run(ctx, []string{"update-ref", "-d", "refs/heads/release/1.0"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{})
	require.NoError(t, err)
	require.Empty(t, plan.Remove)
	require.Equal(t, "protected", plan.Skip[0].Reason)

	forced, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{Force: true})
	require.NoError(t, err)
	require.Len(t, forced.Remove, 1)
}

func TestExecuteRemovesWorktreeAndBranch(t *testing.T) {
	ctx, repo := newAddTestRepo(t)
	cfg := NewConfig(repo)
	_, err := Add(ctx, repo, "b", BranchNormal, "")
	require.NoError(t, err)
	_, err = repo.Git.Run(ctx, []string{"update-ref", "-d", "refs/heads/b"}, repo.BareDir())
	require.NoError(t, err)

	plan, err := Plan(ctx, repo, cfg, "", PruneSelection{}, PruneFilters{})
	require.NoError(t, err)

	result := Execute(ctx, repo, plan)
	require.Empty(t, result.Errors)
	require.Equal(t, []string{"b"}, result.Removed)

	desc, err := Find(ctx, repo, "b")
	require.NoError(t, err)
	require.Nil(t, desc)
}
