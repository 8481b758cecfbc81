package workon

import (
	"context"
	"os"
	"path/filepath"
)

// BranchType is the creation intent passed to Add.
type BranchType int

const (
	// BranchNormal uses an existing local branch, else an existing
	// remote-tracking branch, else creates a new branch at base (or HEAD).
	BranchNormal BranchType = iota
	// BranchOrphan creates a new root-less branch with an empty tree and one
	// initial commit.
	BranchOrphan
	// BranchDetached checks out a commit without attaching a branch.
	BranchDetached
)

// Add creates a worktree + branch from base, according to kind, and returns
// its descriptor. The registry name is the basename of name; the filesystem
// path preserves any namespace slashes in name. If the target path or
// registry name already exists, Add fails without side effects; an existing
// local branch named name is checked out rather than rejected (BranchNormal).
func Add(ctx context.Context, repo *Repo, name string, kind BranchType, base string) (*WorktreeDescriptor, error) {
	registryName := filepath.Base(name)
	path := repo.WorktreePath(name)

	if _, err := os.Stat(path); err == nil {
		return nil, &WorktreeError{Kind: "target_exists", Name: name}
	}
	if existing, err := Find(ctx, repo, registryName); err == nil && existing != nil {
		return nil, &WorktreeError{Kind: "target_exists", Name: name}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &WorktreeError{Kind: "no_parent", Name: name}
	}

	bareDir := repo.BareDir()

	switch kind {
	case BranchOrphan:
		if _, err := repo.Git.Run(ctx, []string{"worktree", "add", "--orphan", "-b", name, path}, bareDir); err != nil {
			return nil, wrapGit("worktree add --orphan", err)
		}
		if _, err := repo.Git.Run(ctx, []string{"commit", "--allow-empty", "-m", "Initial commit"}, path); err != nil {
			return nil, wrapGit("commit", err)
		}

	case BranchDetached:
		target := base
		if target == "" {
			target = "HEAD"
		}
		if _, err := repo.Git.Run(ctx, []string{"worktree", "add", "--detach", path, target}, bareDir); err != nil {
			return nil, wrapGit("worktree add --detach", err)
		}

	default: // BranchNormal
		if err := addNormal(ctx, repo, name, path, base); err != nil {
			return nil, err
		}
	}

	return Find(ctx, repo, registryName)
}

func addNormal(ctx context.Context, repo *Repo, name, path, base string) error {
	bareDir := repo.BareDir()

	if branchExists(ctx, repo.Git, bareDir, "refs/heads/"+name) {
		_, err := repo.Git.Run(ctx, []string{"worktree", "add", path, name}, bareDir)
		return wrapGit("worktree add", err)
	}

	if branchExists(ctx, repo.Git, bareDir, "refs/remotes/origin/"+name) {
		_, err := repo.Git.Run(ctx, []string{
			"worktree", "add", "--track", "-b", name, path, "origin/" + name,
		}, bareDir)
		return wrapGit("worktree add --track", err)
	}

	target := base
	if target == "" {
		target = "HEAD"
	}
	_, err := repo.Git.Run(ctx, []string{"worktree", "add", "-b", name, path, target}, bareDir)
	if err != nil {
		return wrapGit("worktree add -b", err)
	}
	return nil
}

func branchExists(ctx context.Context, git GitRunner, dir, ref string) bool {
	_, err := git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", ref}, dir)
	return err == nil
}
