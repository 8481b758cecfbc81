package workon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Init creates a fresh bare-plus-worktrees repository at root: an ordinary
// repository with one empty-tree initial commit, then finalized into the
// bare layout with an initial worktree for the default branch.
func Init(ctx context.Context, git GitRunner, root string) (string, error) {
	defaultBranch := resolveFromConfig(ctx, git, "")

	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", wrapIO("create "+root, err)
	}

	if _, err := git.Run(ctx, []string{"init", "-b", defaultBranch}, root); err != nil {
		return "", wrapGit("init", err)
	}

	if staged, _ := runTrimmed(ctx, git, root, "diff", "--cached", "--name-only"); staged != "" {
		return "", &WorktreeError{Kind: "non_empty_index", Name: defaultBranch}
	}

	if _, err := git.Run(ctx, []string{"commit", "--allow-empty", "-m", "Initial commit"}, root); err != nil {
		return "", wrapGit("commit", err)
	}

	repo := &Repo{Root: root, Git: git}
	return finalize(ctx, repo, defaultBranch)
}

// Clone clones url as a bare repository under root (appending ".bare" unless
// the caller already did) and finalizes it into the bare-plus-worktrees
// layout.
func Clone(ctx context.Context, git GitRunner, root, url string) (string, error) {
	bareDir := root
	if filepath.Base(bareDir) != ".bare" {
		bareDir = filepath.Join(root, ".bare")
	}

	defaultBranch, resolveErr := ResolveDefaultBranch(ctx, git, "", url)

	if err := os.MkdirAll(filepath.Dir(bareDir), 0o755); err != nil {
		return "", wrapIO("create "+root, err)
	}

	args := []string{"clone", "--bare"}
	if resolveErr == nil && defaultBranch != "" {
		args = append(args, "--single-branch", "-b", defaultBranch)
	}
	args = append(args, url, bareDir)
	if _, err := git.Run(ctx, args, ""); err != nil {
		return "", wrapGit("clone", err)
	}

	if resolveErr != nil || defaultBranch == "" {
		defaultBranch = resolveFromConfig(ctx, git, bareDir)
	}

	repo := &Repo{Root: root, Git: git}
	return finalize(ctx, repo, defaultBranch)
}

// finalize converts repo's gitdir into <root>/.bare (renaming it there if
// it isn't already), writes the root gitlink, installs the general fetch
// refspec, records defaultBranch as workon.defaultBranch, and creates the
// initial worktree for defaultBranch.
//
// Step order (core.bare, then rename, then gitlink, then refspec, then
// workon.defaultBranch, then worktree) keeps the blast radius of a crash small: a partially finalized
// repository is always diagnosable by doctor rather than silently corrupt.
func finalize(ctx context.Context, repo *Repo, defaultBranch string) (string, error) {
	bareDir := repo.BareDir()
	plainGitDir := filepath.Join(repo.Root, ".git")

	if info, err := os.Stat(plainGitDir); err == nil && info.IsDir() {
		if _, err := repo.Git.Run(ctx, []string{"config", "core.bare", "true"}, plainGitDir); err != nil {
			return "", wrapGit("config core.bare", err)
		}
		if err := os.Rename(plainGitDir, bareDir); err != nil {
			return "", wrapIO("rename .git to .bare", err)
		}
	}

	if err := writeGitlink(repo.GitlinkPath(), "./.bare"); err != nil {
		return "", err
	}

	if _, err := repo.Git.Run(ctx, []string{
		"config", "remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*",
	}, bareDir); err != nil {
		return "", wrapGit("config remote.origin.fetch", err)
	}

	if _, err := repo.Git.Run(ctx, []string{"config", "workon.defaultBranch", defaultBranch}, bareDir); err != nil {
		return "", wrapGit("config workon.defaultBranch", err)
	}

	desc, err := Add(ctx, repo, defaultBranch, BranchNormal, "")
	if err != nil {
		return "", fmt.Errorf("create initial worktree for %s: %w", defaultBranch, err)
	}
	return desc.Path, nil
}
