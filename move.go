package workon

import (
	"context"
	"os"
	"path/filepath"
)

// MoveOptions controls a Move call. Force disables the full safety-check
// stack (everything except the IdenticalNames check, which is unconditional).
type MoveOptions struct {
	Force  bool
	DryRun bool
}

// MovePlan describes what Move would do (or did), for --dry-run reporting
// and for logging the real run.
type MovePlan struct {
	From, To         string
	FromPath, ToPath string
}

// Move atomically renames a worktree: its branch, its directory, and the
// bidirectional gitlink/gitdir registry metadata. With DryRun, only the
// precheck runs and no mutation occurs.
func Move(ctx context.Context, repo *Repo, cfg *Config, from, to string, opts MoveOptions) (*MovePlan, error) {
	if from == to {
		return nil, &WorktreeError{Kind: "identical_names", Name: from}
	}

	desc, err := Find(ctx, repo, filepath.Base(from))
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, &WorktreeError{Kind: "not_found", Name: from}
	}

	if !opts.Force {
		if err := precheckMove(ctx, repo, cfg, desc, to); err != nil {
			return nil, err
		}
	}

	plan := &MovePlan{
		From:     from,
		To:       to,
		FromPath: desc.Path,
		ToPath:   repo.WorktreePath(to),
	}
	if opts.DryRun {
		return plan, nil
	}

	return plan, executeMove(ctx, repo, desc.Branch, plan)
}

func precheckMove(ctx context.Context, repo *Repo, cfg *Config, desc *WorktreeDescriptor, to string) error {
	if desc.IsDetached() {
		return &WorktreeError{Kind: "cannot_move_detached", Name: desc.Name}
	}

	targetRegistryName := filepath.Base(to)
	targetPath := repo.WorktreePath(to)
	if _, err := os.Stat(targetPath); err == nil {
		return &WorktreeError{Kind: "target_exists", Name: to}
	}
	if existing, err := Find(ctx, repo, targetRegistryName); err == nil && existing != nil {
		return &WorktreeError{Kind: "target_exists", Name: to}
	}
	if branchExists(ctx, repo.Git, repo.BareDir(), "refs/heads/"+to) {
		return &WorktreeError{Kind: "target_exists", Name: to}
	}

	if cfg.IsProtected(ctx, desc.Branch) {
		return &WorktreeError{Kind: "protected_branch_move", Name: desc.Branch}
	}

	dirty, err := desc.IsDirty(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return &WorktreeError{Kind: "dirty_worktree", Name: desc.Name}
	}

	unpushed, err := desc.HasUnpushedCommits(ctx)
	if err != nil {
		return err
	}
	if unpushed {
		return &WorktreeError{Kind: "unpushed_commits", Name: desc.Name}
	}

	return nil
}

// executeMove performs the three-phase rename: branch, then directory (with
// rollback of the branch rename on failure), then the registry rewrite.
// Step-3 failures are not rolled back -- they leave a state doctor can
// detect and repair, per the documented rollback scope.
func executeMove(ctx context.Context, repo *Repo, branch string, plan *MovePlan) error {
	bareDir := repo.BareDir()

	if _, err := repo.Git.Run(ctx, []string{"branch", "-m", branch, plan.To}, bareDir); err != nil {
		return wrapGit("branch -m", err)
	}

	if err := os.Rename(plan.FromPath, plan.ToPath); err != nil {
		repo.Git.Run(ctx, []string{"branch", "-m", plan.To, branch}, bareDir)
		return wrapIO("rename worktree directory", err)
	}

	oldRegistryName := filepath.Base(plan.From)
	newRegistryName := filepath.Base(plan.To)
	registryDir := filepath.Join(bareDir, "worktrees", oldRegistryName)
	if newRegistryName != oldRegistryName {
		newRegistryDir := filepath.Join(bareDir, "worktrees", newRegistryName)
		if err := os.Rename(registryDir, newRegistryDir); err != nil {
			return wrapIO("rename worktree registry entry", err)
		}
		registryDir = newRegistryDir
	}

	if err := writeRegistryGitdir(filepath.Join(registryDir, "gitdir"), filepath.Join(plan.ToPath, ".git")); err != nil {
		return err
	}
	if err := writeGitlink(filepath.Join(plan.ToPath, ".git"), registryDir); err != nil {
		return err
	}

	return nil
}
