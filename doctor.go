package workon

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Issue kinds, stable across releases since doctor --json exposes them.
const (
	IssueMissingDirectory = "missing_directory"
	IssueBrokenGitLink    = "broken_git_link"
	IssueGoneUpstream     = "gone_upstream"
	IssueHookNotFound     = "hook_not_found"
	IssueGhNotFound       = "gh_not_found"
)

// Issue is one diagnosed problem, per worktree or global.
type Issue struct {
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Fixable bool   `json:"fixable"`
	Message string `json:"message"`
	Hook    string `json:"hook,omitempty"`
	Command string `json:"command,omitempty"`
}

// DoctorReport is the full diagnostic output.
type DoctorReport struct {
	Issues []Issue  `json:"issues"`
	Fixed  []string `json:"fixed"`
	DryRun bool     `json:"dry_run"`
}

// Diagnose inspects every registered worktree and a handful of global
// preconditions, returning every issue found. It never mutates the store.
func Diagnose(ctx context.Context, repo *Repo, cfg *Config) (*DoctorReport, error) {
	report := &DoctorReport{}

	bareDir := repo.BareDir()
	registryRoot := filepath.Join(bareDir, "worktrees")
	entries, err := os.ReadDir(registryRoot)
	if err != nil && !os.IsNotExist(err) {
		return nil, wrapIO("read worktree registry", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		report.Issues = append(report.Issues, diagnoseWorktree(ctx, repo, entry.Name())...)
	}

	if _, err := exec.LookPath("gh"); err != nil {
		report.Issues = append(report.Issues, Issue{
			Kind:    IssueGhNotFound,
			Fixable: false,
			Message: "gh CLI not found on PATH; PR-reference commands will fail",
		})
	}

	for _, hook := range cfg.PostCreateHooks(ctx) {
		fields := strings.Fields(hook)
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		if filepath.IsAbs(cmd) {
			if _, err := os.Stat(cmd); err == nil {
				continue
			}
		} else if _, err := exec.LookPath(cmd); err == nil {
			continue
		}
		report.Issues = append(report.Issues, Issue{
			Kind:    IssueHookNotFound,
			Fixable: false,
			Message: "postCreateHook command not found: " + cmd,
			Hook:    hook,
			Command: cmd,
		})
	}

	return report, nil
}

func diagnoseWorktree(ctx context.Context, repo *Repo, name string) []Issue {
	bareDir := repo.BareDir()
	registryDir := filepath.Join(bareDir, "worktrees", name)

	target, err := readRegistryGitdir(registryGitdirPath(bareDir, name))
	if err != nil {
		return []Issue{{
			Kind:    IssueBrokenGitLink,
			Name:    name,
			Fixable: false,
			Message: "registry entry has no readable gitdir file",
		}}
	}

	worktreePath := filepath.Dir(resolveGitdir(registryDir, target))
	if _, err := os.Stat(worktreePath); os.IsNotExist(err) {
		return []Issue{{
			Kind:    IssueMissingDirectory,
			Name:    name,
			Path:    worktreePath,
			Fixable: true,
			Message: "worktree directory is missing: " + worktreePath,
		}}
	}

	backTarget, err := readGitlink(filepath.Join(worktreePath, ".git"))
	if err != nil || resolveGitdir(worktreePath, backTarget) != registryDir {
		return []Issue{{
			Kind:    IssueBrokenGitLink,
			Name:    name,
			Path:    worktreePath,
			Fixable: false,
			Message: "worktree .git file does not point back to its registry entry",
		}}
	}

	var issues []Issue
	if desc, err := Find(ctx, repo, name); err == nil && desc != nil {
		if gone, _ := desc.HasGoneUpstream(ctx); gone {
			issues = append(issues, Issue{
				Kind:    IssueGoneUpstream,
				Name:    name,
				Path:    worktreePath,
				Fixable: false,
				Message: "upstream for " + desc.Branch + " no longer exists",
			})
		}
	}
	return issues
}

// Repair fixes every fixable issue in report (currently only
// MissingDirectory, by pruning the stale registry entry) and returns the
// names fixed. With dryRun, it reports what would be fixed without mutating.
func Repair(ctx context.Context, repo *Repo, report *DoctorReport, dryRun bool) []string {
	var fixed []string
	for _, issue := range report.Issues {
		if !issue.Fixable || issue.Kind != IssueMissingDirectory {
			continue
		}
		if dryRun {
			fixed = append(fixed, issue.Name)
			continue
		}
		if _, err := repo.Git.Run(ctx, []string{"worktree", "remove", "--force", issue.Path}, repo.BareDir()); err != nil {
			continue
		}
		fixed = append(fixed, issue.Name)
	}
	return fixed
}
