package workon

import "fmt"

// RepoError reports a problem locating or opening a workon repository.
type RepoError struct {
	Kind string // "not_bare" | "not_found"
	Path string
}

func (e *RepoError) Error() string {
	switch e.Kind {
	case "not_bare":
		return fmt.Sprintf("%s is not a bare workon repository", e.Path)
	default:
		return fmt.Sprintf("no workon repository found at or above %s", e.Path)
	}
}

// WorktreeError reports a problem with a specific worktree operation.
type WorktreeError struct {
	Kind string
	Name string
}

func (e *WorktreeError) Error() string {
	switch e.Kind {
	case "invalid_git_file":
		return fmt.Sprintf("worktree %q has an invalid .git file", e.Name)
	case "not_found":
		return fmt.Sprintf("worktree %q not found", e.Name)
	case "no_branch_target":
		return fmt.Sprintf("could not resolve a branch target for %q", e.Name)
	case "no_parent":
		return fmt.Sprintf("could not create parent directory for worktree %q", e.Name)
	case "invalid_name":
		return fmt.Sprintf("%q is not a valid worktree name", e.Name)
	case "non_empty_index":
		return fmt.Sprintf("refusing to create initial commit on %q: index is not empty", e.Name)
	case "cannot_move_detached":
		return fmt.Sprintf("worktree %q has a detached HEAD and cannot be moved", e.Name)
	case "target_exists":
		return fmt.Sprintf("a worktree, branch, or path named %q already exists", e.Name)
	case "dirty_worktree":
		return fmt.Sprintf("worktree %q has uncommitted changes", e.Name)
	case "unpushed_commits":
		return fmt.Sprintf("worktree %q has unpushed commits", e.Name)
	case "protected_branch_move":
		return fmt.Sprintf("branch %q is protected and cannot be moved without --force", e.Name)
	case "identical_names":
		return "source and target names are identical"
	default:
		return fmt.Sprintf("worktree error on %q", e.Name)
	}
}

// ConfigError reports a problem with a workon.* configuration value.
type ConfigError struct {
	Kind  string
	Value string
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case "invalid_pr_format":
		return fmt.Sprintf("workon.prFormat %q must contain the literal \"{number}\"", e.Value)
	default:
		return fmt.Sprintf("no value configured for %q", e.Value)
	}
}

// DefaultBranchError reports a failure resolving the default branch.
type DefaultBranchError struct {
	Kind   string
	Remote string
}

func (e *DefaultBranchError) Error() string {
	switch e.Kind {
	case "no_remote_default":
		return fmt.Sprintf("remote %q did not advertise a default branch", e.Remote)
	case "not_connected":
		return fmt.Sprintf("could not connect to remote %q", e.Remote)
	default:
		return "could not determine a default branch"
	}
}

// PrError reports a failure resolving or preparing a pull-request reference.
type PrError struct {
	Kind    string
	Input   string
	Message string
}

func (e *PrError) Error() string {
	switch e.Kind {
	case "invalid_reference":
		return fmt.Sprintf("%q looks like a PR reference but is malformed", e.Input)
	case "gh_not_installed":
		return "the gh CLI is required for PR references but was not found on PATH"
	case "gh_fetch_failed":
		return fmt.Sprintf("gh failed to fetch PR metadata: %s", e.Message)
	case "gh_json_parse_failed":
		return fmt.Sprintf("could not parse gh CLI output: %s", e.Message)
	case "missing_fork_owner":
		return fmt.Sprintf("PR %s is from a fork but gh reported no fork owner", e.Input)
	case "no_remote_configured":
		return "no remote is configured to fetch this PR from (tried upstream, origin)"
	case "fetch_failed":
		return fmt.Sprintf("fetch from %s failed: %s", e.Input, e.Message)
	default:
		return fmt.Sprintf("pull request error: %s", e.Message)
	}
}

// wrapGit tags an underlying git-subprocess error for the UnderlyingKind(Git) taxonomy.
func wrapGit(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("git %s: %w", op, err)
}

// wrapIO tags an underlying filesystem error for the UnderlyingKind(Io) taxonomy.
func wrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
