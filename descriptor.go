package workon

import (
	"context"
	"path/filepath"
	"strings"
)

// WorktreeDescriptor is a derived, read-only view of one registered
// worktree. It is never cached across an operation: every method re-queries
// the store, because the underlying repository can change between calls
// (another terminal deleting a ref, for instance).
type WorktreeDescriptor struct {
	repo *Repo

	// Name is the registry name (basename of Branch, or of Path when detached).
	Name string
	// Path is the absolute worktree directory.
	Path string
	// Branch is the full branch name (may contain namespace slashes), or ""
	// when HEAD is detached.
	Branch string
	// Commit is the worktree's HEAD commit, 40-hex.
	Commit string
	// Detached is true when HEAD does not point to a branch.
	Detached bool
}

// List enumerates every worktree registered against repo, including the
// bare store's own entry, which is skipped.
func List(ctx context.Context, repo *Repo) ([]*WorktreeDescriptor, error) {
	res, err := repo.Git.Run(ctx, []string{"worktree", "list", "--porcelain"}, repo.BareDir())
	if err != nil {
		return nil, wrapGit("worktree list", err)
	}
	return parseWorktreeList(repo, res.Stdout), nil
}

// parseWorktreeList parses the output of `git worktree list --porcelain`.
func parseWorktreeList(repo *Repo, output string) []*WorktreeDescriptor {
	var descriptors []*WorktreeDescriptor
	var current *WorktreeDescriptor
	isBare := false

	flush := func() {
		if current != nil && !isBare {
			descriptors = append(descriptors, current)
		}
		current = nil
		isBare = false
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			path := strings.TrimPrefix(line, "worktree ")
			current = &WorktreeDescriptor{
				repo: repo,
				Path: path,
				Name: filepath.Base(path),
			}
		case line == "bare":
			isBare = true
		case strings.HasPrefix(line, "HEAD "):
			if current != nil {
				current.Commit = strings.TrimPrefix(line, "HEAD ")
			}
		case strings.HasPrefix(line, "branch "):
			if current != nil {
				branch := strings.TrimPrefix(line, "branch ")
				branch = strings.TrimPrefix(branch, "refs/heads/")
				current.Branch = branch
				current.Name = filepath.Base(branch)
			}
		case line == "detached":
			if current != nil {
				current.Detached = true
			}
		case line == "":
			// section separator, nothing to do until the next "worktree " line
		}
	}
	flush()
	return descriptors
}

// Find returns the descriptor for the worktree whose registry name or full
// branch name matches name, or nil if none matches.
func Find(ctx context.Context, repo *Repo, name string) (*WorktreeDescriptor, error) {
	all, err := List(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, d := range all {
		if d.Name == name || d.Branch == name {
			return d, nil
		}
	}
	return nil, nil
}

// HeadCommit is the descriptor's cached HEAD commit from the registry scan.
func (d *WorktreeDescriptor) HeadCommit() string {
	return d.Commit
}

// IsDetached reports whether HEAD does not point to a branch.
func (d *WorktreeDescriptor) IsDetached() bool {
	return d.Detached
}

// IsDirty reports whether the worktree has any change to tracked files or
// untracked non-ignored files.
func (d *WorktreeDescriptor) IsDirty(ctx context.Context) (bool, error) {
	res, err := d.repo.Git.Run(ctx, []string{"status", "--porcelain"}, d.Path)
	if err != nil {
		return false, wrapGit("status", err)
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// upstreamRef returns the "remote merge" pair configured for the branch, or
// ("", "") if no upstream is configured.
func (d *WorktreeDescriptor) upstreamRef(ctx context.Context) (remote, merge string) {
	if d.Branch == "" {
		return "", ""
	}
	remote = d.gitConfigGet(ctx, "branch."+d.Branch+".remote")
	merge = d.gitConfigGet(ctx, "branch."+d.Branch+".merge")
	return remote, strings.TrimPrefix(merge, "refs/heads/")
}

func (d *WorktreeDescriptor) gitConfigGet(ctx context.Context, key string) string {
	val, err := runTrimmed(ctx, d.repo.Git, d.Path, "config", "--get", key)
	if err != nil {
		return ""
	}
	return val
}

// remoteTrackingRef is refs/remotes/<remote>/<merge>.
func (d *WorktreeDescriptor) remoteTrackingRef(ctx context.Context) (ref string, ok bool) {
	remote, merge := d.upstreamRef(ctx)
	if remote == "" || merge == "" {
		return "", false
	}
	return "refs/remotes/" + remote + "/" + merge, true
}

// HasGoneUpstream reports whether an upstream is configured but its
// remote-tracking ref no longer exists locally.
func (d *WorktreeDescriptor) HasGoneUpstream(ctx context.Context) (bool, error) {
	ref, ok := d.remoteTrackingRef(ctx)
	if !ok {
		return false, nil
	}
	_, err := d.repo.Git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", ref}, d.Path)
	return err != nil, nil
}

// HasUnpushedCommits reports whether the branch has an upstream and HEAD is
// not an ancestor of the upstream tip. An upstream configured with a missing
// remote-tracking ref is treated conservatively as having unpushed commits.
func (d *WorktreeDescriptor) HasUnpushedCommits(ctx context.Context) (bool, error) {
	ref, ok := d.remoteTrackingRef(ctx)
	if !ok {
		return false, nil
	}
	_, err := d.repo.Git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", ref}, d.Path)
	if err != nil {
		return true, nil
	}
	_, ancestorErr := d.repo.Git.Run(ctx, []string{"merge-base", "--is-ancestor", "HEAD", ref}, d.Path)
	return ancestorErr != nil, nil
}

// IsBehindUpstream reports whether the upstream tip is reachable from HEAD's
// ancestors and differs from HEAD.
func (d *WorktreeDescriptor) IsBehindUpstream(ctx context.Context) (bool, error) {
	ref, ok := d.remoteTrackingRef(ctx)
	if !ok {
		return false, nil
	}
	res, err := d.repo.Git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", ref}, d.Path)
	if err != nil {
		return false, nil
	}
	upstreamCommit := strings.TrimSpace(res.Stdout)
	if upstreamCommit == d.Commit {
		return false, nil
	}
	_, err = d.repo.Git.Run(ctx, []string{"merge-base", "--is-ancestor", ref, "HEAD"}, d.Path)
	return err != nil, nil
}

// IsMergedInto reports whether target exists, target != self, and this
// descriptor's HEAD is an ancestor of (or equal to) target's HEAD.
func (d *WorktreeDescriptor) IsMergedInto(ctx context.Context, target string) (bool, error) {
	if target == "" || target == d.Branch {
		return false, nil
	}
	targetRef := resolveLocalOrRemoteBranch(ctx, d.repo.Git, d.repo.BareDir(), target)
	if targetRef == "" {
		return false, nil
	}
	_, err := d.repo.Git.Run(ctx, []string{"merge-base", "--is-ancestor", "HEAD", targetRef}, d.Path)
	return err == nil, nil
}

// Remote is the remote name configured as this branch's upstream.
func (d *WorktreeDescriptor) Remote(ctx context.Context) string {
	remote, _ := d.upstreamRef(ctx)
	return remote
}

// RemoteBranch is the branch name on the configured upstream remote.
func (d *WorktreeDescriptor) RemoteBranch(ctx context.Context) string {
	_, merge := d.upstreamRef(ctx)
	return merge
}

// RemoteURL is the fetch URL of the configured upstream remote.
func (d *WorktreeDescriptor) RemoteURL(ctx context.Context) string {
	remote := d.Remote(ctx)
	if remote == "" {
		return ""
	}
	url, err := runTrimmed(ctx, d.repo.Git, d.Path, "remote", "get-url", remote)
	if err != nil {
		return ""
	}
	return url
}

// resolveLocalOrRemoteBranch resolves branch to a ref name that exists in
// the store, preferring a local branch over a remote-tracking one.
func resolveLocalOrRemoteBranch(ctx context.Context, git GitRunner, dir, branch string) string {
	local := "refs/heads/" + branch
	if _, err := git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", local}, dir); err == nil {
		return local
	}
	remote := "refs/remotes/origin/" + branch
	if _, err := git.Run(ctx, []string{"rev-parse", "--verify", "--quiet", remote}, dir); err == nil {
		return remote
	}
	return ""
}
