package workon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Repo is a handle on a workon repository: the root directory containing
// .bare, the .git gitlink, and every worktree directory. It carries no
// cached state -- every operation re-reads the store.
type Repo struct {
	Root string
	Git  GitRunner
}

// BareDir is the absolute path to the bare store.
func (r *Repo) BareDir() string {
	return filepath.Join(r.Root, ".bare")
}

// GitlinkPath is the absolute path to the root gitlink file.
func (r *Repo) GitlinkPath() string {
	return filepath.Join(r.Root, ".git")
}

// WorktreePath returns the absolute path a worktree named path (which may
// contain namespace slashes) would live at.
func (r *Repo) WorktreePath(path string) string {
	return filepath.Join(r.Root, filepath.FromSlash(path))
}

// Locate walks upward from start looking for a bare workon repository: a
// directory containing both .bare and a .git gitlink naming it. If the
// directory found first is a worktree view (a .git file pointing somewhere
// under a sibling .bare's worktrees/ registry) it resolves to that
// repository's root instead of failing.
func Locate(ctx context.Context, git GitRunner, start string) (*Repo, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, wrapIO("resolve start directory", err)
	}

	for {
		gitPath := filepath.Join(dir, ".git")
		info, statErr := os.Lstat(gitPath)
		if statErr == nil {
			if info.IsDir() {
				// An ordinary (non-worktree) repository -- never bare in the
				// sense this tool requires.
				return nil, &RepoError{Kind: "not_bare", Path: dir}
			}
			target, linkErr := readGitlink(gitPath)
			if linkErr != nil {
				return nil, linkErr
			}
			resolved := resolveGitdir(dir, target)
			if root := rootFromWorktreeGitdir(resolved); root != "" {
				return &Repo{Root: root, Git: git}, nil
			}
			return nil, &RepoError{Kind: "not_bare", Path: dir}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, &RepoError{Kind: "not_found", Path: start}
		}
		dir = parent
	}
}

// readGitlink reads a "gitdir: <path>" file and returns the target path.
func readGitlink(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapIO("read "+path, err)
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", &WorktreeError{Kind: "invalid_git_file", Name: path}
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
}

// writeGitlink writes a "gitdir: <target>\n" file at path.
func writeGitlink(path, target string) error {
	content := "gitdir: " + filepath.ToSlash(target) + "\n"
	return wrapIO("write "+path, os.WriteFile(path, []byte(content), 0o644))
}

// readRegistryGitdir reads a registry gitdir file, i.e.
// <bare>/worktrees/<name>/gitdir. Unlike the worktree-facing and root .git
// files, this one (as written by `git worktree add` itself) holds just the
// bare absolute path to the worktree's .git file -- no "gitdir:" prefix.
func readRegistryGitdir(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapIO("read "+path, err)
	}
	line := strings.TrimSpace(string(data))
	if line == "" {
		return "", &WorktreeError{Kind: "invalid_git_file", Name: path}
	}
	return line, nil
}

// writeRegistryGitdir writes a registry gitdir file as a raw absolute path
// (no "gitdir:" prefix), matching the format `git worktree add` produces.
func writeRegistryGitdir(path, target string) error {
	content := filepath.ToSlash(target) + "\n"
	return wrapIO("write "+path, os.WriteFile(path, []byte(content), 0o644))
}

func resolveGitdir(base, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(base, target))
}

// rootFromWorktreeGitdir recognizes gitdir targets of the two shapes this
// tool produces: "<root>/.bare" (the top-level gitlink) and
// "<root>/.bare/worktrees/<name>" (a per-worktree registry entry). It
// returns the repository root, or "" if target doesn't match either shape.
func rootFromWorktreeGitdir(target string) string {
	clean := filepath.Clean(target)
	if filepath.Base(clean) == ".bare" {
		return filepath.Dir(clean)
	}
	parent := filepath.Dir(clean)
	if filepath.Base(parent) == "worktrees" {
		bare := filepath.Dir(parent)
		if filepath.Base(bare) == ".bare" {
			return filepath.Dir(bare)
		}
	}
	return ""
}

// registryGitdirPath is <bare>/worktrees/<name>/gitdir.
func registryGitdirPath(bareDir, name string) string {
	return filepath.Join(bareDir, "worktrees", name, "gitdir")
}

// CurrentWorktreePath resolves the absolute path of the worktree enclosing
// cwd -- not just cwd itself, since the command may be invoked from any
// subdirectory of a worktree's tree, not only its root. It returns "" if cwd
// isn't inside any working tree (e.g. it's the bare store itself).
func CurrentWorktreePath(ctx context.Context, git GitRunner, cwd string) string {
	top, err := runTrimmed(ctx, git, cwd, "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return filepath.Clean(top)
}
