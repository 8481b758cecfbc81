package workon

import (
	"context"
	"strings"
)

// ResolveDefaultBranch determines the repository's default branch.
//
// With remote set, it opens a fetch-direction connection (git ls-remote
// --symref, which performs the same handshake as a fetch without
// transferring objects), requires that the connection succeeds, reads the
// advertised symbolic HEAD, and strips the leading "refs/heads/". Without a
// remote, it falls back to the locally configured init.defaultBranch, and
// finally to "main" -- this path never fails, matching the invariant that
// default-branch resolution is always deterministic.
func ResolveDefaultBranch(ctx context.Context, git GitRunner, dir, remote string) (string, error) {
	if remote != "" {
		return resolveFromRemote(ctx, git, dir, remote)
	}
	return resolveFromConfig(ctx, git, dir), nil
}

func resolveFromRemote(ctx context.Context, git GitRunner, dir, remote string) (string, error) {
	res, err := git.Run(ctx, []string{"ls-remote", "--symref", remote, "HEAD"}, dir)
	if err != nil {
		return "", &DefaultBranchError{Kind: "not_connected", Remote: remote}
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[0] != "ref:" || fields[2] != "HEAD" {
			continue
		}
		return strings.TrimPrefix(fields[1], "refs/heads/"), nil
	}
	return "", &DefaultBranchError{Kind: "no_remote_default", Remote: remote}
}

func resolveFromConfig(ctx context.Context, git GitRunner, dir string) string {
	val, err := runTrimmed(ctx, git, dir, "config", "--get", "init.defaultBranch")
	if err != nil || val == "" {
		return "main"
	}
	return val
}
