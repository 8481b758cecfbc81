package workon

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PullRequest is a parsed PR reference.
type PullRequest struct {
	Number int
	Remote string // "" unless the input named a remote explicitly (<remote>/pull/N/head)
}

// PrMetadata is PR metadata fetched from the hosting CLI.
type PrMetadata struct {
	Number    int
	Title     string
	Author    string
	HeadRef   string
	BaseRef   string
	IsFork    bool
	ForkOwner string
	ForkURL   string
}

var (
	reHash       = regexp.MustCompile(`^#(\d+)$`)
	reHashBad    = regexp.MustCompile(`^#(\S*)$`)
	rePrHash     = regexp.MustCompile(`(?i)^pr#(\d+)$`)
	rePrHashBad  = regexp.MustCompile(`(?i)^pr#(\S*)$`)
	rePrDash     = regexp.MustCompile(`(?i)^pr-(\d+)$`)
	rePrDashBad  = regexp.MustCompile(`(?i)^pr-(\S*)$`)
	rePullURL    = regexp.MustCompile(`/pull/(\d+)(?:/|$)`)
	rePullURLBad = regexp.MustCompile(`/pull/(\S*?)(?:/|$)`)
	reRemoteHead = regexp.MustCompile(`^([A-Za-z0-9._-]+)/pull/(\d+)/head$`)
)

// ParsePrReference parses a PR reference from user input. It returns
// (nil, nil) for input that is not PR-shaped at all, and a non-nil error
// only when the input looks like a PR reference but the number is malformed.
func ParsePrReference(input string) (*PullRequest, error) {
	if m := reRemoteHead.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[2])
		return &PullRequest{Number: n, Remote: m[1]}, nil
	}

	if m := reHash.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &PullRequest{Number: n}, nil
	}
	if reHashBad.MatchString(input) {
		return nil, &PrError{Kind: "invalid_reference", Input: input}
	}

	if m := rePrHash.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &PullRequest{Number: n}, nil
	}
	if rePrHashBad.MatchString(input) {
		return nil, &PrError{Kind: "invalid_reference", Input: input}
	}

	if m := rePrDash.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &PullRequest{Number: n}, nil
	}
	if rePrDashBad.MatchString(input) {
		return nil, &PrError{Kind: "invalid_reference", Input: input}
	}

	if strings.Contains(input, "/pull/") {
		if m := rePullURL.FindStringSubmatch(input); m != nil {
			n, _ := strconv.Atoi(m[1])
			return &PullRequest{Number: n}, nil
		}
		if rePullURLBad.MatchString(input) {
			return nil, &PrError{Kind: "invalid_reference", Input: input}
		}
	}

	return nil, nil
}

// PreparePr resolves a PR reference into a ready-to-use worktree: it fetches
// metadata from the hosting CLI, picks a remote to fetch from, fetches the
// head branch, and derives a worktree name from format.
func PreparePr(ctx context.Context, repo *Repo, gh GHRunner, pr *PullRequest, format string) (worktreeName, remoteRef, baseRef string, err error) {
	meta, err := FetchPRMetadata(ctx, gh, pr.Number, repo.BareDir())
	if err != nil {
		return "", "", "", err
	}

	remote := pr.Remote
	if remote == "" {
		remote, err = selectPrRemote(ctx, repo, meta)
		if err != nil {
			return "", "", "", err
		}
	}

	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", meta.HeadRef, remote, meta.HeadRef)
	if _, fetchErr := repo.Git.Run(ctx, []string{"fetch", remote, refspec}, repo.BareDir()); fetchErr != nil {
		return "", "", "", &PrError{Kind: "fetch_failed", Input: remote, Message: fetchErr.Error()}
	}

	name := templatePrName(format, meta)
	return name, remote + "/" + meta.HeadRef, meta.BaseRef, nil
}

// selectPrRemote implements the remote-selection order: a fork remote
// (created on demand) if the PR is from a fork, else "upstream", else
// "origin", else the first configured remote, else failure.
func selectPrRemote(ctx context.Context, repo *Repo, meta *PrMetadata) (string, error) {
	if meta.IsFork {
		if meta.ForkOwner == "" {
			return "", &PrError{Kind: "missing_fork_owner", Input: strconv.Itoa(meta.Number)}
		}
		name := fmt.Sprintf("pr-%d-fork", meta.Number)
		if !remoteConfigured(ctx, repo, name) {
			if meta.ForkURL == "" {
				return "", &PrError{Kind: "missing_fork_owner", Input: strconv.Itoa(meta.Number)}
			}
			if _, err := repo.Git.Run(ctx, []string{"remote", "add", name, meta.ForkURL}, repo.BareDir()); err != nil {
				return "", wrapGit("remote add", err)
			}
		}
		return name, nil
	}

	for _, candidate := range []string{"upstream", "origin"} {
		if remoteConfigured(ctx, repo, candidate) {
			return candidate, nil
		}
	}

	if first := firstRemote(ctx, repo); first != "" {
		return first, nil
	}

	return "", &PrError{Kind: "no_remote_configured"}
}

func remoteConfigured(ctx context.Context, repo *Repo, name string) bool {
	_, err := runTrimmed(ctx, repo.Git, repo.BareDir(), "remote", "get-url", name)
	return err == nil
}

func firstRemote(ctx context.Context, repo *Repo) string {
	out, err := runTrimmed(ctx, repo.Git, repo.BareDir(), "remote")
	if err != nil || out == "" {
		return ""
	}
	return strings.Fields(out)[0]
}

// templatePrName substitutes {number}/{title}/{author}/{branch} into format,
// sanitizing every non-numeric substitution to lowercase [a-z0-9_-]+.
func templatePrName(format string, meta *PrMetadata) string {
	name := format
	name = strings.ReplaceAll(name, "{number}", strconv.Itoa(meta.Number))
	name = strings.ReplaceAll(name, "{title}", sanitizeNameComponent(meta.Title))
	name = strings.ReplaceAll(name, "{author}", sanitizeNameComponent(meta.Author))
	name = strings.ReplaceAll(name, "{branch}", sanitizeNameComponent(meta.HeadRef))
	return name
}

var (
	reInvalidChars = regexp.MustCompile(`[^a-z0-9_-]+`)
	reDashRuns     = regexp.MustCompile(`-{2,}`)
)

func sanitizeNameComponent(s string) string {
	lower := strings.ToLower(s)
	replaced := reInvalidChars.ReplaceAllString(lower, "-")
	collapsed := reDashRuns.ReplaceAllString(replaced, "-")
	return strings.Trim(collapsed, "-_")
}
