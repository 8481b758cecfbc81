package workon

import (
	"context"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// Config is a typed, read-only view over the workon.* namespace of a
// repository's git config. Every getter re-reads the store: config is cheap
// to query and may change between calls (another process editing
// .bare/config, for instance), so nothing here is cached.
type Config struct {
	git GitRunner
	dir string // directory git config is invoked from (the bare dir)
}

// NewConfig returns a Config bound to repo's bare store.
func NewConfig(repo *Repo) *Config {
	return &Config{git: repo.Git, dir: repo.BareDir()}
}

// getOne returns the last value of a single-value config key, or "" if unset.
// git itself applies last-value-wins when a key is repeated, so a plain
// "git config --get" already implements the precedence this getter needs.
func (c *Config) getOne(ctx context.Context, key string) string {
	val, err := runTrimmed(ctx, c.git, c.dir, "config", "--get", key)
	if err != nil {
		return ""
	}
	return val
}

// getAll returns every value of a multi-value config key, in file order. A
// missing key returns an empty slice, never an error.
func (c *Config) getAll(ctx context.Context, key string) []string {
	out, err := runTrimmed(ctx, c.git, c.dir, "config", "--get-all", key)
	if err != nil || out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// DefaultBranch returns workon.defaultBranch, or "" if unconfigured.
func (c *Config) DefaultBranch(ctx context.Context, override string) string {
	if override != "" {
		return override
	}
	return c.getOne(ctx, "workon.defaultBranch")
}

// PrFormat returns workon.prFormat (default "pr-{number}"), applying the
// override > configured > default precedence and validating the "{number}"
// placeholder on whichever source wins.
func (c *Config) PrFormat(ctx context.Context, override string) (string, error) {
	format := override
	if format == "" {
		format = c.getOne(ctx, "workon.prFormat")
	}
	if format == "" {
		format = "pr-{number}"
	}
	if !strings.Contains(format, "{number}") {
		return "", &ConfigError{Kind: "invalid_pr_format", Value: format}
	}
	return format, nil
}

// AutoCopyUntracked returns workon.autoCopyUntracked, defaulting to false.
func (c *Config) AutoCopyUntracked(ctx context.Context, override *bool) bool {
	if override != nil {
		return *override
	}
	b, err := strconv.ParseBool(c.getOne(ctx, "workon.autoCopyUntracked"))
	if err != nil {
		return false
	}
	return b
}

// PostCreateHooks returns workon.postCreateHook entries in declaration order.
func (c *Config) PostCreateHooks(ctx context.Context) []string {
	return c.getAll(ctx, "workon.postCreateHook")
}

// CopyPatterns returns workon.copyPattern entries.
func (c *Config) CopyPatterns(ctx context.Context) []string {
	return c.getAll(ctx, "workon.copyPattern")
}

// CopyExcludes returns workon.copyExclude entries.
func (c *Config) CopyExcludes(ctx context.Context) []string {
	return c.getAll(ctx, "workon.copyExclude")
}

// ProtectedBranchPatterns returns workon.pruneProtectedBranches entries.
func (c *Config) ProtectedBranchPatterns(ctx context.Context) []string {
	return c.getAll(ctx, "workon.pruneProtectedBranches")
}

// IsProtected reports whether branch matches any configured protected-branch
// glob. Patterns match across "/" because branch names routinely carry
// namespace slashes (e.g. release/1.0).
func (c *Config) IsProtected(ctx context.Context, branch string) bool {
	return matchAny(c.ProtectedBranchPatterns(ctx), branch)
}

// matchAny reports whether name matches any of the shell-style glob
// patterns. A malformed pattern is skipped rather than aborting the whole
// check, but it must never be treated as matching everything.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(name) {
			return true
		}
	}
	return false
}
