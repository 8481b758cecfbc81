package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/go-workon/git-workon"
)

var (
	copyAuto    bool
	copyPattern []string
	copyForce   bool
)

var copyUntrackedCmd = &cobra.Command{
	Use:   "copy-untracked FROM TO",
	Short: "Copy untracked files matching workon.copyPattern from one worktree to another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEnv()
		repo, err := e.locateRepo()
		if err != nil {
			return err
		}
		cfg := workon.NewConfig(repo)

		fromDesc, err := workon.Find(e.ctx, repo, args[0])
		if err != nil {
			return err
		}
		if fromDesc == nil {
			return &workon.WorktreeError{Kind: "not_found", Name: args[0]}
		}
		toDesc, err := workon.Find(e.ctx, repo, args[1])
		if err != nil {
			return err
		}
		if toDesc == nil {
			return &workon.WorktreeError{Kind: "not_found", Name: args[1]}
		}

		return copyUntrackedFiles(e.ctx, cfg, fromDesc.Path, toDesc.Path, copyPattern, copyForce)
	},
}

// copyUntrackedFiles copies every file under from matching patterns (or
// workon.copyPattern when patterns is empty), skipping anything matching
// workon.copyExclude, into the same relative location under to.
func copyUntrackedFiles(ctx context.Context, cfg *workon.Config, from, to string, patterns []string, force bool) error {
	if len(patterns) == 0 {
		patterns = cfg.CopyPatterns(ctx)
	}
	excludes := cfg.CopyExcludes(ctx)

	excludeGlobs := compileGlobs(excludes)

	var copied int
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(from, pattern))
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, src := range matches {
			info, err := os.Stat(src)
			if err != nil || info.IsDir() {
				continue
			}

			rel, err := filepath.Rel(from, src)
			if err != nil {
				continue
			}
			if matchesAny(excludeGlobs, filepath.ToSlash(rel)) {
				continue
			}

			dest := filepath.Join(to, rel)
			if _, err := os.Stat(dest); err == nil && !force {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("create directory for %s: %w", rel, err)
			}
			if err := copyFile(src, dest); err != nil {
				return fmt.Errorf("copy %s: %w", rel, err)
			}
			copied++
		}
	}

	if copied == 0 {
		return nil
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func compileGlobs(patterns []string) []glob.Glob {
	var globs []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func init() {
	copyUntrackedCmd.Flags().BoolVar(&copyAuto, "auto", false, "use workon.copyPattern (also used whenever --pattern is not given)")
	copyUntrackedCmd.Flags().StringArrayVar(&copyPattern, "pattern", nil, "glob pattern to copy (repeatable); overrides workon.copyPattern")
	copyUntrackedCmd.Flags().BoolVar(&copyForce, "force", false, "overwrite files that already exist at the destination")
}
