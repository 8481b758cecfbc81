package workon

import "context"

// Prune reasons a worktree was selected for removal.
const (
	ReasonDeletedBranch = "deleted_branch"
	ReasonGoneUpstream  = "gone_upstream"
	ReasonMergedInto    = "merged_into"
	ReasonNamed         = "named"
)

// PruneSelection chooses which worktrees are candidates for pruning. If
// Names is non-empty, only those registry names are considered (the "named"
// selector); otherwise candidates are every worktree whose local branch has
// been deleted, plus the union of whichever filters below are enabled.
type PruneSelection struct {
	Names      []string
	Gone       bool
	MergedInto string // "" disables the merged-into filter
}

// PruneFilters controls the safety-filter stack's exceptions.
type PruneFilters struct {
	AllowDirty    bool
	AllowUnpushed bool
	Force         bool
}

// PruneEntry is one worktree the plan will remove.
type PruneEntry struct {
	Descriptor *WorktreeDescriptor
	Reason     string
}

// PruneSkip is one worktree the plan will leave alone, and why.
type PruneSkip struct {
	Descriptor *WorktreeDescriptor
	Reason     string
}

// PrunePlan is the pure output of Plan: nothing is mutated until Execute runs.
type PrunePlan struct {
	Remove []PruneEntry
	Skip   []PruneSkip
}

// Plan selects candidates per sel, applies the safety filter stack, and
// returns a plan. currentPath identifies the worktree the command is being
// run from, which is never prunable.
func Plan(ctx context.Context, repo *Repo, cfg *Config, currentPath string, sel PruneSelection, filt PruneFilters) (*PrunePlan, error) {
	all, err := List(ctx, repo)
	if err != nil {
		return nil, err
	}

	defaultBranch := resolveFromConfig(ctx, repo.Git, repo.BareDir())

	type candidate struct {
		desc   *WorktreeDescriptor
		reason string
	}
	var candidates []candidate

	if len(sel.Names) > 0 {
		wanted := make(map[string]bool, len(sel.Names))
		for _, n := range sel.Names {
			wanted[n] = true
		}
		for _, d := range all {
			if wanted[d.Name] {
				candidates = append(candidates, candidate{d, ReasonNamed})
			}
		}
	} else {
		for _, d := range all {
			reason := ""
			if d.Branch != "" && !branchExists(ctx, repo.Git, repo.BareDir(), "refs/heads/"+d.Branch) {
				reason = ReasonDeletedBranch
			} else if sel.Gone {
				if gone, _ := d.HasGoneUpstream(ctx); gone {
					reason = ReasonGoneUpstream
				}
			}
			if reason == "" && sel.MergedInto != "" {
				if merged, _ := d.IsMergedInto(ctx, sel.MergedInto); merged {
					reason = ReasonMergedInto
				}
			}
			if reason != "" {
				candidates = append(candidates, candidate{d, reason})
			}
		}
	}

	plan := &PrunePlan{}
	for _, c := range candidates {
		d := c.desc

		if d.Path == currentPath {
			plan.Skip = append(plan.Skip, PruneSkip{d, "current worktree"})
			continue
		}
		if d.Branch == defaultBranch && c.reason != ReasonNamed {
			plan.Skip = append(plan.Skip, PruneSkip{d, "default branch worktree"})
			continue
		}
		if !filt.Force && cfg.IsProtected(ctx, d.Branch) {
			plan.Skip = append(plan.Skip, PruneSkip{d, "protected"})
			continue
		}
		if dirty, _ := d.IsDirty(ctx); dirty && !filt.AllowDirty && !filt.Force {
			plan.Skip = append(plan.Skip, PruneSkip{d, "uncommitted changes"})
			continue
		}
		if c.reason == ReasonGoneUpstream && !filt.AllowUnpushed && !filt.Force {
			if unpushed, _ := d.HasUnpushedCommits(ctx); unpushed {
				plan.Skip = append(plan.Skip, PruneSkip{d, "unpushed commits"})
				continue
			}
		}

		plan.Remove = append(plan.Remove, PruneEntry{d, c.reason})
	}

	return plan, nil
}

// PruneResult carries per-worktree execution errors; execution is isolated
// per worktree so one failure doesn't abort the rest of the plan.
type PruneResult struct {
	Removed []string
	Errors  map[string]error
}

// Execute removes every worktree in plan.Remove, deleting its branch
// afterward (the deleted-branch selector already implies the branch is
// gone; the gone/merged-into selectors delete it as part of execution).
func Execute(ctx context.Context, repo *Repo, plan *PrunePlan) *PruneResult {
	result := &PruneResult{Errors: map[string]error{}}
	bareDir := repo.BareDir()

	for _, entry := range plan.Remove {
		d := entry.Descriptor
		if _, err := repo.Git.Run(ctx, []string{"worktree", "remove", "--force", d.Path}, bareDir); err != nil {
			result.Errors[d.Name] = wrapGit("worktree remove", err)
			continue
		}
		if d.Branch != "" {
			repo.Git.Run(ctx, []string{"branch", "-D", d.Branch}, bareDir)
		}
		result.Removed = append(result.Removed, d.Name)
	}

	return result
}
