package workon

import "testing"

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /tmp/r/.bare
bare

worktree /tmp/r/main
HEAD 443ed549b71db99c6e24cb93b2cb8c2079033f67
branch refs/heads/main

worktree /tmp/r/feature
HEAD 0000000000000000000000000000000000000000
detached

worktree /tmp/r/user/feature
HEAD abc1234000000000000000000000000000000000
branch refs/heads/user/feature
`
	repo := &Repo{Root: "/tmp/r"}
	descs := parseWorktreeList(repo, output)

	if len(descs) != 3 {
		t.Fatalf("got %d descriptors, want 3 (bare entry must be skipped)", len(descs))
	}

	if descs[0].Name != "main" || descs[0].Branch != "main" || descs[0].Detached {
		t.Errorf("unexpected main descriptor: %+v", descs[0])
	}
	if !descs[1].Detached || descs[1].Branch != "" {
		t.Errorf("expected detached descriptor with no branch, got %+v", descs[1])
	}
	if descs[2].Branch != "user/feature" || descs[2].Name != "feature" {
		t.Errorf("expected namespaced branch to keep full branch but basename registry name, got %+v", descs[2])
	}
}

func TestParseWorktreeListEmpty(t *testing.T) {
	repo := &Repo{Root: "/tmp/r"}
	descs := parseWorktreeList(repo, "")
	if len(descs) != 0 {
		t.Errorf("expected no descriptors for empty output, got %d", len(descs))
	}
}
