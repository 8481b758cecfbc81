package workon

import (
	"context"
	"strings"
	"testing"
)

// MockGHRunner implements GHRunner for testing.
type MockGHRunner struct {
	Result *CmdResult
	Err    error
	Args   []string
}

func (m *MockGHRunner) Run(ctx context.Context, args []string, dir string) (*CmdResult, error) {
	m.Args = args
	return m.Result, m.Err
}

func TestFetchPRMetadata(t *testing.T) {
	mock := &MockGHRunner{
		Result: &CmdResult{
			Stdout: `{"number": 42, "title": "Fix bug", "headRefName": "fix-bug", ` +
				`"baseRefName": "main", "isCrossRepository": false, "author": {"login": "alice"}}`,
		},
	}

	meta, err := FetchPRMetadata(context.Background(), mock, 42, "/tmp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Number != 42 || meta.HeadRef != "fix-bug" || meta.BaseRef != "main" || meta.Author != "alice" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.IsFork {
		t.Error("IsFork = true, want false")
	}

	argsStr := strings.Join(mock.Args, " ")
	if !strings.Contains(argsStr, "pr view 42") {
		t.Errorf("expected 'pr view 42' in args: %s", argsStr)
	}
}

func TestFetchPRMetadataFork(t *testing.T) {
	mock := &MockGHRunner{
		Result: &CmdResult{
			Stdout: `{"number": 7, "title": "Fork PR", "headRefName": "feature", "baseRefName": "main",` +
				`"isCrossRepository": true, "headRepositoryOwner": {"login": "bob"},` +
				`"headRepository": {"url": "https://github.com/bob/repo.git"}, "author": {"login": "bob"}}`,
		},
	}

	meta, err := FetchPRMetadata(context.Background(), mock, 7, "/tmp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.IsFork {
		t.Error("IsFork = false, want true")
	}
	if meta.ForkOwner != "bob" {
		t.Errorf("ForkOwner = %q, want bob", meta.ForkOwner)
	}
	if meta.ForkURL != "https://github.com/bob/repo.git" {
		t.Errorf("ForkURL = %q", meta.ForkURL)
	}
}

func TestFetchPRMetadataMissingForkOwner(t *testing.T) {
	mock := &MockGHRunner{
		Result: &CmdResult{
			Stdout: `{"number": 7, "isCrossRepository": true}`,
		},
	}
	_, err := FetchPRMetadata(context.Background(), mock, 7, "/tmp")
	if err == nil {
		t.Fatal("expected an error for a fork PR with no fork owner")
	}
}
