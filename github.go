package workon

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
)

// GHRunner executes gh (GitHub CLI) commands. A separate seam from
// GitRunner since hosting-CLI metadata is a different external dependency
// than the version-control store itself.
type GHRunner interface {
	Run(ctx context.Context, args []string, dir string) (*CmdResult, error)
}

// DefaultGHRunner implements GHRunner using os/exec and the real gh binary.
type DefaultGHRunner struct{}

// Run executes a gh command.
func (r *DefaultGHRunner) Run(ctx context.Context, args []string, dir string) (*CmdResult, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	stdout, err := cmd.Output()
	result := &CmdResult{Stdout: string(stdout)}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.Stderr = string(exitErr.Stderr)
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}

	return result, err
}

// prViewJSON mirrors the subset of `gh pr view --json` fields PR
// preparation needs.
type prViewJSON struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	HeadRefName   string `json:"headRefName"`
	BaseRefName   string `json:"baseRefName"`
	IsCrossRepo   bool   `json:"isCrossRepository"`
	HeadRepoOwner struct {
		Login string `json:"login"`
	} `json:"headRepositoryOwner"`
	HeadRepository struct {
		URL string `json:"url"`
	} `json:"headRepository"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

// FetchPRMetadata retrieves PR metadata from the hosting CLI for number,
// run from dir (any directory inside the repository).
func FetchPRMetadata(ctx context.Context, gh GHRunner, number int, dir string) (*PrMetadata, error) {
	res, err := gh.Run(ctx, []string{
		"pr", "view", strconv.Itoa(number),
		"--json", "number,title,headRefName,baseRefName,isCrossRepository,headRepositoryOwner,headRepository,author",
	}, dir)
	if err != nil {
		msg := err.Error()
		if res != nil && res.Stderr != "" {
			msg = res.Stderr
		}
		return nil, &PrError{Kind: "gh_fetch_failed", Message: msg}
	}

	var parsed prViewJSON
	if jsonErr := json.Unmarshal([]byte(res.Stdout), &parsed); jsonErr != nil {
		return nil, &PrError{Kind: "gh_json_parse_failed", Message: jsonErr.Error()}
	}

	meta := &PrMetadata{
		Number:    parsed.Number,
		Title:     parsed.Title,
		Author:    parsed.Author.Login,
		HeadRef:   parsed.HeadRefName,
		BaseRef:   parsed.BaseRefName,
		IsFork:    parsed.IsCrossRepo,
		ForkOwner: parsed.HeadRepoOwner.Login,
		ForkURL:   parsed.HeadRepository.URL,
	}
	if meta.IsFork && meta.ForkOwner == "" {
		return nil, &PrError{Kind: "missing_fork_owner", Input: strconv.Itoa(number)}
	}
	return meta, nil
}
