package workspace

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/logs/redact"
	"github.com/holon-run/gogreen/pkg/pathutil"
)

// GitClonePreparer prepares a workspace with `git clone`.
type GitClonePreparer struct{}

// NewGitClonePreparer creates a new git clone preparer
func NewGitClonePreparer() *GitClonePreparer {
	return &GitClonePreparer{}
}

// Name returns the strategy name
func (p *GitClonePreparer) Name() string {
	return "git-clone"
}

// Validate checks if the request is valid for this preparer
func (p *GitClonePreparer) Validate(req PrepareRequest) error {
	return req.Validate()
}

// Prepare clones req.Source into req.Dest. A failed clone returns the
// redacted git stderr.
func (p *GitClonePreparer) Prepare(ctx context.Context, req PrepareRequest) (PrepareResult, error) {
	if err := p.Validate(req); err != nil {
		return PrepareResult{}, fmt.Errorf("invalid request: %w", err)
	}

	repo, err := git.Clone(ctx, req.Source, req.Dest, req.Token)
	if err != nil {
		return PrepareResult{}, err
	}

	result := PrepareResult{
		Strategy:  p.Name(),
		Source:    redact.New(req.Token).String(req.Source),
		Dest:      req.Dest,
		CreatedAt: time.Now(),
		Repo:      repo,
	}

	if result.Branch, err = repo.CurrentBranch(ctx); err != nil {
		return PrepareResult{}, fmt.Errorf("failed to determine checked out branch: %w", err)
	}
	if sha, err := repo.GetHeadSHA(ctx); err == nil {
		result.HeadSHA = sha
	} else {
		result.Empty = true
	}

	return result, nil
}

// Cleanup removes the workspace directory. It refuses empty paths and
// filesystem roots.
func (p *GitClonePreparer) Cleanup(dest string) error {
	if dest == "" || pathutil.IsFilesystemRoot(dest) {
		return fmt.Errorf("refusing to remove workspace at %q", dest)
	}
	return os.RemoveAll(dest)
}
