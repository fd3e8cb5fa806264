// Package publisher finalizes local work by pushing it to the remote.
package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/holon-run/gogreen/pkg/log"
)

// Pusher pushes the checked-out HEAD to a remote branch.
// pkg/git.Client implements it.
type Pusher interface {
	Push(ctx context.Context, branch string, force bool) error
}

// PushOptions controls Push.
type PushOptions struct {
	// ForceFallback allows one forced push after the plain push fails.
	// It must be opted into explicitly; it rewrites remote history.
	ForceFallback bool
}

// PushResult describes how a push succeeded.
type PushResult struct {
	Branch string
	// Forced is true when the plain push failed and the forced retry succeeded.
	Forced bool
	// PlainErr is the error of the failed plain push, if any.
	PlainErr error
}

// ErrBranchRequired is returned when Push is called without a branch.
var ErrBranchRequired = errors.New("branch is required")

// Push pushes branch with a plain push. Only when that fails and
// opts.ForceFallback is set is it retried once with force.
func Push(ctx context.Context, p Pusher, branch string, opts PushOptions) (PushResult, error) {
	res := PushResult{Branch: branch}
	if branch == "" {
		return res, ErrBranchRequired
	}

	plainErr := p.Push(ctx, branch, false)
	if plainErr == nil {
		return res, nil
	}
	res.PlainErr = plainErr

	if !opts.ForceFallback {
		return res, fmt.Errorf("push of %s failed (forced retry not enabled): %w", branch, plainErr)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.Warn("plain push failed, retrying with force", "branch", branch, "error", plainErr)
	if err := p.Push(ctx, branch, true); err != nil {
		return res, fmt.Errorf("forced push of %s failed after plain push error (%v): %w", branch, plainErr, err)
	}
	res.Forced = true
	return res, nil
}
