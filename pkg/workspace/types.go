// Package workspace prepares the ephemeral clone a run works in and
// guarantees its removal.
package workspace

import (
	"context"
	"errors"
	"time"

	"github.com/holon-run/gogreen/pkg/git"
)

// PrepareRequest describes the clone to prepare.
type PrepareRequest struct {
	// Source is the remote URL or local path to clone.
	Source string
	// Token authenticates HTTPS clones and later pushes. Optional.
	Token string
	// Dest is the directory to clone into. It must be empty or absent.
	Dest string
}

// Validate checks the request fields.
func (r PrepareRequest) Validate() error {
	if r.Source == "" {
		return errors.New("source is required")
	}
	if r.Dest == "" {
		return errors.New("dest is required")
	}
	return nil
}

// PrepareResult describes a prepared workspace.
type PrepareResult struct {
	Strategy string
	// Source is the clone source with credentials removed.
	Source string
	Dest   string
	// Branch is the branch checked out after cloning.
	Branch    string
	HeadSHA   string
	CreatedAt time.Time
	// Empty is true when the remote had no commits yet.
	Empty bool
	Repo  *git.Client
}

// Preparer materializes a workspace from a request.
type Preparer interface {
	Name() string
	Validate(req PrepareRequest) error
	Prepare(ctx context.Context, req PrepareRequest) (PrepareResult, error)
	Cleanup(dest string) error
}
