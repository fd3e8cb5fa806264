package workspace

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Workspace is an acquired ephemeral clone. Close must be called on every
// exit path; it is idempotent.
type Workspace struct {
	PrepareResult
	// Root is the temporary directory that Close removes.
	Root string

	preparer  Preparer
	closeOnce sync.Once
	closeErr  error
}

// Acquire creates a uniquely named temporary directory and lets preparer
// fill it. If preparation fails the directory is removed before returning,
// so callers only own a Workspace when err is nil.
func Acquire(ctx context.Context, preparer Preparer, req PrepareRequest) (*Workspace, error) {
	root, err := MkdirTemp("gogreen-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	req.Dest = root

	result, err := preparer.Prepare(ctx, req)
	if err != nil {
		if cleanupErr := preparer.Cleanup(root); cleanupErr != nil {
			return nil, fmt.Errorf("%w (cleanup of %s also failed: %v)", err, root, cleanupErr)
		}
		return nil, err
	}

	return &Workspace{
		PrepareResult: result,
		Root:          root,
		preparer:      preparer,
	}, nil
}

// Close removes the workspace directory.
func (w *Workspace) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() {
		w.closeErr = w.preparer.Cleanup(w.Root)
	})
	return w.closeErr
}

// Exists reports whether the workspace directory is still on disk.
func (w *Workspace) Exists() bool {
	_, err := os.Stat(w.Root)
	return err == nil
}
