package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BaseDirEnv overrides where workspaces are created.
const BaseDirEnv = "GOGREEN_WORKSPACE_BASE"

// PreferredBase is the first base MkdirTemp tries: $GOGREEN_WORKSPACE_BASE,
// or the system temp dir when unset.
func PreferredBase() string {
	if v := strings.TrimSpace(os.Getenv(BaseDirEnv)); v != "" {
		return v
	}
	return os.TempDir()
}

// MkdirTemp creates a uniquely named directory in the first usable base:
// $GOGREEN_WORKSPACE_BASE, the system temp dir, then the user cache dir.
func MkdirTemp(pattern string) (string, error) {
	baseCandidates := []string{PreferredBase()}
	if baseCandidates[0] != os.TempDir() {
		baseCandidates = append(baseCandidates, os.TempDir())
	}
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		baseCandidates = append(baseCandidates, filepath.Join(cacheDir, "gogreen"))
	}

	var lastErr error
	for _, base := range baseCandidates {
		if err := os.MkdirAll(base, 0o755); err != nil {
			lastErr = err
			continue
		}
		dir, err := os.MkdirTemp(base, pattern)
		if err != nil {
			lastErr = err
			continue
		}
		return dir, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no usable base directory for %q", pattern)
}
