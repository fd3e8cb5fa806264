// Package git is the version-control layer: cloning and pushing go through
// the system git binary (so credential helpers and stderr behave as users
// expect), while branch, stage and commit work uses go-git so commit
// timestamps can be set precisely.
package git

import (
	"context"
	"os/exec"
	"strings"
)

// IdentityKeys are the git config keys consulted for the commit identity.
var IdentityKeys = []string{"user.name", "user.email"}

// ReadHostConfig reads keys from the host git config (local > global > system,
// as resolved by `git config --get`). Unset keys are omitted. A missing git
// binary yields an empty map.
func ReadHostConfig(ctx context.Context, keys ...string) map[string]string {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v := getHostGitConfig(ctx, key); v != "" {
			values[key] = v
		}
	}
	return values
}

func getHostGitConfig(ctx context.Context, key string) string {
	output, err := exec.CommandContext(ctx, "git", "config", "--get", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
