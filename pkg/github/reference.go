package github

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultHost is the host marker a repository URL must contain.
const DefaultHost = "github.com"

// ErrInvalidRepoURL is returned when a URL does not name an owner/repo on the host.
var ErrInvalidRepoURL = errors.New("invalid repository URL")

// Repo identifies a repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoURL extracts owner and name from a repository URL on host.
// Supported forms:
//   - https://github.com/owner/repo(.git)
//   - http://github.com/owner/repo
//   - ssh://git@github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//
// Path segments after the repository name (e.g. /tree/main) are ignored.
func ParseRepoURL(raw, host string) (Repo, error) {
	if host == "" {
		host = DefaultHost
	}
	raw = strings.TrimSpace(raw)

	var rest string
	switch {
	case strings.Contains(raw, host+"/"):
		rest = raw[strings.Index(raw, host+"/")+len(host)+1:]
	case strings.Contains(raw, host+":"):
		rest = raw[strings.Index(raw, host+":")+len(host)+1:]
	default:
		return Repo{}, fmt.Errorf("%w: %q does not contain %q", ErrInvalidRepoURL, raw, host+"/")
	}

	rest = strings.SplitN(rest, "?", 2)[0]
	rest = strings.SplitN(rest, "#", 2)[0]
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("%w: %q, expected https://%s/owner/repo.git", ErrInvalidRepoURL, raw, host)
	}

	name := strings.TrimSuffix(parts[1], ".git")
	if name == "" {
		return Repo{}, fmt.Errorf("%w: %q has an empty repository name", ErrInvalidRepoURL, raw)
	}
	return Repo{Owner: parts[0], Name: name}, nil
}
