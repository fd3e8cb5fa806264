// Package config resolves the run configuration once, from flags, the
// environment, an optional .env file, an optional project file, host git
// config and, as a last resort, interactive prompts. The result is an
// immutable Config passed explicitly to every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holon-run/gogreen/pkg/github"
)

// ErrInvalidRepoURL is returned (wrapped in *Error) for malformed repository URLs.
var ErrInvalidRepoURL = github.ErrInvalidRepoURL

// ErrMissingValue is returned when a required value has no source.
var ErrMissingValue = errors.New("missing required value")

// Error is a configuration error attributed to one field.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Identity is a commit author.
type Identity struct {
	Name  string
	Email string
}

// IsZero reports whether neither name nor email is set.
func (i Identity) IsZero() bool {
	return i.Name == "" && i.Email == ""
}

// String formats the identity as used in commit trailers: "Name <email>".
func (i Identity) String() string {
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

// Config is the resolved run configuration.
type Config struct {
	RepoURL      string
	Repo         github.Repo
	Host         string
	User         Identity
	Token        string
	Collaborator Identity
	// BaseBranch is empty when the cloned HEAD branch should be used.
	BaseBranch string
	APIBaseURL string

	// Push enables every remote side effect: pushes and API calls.
	Push bool
	// ForcePushFallback allows one forced push after a failed plain push.
	ForcePushFallback bool
	DryRun            bool
}

// HasToken reports whether an access token is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Redacted returns a copy that is safe to log.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "***"
	}
	return c
}

// Values holds one layer of string settings. Empty fields are unset.
type Values struct {
	RepoURL           string
	UserName          string
	UserEmail         string
	Token             string
	CollaboratorName  string
	CollaboratorEmail string
	BaseBranch        string
	APIBaseURL        string
	Host              string
}

// Switches are the flag-only booleans.
type Switches struct {
	Push              bool
	ForcePushFallback bool
	DryRun            bool
}

// Environment variable names consulted by Resolve.
const (
	EnvRepoURL           = "REPO_URL"
	EnvUserName          = "USER_NAME"
	EnvUserEmail         = "USER_EMAIL"
	EnvGitHubToken       = "GITHUB_TOKEN"
	EnvGHToken           = "GH_TOKEN"
	EnvCollaboratorName  = "COLLABORATOR_NAME"
	EnvCollaboratorEmail = "COLLABORATOR_EMAIL"
	EnvBaseBranch        = "BASE_BRANCH"
	EnvAPIURL            = "GITHUB_API_URL"
	EnvHost              = "GITHUB_HOST"
)

// Sources collects every input Resolve reads. It performs no I/O itself,
// so resolution can be tested with plain values.
type Sources struct {
	Flags    Values
	Switches Switches
	// Env is the process environment. It wins over DotEnv.
	Env    map[string]string
	DotEnv map[string]string
	File   FileConfig
	// HostGit holds host git config values keyed by "user.name" and "user.email".
	HostGit map[string]string
}

func (s Sources) env(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(s.Env[k]); v != "" {
			return v
		}
	}
	for _, k := range keys {
		if v := strings.TrimSpace(s.DotEnv[k]); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Resolve builds a Config with the priority
// flags > environment (.env below process env) > project file > host git config > prompt.
// The token is never prompted for. A missing token is not an error here;
// commands that need the API check for it.
func Resolve(src Sources, prompter Prompter) (*Config, error) {
	if prompter == nil {
		prompter = NoPrompter{}
	}

	cfg := &Config{
		RepoURL:           firstNonEmpty(src.Flags.RepoURL, src.env(EnvRepoURL), src.File.RepoURL),
		Token:             firstNonEmpty(src.Flags.Token, src.env(EnvGitHubToken, EnvGHToken)),
		BaseBranch:        firstNonEmpty(src.Flags.BaseBranch, src.env(EnvBaseBranch), src.File.BaseBranch),
		APIBaseURL:        firstNonEmpty(src.Flags.APIBaseURL, src.env(EnvAPIURL), src.File.APIURL, github.DefaultBaseURL),
		Host:              firstNonEmpty(src.Flags.Host, src.env(EnvHost), src.File.Host, github.DefaultHost),
		Push:              src.Switches.Push,
		ForcePushFallback: src.Switches.ForcePushFallback,
		DryRun:            src.Switches.DryRun,
		User: Identity{
			Name:  firstNonEmpty(src.Flags.UserName, src.env(EnvUserName), src.File.User.Name, src.HostGit["user.name"]),
			Email: firstNonEmpty(src.Flags.UserEmail, src.env(EnvUserEmail), src.File.User.Email, src.HostGit["user.email"]),
		},
		Collaborator: Identity{
			Name:  firstNonEmpty(src.Flags.CollaboratorName, src.env(EnvCollaboratorName), src.File.Collaborator.Name),
			Email: firstNonEmpty(src.Flags.CollaboratorEmail, src.env(EnvCollaboratorEmail), src.File.Collaborator.Email),
		},
	}

	prompts := []struct {
		field string
		label string
		dest  *string
	}{
		{"repo_url", "Repository URL (https://github.com/owner/repo.git)", &cfg.RepoURL},
		{"user_name", "Git author name", &cfg.User.Name},
		{"user_email", "Git author email", &cfg.User.Email},
	}
	for _, p := range prompts {
		if *p.dest != "" {
			continue
		}
		v, err := prompter.Prompt(p.label)
		if err != nil {
			return nil, &Error{Field: p.field, Err: err}
		}
		if v = strings.TrimSpace(v); v == "" {
			return nil, &Error{Field: p.field, Err: ErrMissingValue}
		}
		*p.dest = v
	}

	repo, err := github.ParseRepoURL(cfg.RepoURL, cfg.Host)
	if err != nil {
		return nil, &Error{Field: "repo_url", Err: err}
	}
	cfg.Repo = repo

	if cfg.ForcePushFallback && !cfg.Push {
		return nil, &Error{Field: "force_push_fallback", Err: errors.New("requires --push")}
	}

	return cfg, nil
}

// EnvironMap snapshots the process environment.
func EnvironMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
