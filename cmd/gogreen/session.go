package main

import (
	"context"
	"fmt"
	"os"

	"github.com/holon-run/gogreen/pkg/config"
	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/github"
	"github.com/holon-run/gogreen/pkg/log"
	"github.com/holon-run/gogreen/pkg/logs/redact"
	"github.com/holon-run/gogreen/pkg/preflight"
	"github.com/holon-run/gogreen/pkg/workspace"
)

// loadConfig gathers every configuration layer and resolves it. It performs
// no clone, so a bad URL fails here before any side effect.
func loadConfig(ctx context.Context) (*config.Config, config.FileConfig, error) {
	dotEnv, err := config.LoadDotEnv(envFile)
	if err != nil {
		return nil, config.FileConfig{}, err
	}
	file, err := config.LoadFile(configFile)
	if err != nil {
		return nil, config.FileConfig{}, err
	}

	var prompter config.Prompter = config.TerminalPrompter{}
	if nonInteractive || os.Getenv("CI") != "" {
		prompter = config.NoPrompter{}
	}

	cfg, err := config.Resolve(config.Sources{
		Flags:    flagValues,
		Switches: flagSwitches,
		Env:      config.EnvironMap(),
		DotEnv:   dotEnv,
		File:     file,
		HostGit:  git.ReadHostConfig(ctx, git.IdentityKeys...),
	}, prompter)
	if err != nil {
		return nil, file, err
	}
	secrets = redact.New(cfg.Token)

	log.Debug("configuration resolved", "config", fmt.Sprintf("%+v", cfg.Redacted()))
	if !cfg.Push {
		log.Status(log.TagInfo, "local rehearsal: nothing will be pushed (use --push to publish)")
	}
	return cfg, file, nil
}

// session is an acquired workspace plus the resolved configuration.
type session struct {
	cfg  *config.Config
	ws   *workspace.Workspace
	repo *git.Client
	base string
}

// openSession runs the preflight checks and clones the repository. The
// caller must defer Close, also when an error is returned.
func openSession(ctx context.Context, cfg *config.Config, needsAPI bool) (*session, error) {
	checks := preflight.Config{
		RequireGit:    true,
		Token:         cfg.Token,
		TokenRequired: needsAPI,
		TokenWanted:   cfg.Push,
		WorkspaceBase: workspace.PreferredBase(),
	}
	if needsAPI && cfg.HasToken() {
		checks.APIURL = cfg.APIBaseURL
	}
	if err := preflight.NewChecker(checks).Run(ctx); err != nil {
		return nil, err
	}

	log.Status(log.TagSetup, "cloning %s/%s", cfg.Repo.Owner, cfg.Repo.Name)
	ws, err := workspace.Acquire(ctx, workspace.NewGitClonePreparer(), workspace.PrepareRequest{
		Source: cfg.RepoURL,
		Token:  cfg.Token,
	})
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, ws: ws, repo: ws.Repo, base: ws.Branch}
	log.Debug("workspace ready", "dir", ws.Root, "branch", ws.Branch, "head", ws.HeadSHA)

	if err := s.repo.ConfigureIdentity(ctx, git.Signature{Name: cfg.User.Name, Email: cfg.User.Email}); err != nil {
		return s, err
	}
	if cfg.BaseBranch != "" && cfg.BaseBranch != ws.Branch {
		if err := s.repo.Checkout(cfg.BaseBranch); err != nil {
			return s, err
		}
		s.base = cfg.BaseBranch
	}
	return s, nil
}

func (s *session) author() git.Signature {
	return git.Signature{Name: s.cfg.User.Name, Email: s.cfg.User.Email}
}

// apiClient returns nil when no token is configured.
func (s *session) apiClient() (*github.Client, error) {
	if !s.cfg.HasToken() {
		return nil, nil
	}
	return github.NewClient(s.cfg.Token, github.WithBaseURL(s.cfg.APIBaseURL))
}

// Close removes the workspace. It is safe on a nil or partially opened session.
func (s *session) Close() {
	if s == nil || s.ws == nil {
		return
	}
	if err := s.ws.Close(); err != nil {
		log.Status(log.TagWarn, "failed to remove workspace %s: %v", s.ws.Root, err)
		return
	}
	log.Status(log.TagCleanup, "temporary workspace removed")
}

// explainAPIError adds a hint for the API failures users can fix themselves.
func explainAPIError(err error) {
	switch {
	case github.IsRateLimitError(err):
		log.Status(log.TagWarn, "API rate limit reached; wait for the quota to reset and run again")
	case github.IsAuthenticationError(err):
		log.Status(log.TagWarn, "the token was rejected or lacks the repo scope")
	case github.IsNotFoundError(err):
		log.Status(log.TagWarn, "repository not found, or the token cannot see it")
	}
}
