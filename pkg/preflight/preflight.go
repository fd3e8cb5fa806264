// Package preflight verifies the host before a run touches anything.
package preflight

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/holon-run/gogreen/pkg/log"
)

// CheckLevel represents the severity level of a preflight check
type CheckLevel int

const (
	// LevelError indicates a critical failure that prevents execution
	LevelError CheckLevel = iota
	// LevelWarn indicates a warning that should be addressed but doesn't block execution
	LevelWarn
	// LevelInfo indicates informational output
	LevelInfo
)

// CheckResult represents the result of a single preflight check
type CheckResult struct {
	Name    string     // Check name
	Level   CheckLevel // Severity level
	Message string     // Human-readable message
	Error   error      // Underlying error (if any)
}

// Check represents a single preflight check
type Check interface {
	// Name returns the check name
	Name() string
	// Run executes the check and returns a CheckResult
	Run(ctx context.Context) CheckResult
}

// Checker runs a collection of preflight checks
type Checker struct {
	checks []Check
	quiet  bool
}

// Config configures the preflight checker
type Config struct {
	// Quiet suppresses info-level messages
	Quiet bool
	// RequireGit checks that the git binary is available
	RequireGit bool
	// Token is the configured access token, checked when TokenRequired or TokenWanted is set.
	Token string
	// TokenRequired makes a missing token an error.
	TokenRequired bool
	// TokenWanted makes a missing token a warning.
	TokenWanted bool
	// WorkspaceBase is the directory workspaces are created in, checked for writability.
	WorkspaceBase string
	// APIURL, when set, gets a best-effort reachability check.
	APIURL string
}

// NewChecker creates a new preflight checker with the given configuration
func NewChecker(cfg Config) *Checker {
	c := &Checker{quiet: cfg.Quiet}

	if cfg.RequireGit {
		c.checks = append(c.checks, &GitCheck{})
	}
	if cfg.TokenRequired || cfg.TokenWanted {
		c.checks = append(c.checks, &TokenCheck{Token: cfg.Token, Required: cfg.TokenRequired})
	}
	if cfg.WorkspaceBase != "" {
		c.checks = append(c.checks, &WorkspaceBaseCheck{Path: cfg.WorkspaceBase})
	}
	if cfg.APIURL != "" {
		c.checks = append(c.checks, &NetworkCheck{URL: cfg.APIURL})
	}
	return c
}

// Run executes all registered checks and returns an error if any critical checks fail
func (c *Checker) Run(ctx context.Context) error {
	log.Debug("running preflight checks", "count", len(c.checks))

	var errs []string
	for _, check := range c.checks {
		result := check.Run(ctx)
		switch result.Level {
		case LevelError:
			log.Debug("preflight check failed", "check", result.Name, "error", result.Error)
			errs = append(errs, fmt.Sprintf("%s: %s", result.Name, result.Message))
		case LevelWarn:
			log.Status(log.TagWarn, "%s: %s", result.Name, result.Message)
		case LevelInfo:
			if !c.quiet {
				log.Info("preflight check", "check", result.Name, "message", result.Message)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("preflight checks failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GitCheck checks if git is installed
type GitCheck struct{}

func (c *GitCheck) Name() string {
	return "git"
}

func (c *GitCheck) Run(ctx context.Context) CheckResult {
	if _, err := exec.LookPath("git"); err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: "git command not found. Please install Git from https://git-scm.com/downloads",
			Error:   err,
		}
	}

	output, err := exec.CommandContext(ctx, "git", "--version").CombinedOutput()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "git is installed but may not be working correctly",
			Error:   err,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Level:   LevelInfo,
		Message: fmt.Sprintf("git is available (%s)", strings.TrimSpace(string(output))),
	}
}

// TokenCheck checks that an access token is configured
type TokenCheck struct {
	Token    string
	Required bool
}

func (c *TokenCheck) Name() string {
	return "github-token"
}

func (c *TokenCheck) Run(ctx context.Context) CheckResult {
	if c.Token != "" {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelInfo,
			Message: "access token available",
		}
	}

	level := LevelWarn
	msg := "no access token configured; pushes rely on the git credential helper"
	if c.Required {
		level = LevelError
		msg = "access token is required for API calls. Set GITHUB_TOKEN or pass --token"
	}
	return CheckResult{
		Name:    c.Name(),
		Level:   level,
		Message: msg,
		Error:   fmt.Errorf("no access token found"),
	}
}

// WorkspaceBaseCheck checks that workspaces can be created under Path
type WorkspaceBaseCheck struct {
	Path string
}

func (c *WorkspaceBaseCheck) Name() string {
	return "workspace-base"
}

func (c *WorkspaceBaseCheck) Run(ctx context.Context) CheckResult {
	absPath, err := filepath.Abs(c.Path)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("failed to resolve workspace base: %s", c.Path),
			Error:   err,
		}
	}

	info, err := os.Stat(absPath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return CheckResult{
				Name:    c.Name(),
				Level:   LevelError,
				Message: fmt.Sprintf("cannot create workspace base: %s", absPath),
				Error:   err,
			}
		}
	case err != nil:
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("cannot access workspace base: %s", absPath),
			Error:   err,
		}
	case !info.IsDir():
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("workspace base is not a directory: %s", absPath),
			Error:   fmt.Errorf("not a directory"),
		}
	}

	// Check if directory is writable by creating a temporary file
	testFile := filepath.Join(absPath, fmt.Sprintf(".gogreen-write-test-%d", os.Getpid()))
	f, err := os.Create(testFile)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("workspace base is not writable: %s", absPath),
			Error:   err,
		}
	}
	f.Close()
	_ = os.Remove(testFile)

	return CheckResult{
		Name:    c.Name(),
		Level:   LevelInfo,
		Message: fmt.Sprintf("workspace base is writable: %s", absPath),
	}
}

// NetworkCheck performs a basic connectivity check against the API.
// This is best-effort and may not catch all network issues
type NetworkCheck struct {
	URL string
}

func (c *NetworkCheck) Name() string {
	return "network"
}

func (c *NetworkCheck) Run(ctx context.Context) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, c.URL, nil)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "failed to create network check request",
			Error:   err,
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: fmt.Sprintf("API at %s may be unreachable", c.URL),
			Error:   err,
		}
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		log.Debug("failed to drain response body", "error", err)
	}

	if resp.StatusCode >= 500 {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: fmt.Sprintf("API returned unexpected status: %d", resp.StatusCode),
			Error:   fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Level:   LevelInfo,
		Message: "API is reachable",
	}
}
