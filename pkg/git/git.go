package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/holon-run/gogreen/pkg/logs/redact"
)

// CommandError is a failed git invocation. Stderr is already redacted.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Signature is a commit author or committer.
type Signature struct {
	Name  string
	Email string
}

// AuthenticatedURL embeds token into an HTTPS remote URL as
// x-access-token:<token>@host. Other URLs are returned unchanged.
func AuthenticatedURL(remote, token string) string {
	if token == "" {
		return remote
	}
	u, err := url.Parse(remote)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return remote
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String()
}

// Clone clones remote into dest with the system git binary. The token, if
// any, is embedded for the clone only; the stored origin URL is the plain one.
func Clone(ctx context.Context, remote, dest, token string) (*Client, error) {
	r := redact.New(token)
	args := []string{"clone", "--quiet", AuthenticatedURL(remote, token), dest}
	if _, err := runGit(ctx, "", r, args...); err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", r.String(remote), err)
	}

	c := NewClient(dest, WithToken(token), WithRemoteURL(remote))
	if _, err := c.run(ctx, "remote", "set-url", "origin", remote); err != nil {
		return nil, err
	}
	return c, nil
}

// Client runs git operations inside one working tree.
type Client struct {
	Dir       string
	token     string
	remoteURL string
	redactor  *redact.Redactor
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the token used to authenticate pushes.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithRemoteURL sets the plain remote URL pushes authenticate against.
// Without it, pushes go to "origin" as configured.
func WithRemoteURL(remote string) ClientOption {
	return func(c *Client) {
		c.remoteURL = remote
	}
}

// NewClient creates a client for the working tree at dir.
func NewClient(dir string, opts ...ClientOption) *Client {
	c := &Client{Dir: dir}
	for _, opt := range opts {
		opt(c)
	}
	c.redactor = redact.New(c.token)
	return c
}

// IsRepo reports whether Dir is inside a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// GetHeadSHA returns the commit SHA of HEAD.
func (c *Client) GetHeadSHA(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "HEAD")
}

// CurrentBranch returns the branch HEAD points at. It works on an unborn
// branch too (a freshly cloned empty repository).
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "symbolic-ref", "--short", "HEAD")
}

// ConfigureIdentity writes user.name and user.email into the repository config.
func (c *Client) ConfigureIdentity(ctx context.Context, sig Signature) error {
	if _, err := c.run(ctx, "config", "user.name", sig.Name); err != nil {
		return err
	}
	_, err := c.run(ctx, "config", "user.email", sig.Email)
	return err
}

// CreateBranch creates name from HEAD and checks it out.
func (c *Client) CreateBranch(name string) error {
	wt, err := c.worktree()
	if err != nil {
		return err
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Checkout switches to name. When no local branch exists but origin/name
// does, a local branch is created from it.
func (c *Client) Checkout(name string) error {
	repo, err := gogit.PlainOpen(c.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	local := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(local, true); err == nil {
		if err := wt.Checkout(&gogit.CheckoutOptions{Branch: local}); err != nil {
			return fmt.Errorf("failed to checkout %s: %w", name, err)
		}
		return nil
	}

	remote, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", name), true)
	if err != nil {
		return fmt.Errorf("branch %s not found locally or on origin: %w", name, err)
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: local, Hash: remote.Hash(), Create: true}); err != nil {
		return fmt.Errorf("failed to checkout %s from origin: %w", name, err)
	}
	return nil
}

// WriteFile writes data to a path relative to the working tree.
func (c *Client) WriteFile(rel string, data []byte) error {
	path := filepath.Join(c.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// AppendLine appends line plus a newline to a path relative to the working tree.
func (c *Client) AppendLine(rel, line string) error {
	f, err := os.OpenFile(filepath.Join(c.Dir, rel), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rel, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", rel, err)
	}
	return f.Close()
}

// CommitAt stages paths and commits them with both the author and the
// committer timestamp set to when. It returns the new commit SHA.
func (c *Client) CommitAt(paths []string, message string, sig Signature, when time.Time) (string, error) {
	wt, err := c.worktree()
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	if status.IsClean() {
		return "", errors.New("no changes to commit")
	}

	stamp := &object.Signature{Name: sig.Name, Email: sig.Email, When: when}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:    stamp,
		Committer: stamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// Push pushes branch to the remote. With force set it overwrites the remote branch.
func (c *Client) Push(ctx context.Context, branch string, force bool) error {
	target := "origin"
	if c.remoteURL != "" {
		target = AuthenticatedURL(c.remoteURL, c.token)
	}

	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, target, fmt.Sprintf("HEAD:refs/heads/%s", branch))

	if _, err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, err)
	}
	return nil
}

func (c *Client) worktree() (*gogit.Worktree, error) {
	repo, err := gogit.PlainOpen(c.Dir)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not a git repository", c.Dir)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return wt, nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	return runGit(ctx, c.Dir, c.redactor, args...)
}

// runGit executes git with args in dir and returns trimmed stdout.
func runGit(ctx context.Context, dir string, r *redact.Redactor, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		safeArgs := make([]string, len(args))
		for i, a := range args {
			safeArgs[i] = r.String(a)
		}
		return "", &CommandError{
			Args:   safeArgs,
			Stderr: r.String(strings.TrimSpace(stderr.String())),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
