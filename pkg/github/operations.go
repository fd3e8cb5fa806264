package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"
)

// MergeMethod selects how a pull request is merged.
type MergeMethod string

const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
)

// ParseMergeMethod validates a merge method name.
func ParseMergeMethod(s string) (MergeMethod, error) {
	switch m := MergeMethod(s); m {
	case MergeMethodMerge, MergeMethodSquash:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported merge method %q (want %q or %q)", s, MergeMethodMerge, MergeMethodSquash)
	}
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title string
	Head  string
	Base  string
	Body  string
}

// PRInfo is the subset of a pull request gogreen needs.
type PRInfo struct {
	Number    int
	Title     string
	State     string
	URL       string
	HeadRef   string
	BaseRef   string
	CreatedAt time.Time
}

// IssueInfo is the subset of an issue gogreen needs.
type IssueInfo struct {
	Number int
	Title  string
	State  string
	URL    string
}

// MergeResult is the outcome of a merge call.
type MergeResult struct {
	SHA     string
	Merged  bool
	Message string
}

// CreatePullRequest opens a pull request (POST /repos/{owner}/{repo}/pulls).
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, newPR *NewPullRequest) (*PRInfo, error) {
	pr, resp, err := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(newPR.Title),
		Head:  github.Ptr(newPR.Head),
		Base:  github.Ptr(newPR.Base),
		Body:  github.Ptr(newPR.Body),
	})
	c.rate.Update(resp)
	if err = toAPIError(err); err != nil {
		return nil, fmt.Errorf("failed to create pull request %s -> %s: %w", newPR.Head, newPR.Base, err)
	}

	info := &PRInfo{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		URL:       pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
	if head := pr.GetHead(); head != nil {
		info.HeadRef = head.GetRef()
	}
	if base := pr.GetBase(); base != nil {
		info.BaseRef = base.GetRef()
	}
	return info, nil
}

// CreateIssue opens an issue (POST /repos/{owner}/{repo}/issues).
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*IssueInfo, error) {
	issue, resp, err := c.gh.Issues.Create(ctx, owner, repo, &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	})
	c.rate.Update(resp)
	if err = toAPIError(err); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return &IssueInfo{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}, nil
}

// MergePullRequest merges a pull request (PUT /repos/{owner}/{repo}/pulls/{n}/merge).
func (c *Client) MergePullRequest(ctx context.Context, owner, repo string, number int, method MergeMethod) (*MergeResult, error) {
	if _, err := ParseMergeMethod(string(method)); err != nil {
		return nil, err
	}

	result, resp, err := c.gh.PullRequests.Merge(ctx, owner, repo, number, "", &github.PullRequestOptions{
		MergeMethod: string(method),
	})
	c.rate.Update(resp)
	if err = toAPIError(err); err != nil {
		return nil, fmt.Errorf("failed to merge pull request #%d: %w", number, err)
	}

	return &MergeResult{
		SHA:     result.GetSHA(),
		Merged:  result.GetMerged(),
		Message: result.GetMessage(),
	}, nil
}

// DeleteBranch removes a branch ref (DELETE /repos/{owner}/{repo}/git/refs/heads/{branch}).
func (c *Client) DeleteBranch(ctx context.Context, owner, repo, branch string) error {
	resp, err := c.gh.Git.DeleteRef(ctx, owner, repo, "heads/"+branch)
	c.rate.Update(resp)
	if err = toAPIError(err); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}
