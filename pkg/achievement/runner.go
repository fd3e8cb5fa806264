package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/github"
	"github.com/holon-run/gogreen/pkg/log"
	"github.com/holon-run/gogreen/pkg/publisher"
)

// Commit messages and file names written by the flows.
const (
	AchievementsFile = "ACHIEVEMENTS.md"
	QuickFile        = "quick.txt"

	pairMessage  = "feat: collaborative update"
	quickMessage = "fix: resolve quick issue"
)

// Runner executes flows against one working tree.
type Runner struct {
	repo Repo
	api  API
	opts Options
}

// NewRunner creates a runner. api may be nil when no token is configured;
// flows that need it then fail with ErrTokenRequired once pushing is enabled.
func NewRunner(repo Repo, api API, opts Options) *Runner {
	opts.setDefaults()
	return &Runner{repo: repo, api: api, opts: opts}
}

// Run executes flow and returns what was done, including the outcomes of
// steps completed before an error.
func (r *Runner) Run(ctx context.Context, flow Flow) (Report, error) {
	var report Report
	steps, err := r.plan(flow)
	if err != nil {
		return report, err
	}
	if err := r.check(flow); err != nil {
		return report, err
	}

	for _, step := range steps {
		outcomes, err := step(ctx)
		report.Outcomes = append(report.Outcomes, outcomes...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

type step func(ctx context.Context) ([]Outcome, error)

func (r *Runner) plan(flow Flow) ([]step, error) {
	switch flow {
	case FlowPair:
		return []step{r.pair(FlowPair)}, nil
	case FlowYolo:
		// Merging through the API with no review is what yolo needs, which the pair flow already does.
		return []step{r.pair(FlowYolo)}, nil
	case FlowShark:
		return []step{r.shark}, nil
	case FlowQuick:
		return []step{r.quick}, nil
	case FlowAll:
		return []step{r.pair(FlowPair), r.quick, r.shark}, nil
	default:
		return nil, fmt.Errorf("unknown badge %q", flow)
	}
}

// check fails before any mutation when a required input is missing.
func (r *Runner) check(flow Flow) error {
	if r.opts.Push && r.api == nil {
		return ErrTokenRequired
	}
	switch flow {
	case FlowPair, FlowYolo, FlowAll:
		if r.opts.Collaborator.Name == "" || r.opts.Collaborator.Email == "" {
			return ErrCollaboratorRequired
		}
	}
	return nil
}

func (r *Runner) branchName(flow Flow) string {
	return fmt.Sprintf("achievement/%s-%d", flow, r.opts.Now().Unix())
}

func (r *Runner) pair(flow Flow) step {
	return func(ctx context.Context) ([]Outcome, error) {
		log.Status(log.TagBadge, "running %s flow", flow)

		out := Outcome{Flow: flow, Branch: r.branchName(flow)}
		if err := r.checkoutBase(); err != nil {
			return nil, err
		}
		if err := r.repo.CreateBranch(out.Branch); err != nil {
			return nil, err
		}

		now := r.opts.Now()
		if err := r.repo.AppendLine(AchievementsFile, "- Pair attempt: "+now.Format(time.RFC3339)); err != nil {
			return nil, err
		}
		msg := CoAuthoredMessage(pairMessage, r.opts.Collaborator, r.opts.User)
		sha, err := r.repo.CommitAt([]string{AchievementsFile}, msg, r.opts.User, now)
		if err != nil {
			return nil, fmt.Errorf("failed to commit on %s: %w", out.Branch, err)
		}
		out.Commit = sha
		log.Status(log.TagGit, "committed %s on %s", shortSHA(sha), out.Branch)

		err = r.publish(ctx, &out, &github.NewPullRequest{
			Title: "Achievement: Pair Extraordinaire",
			Head:  out.Branch,
			Base:  r.opts.BaseBranch,
			Body:  "Demonstrating collaborative development.",
		}, github.MergeMethodSquash)
		return []Outcome{out}, err
	}
}

func (r *Runner) shark(ctx context.Context) ([]Outcome, error) {
	count := r.opts.SharkCount
	log.Status(log.TagBadge, "running shark flow (%d pull requests)", count)

	var outcomes []Outcome
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		log.Status(log.TagStep, "pull request %d/%d", i+1, count)

		out := Outcome{Flow: FlowShark, Branch: fmt.Sprintf("achievement/shark-%d-%d", i, r.opts.Now().Unix())}
		if err := r.checkoutBase(); err != nil {
			return outcomes, err
		}
		if err := r.repo.CreateBranch(out.Branch); err != nil {
			return outcomes, err
		}

		now := r.opts.Now()
		file := fmt.Sprintf("shark_%d.txt", i)
		if err := r.repo.WriteFile(file, []byte(fmt.Sprintf("Shark byte %d at %d\n", i, now.UnixNano()))); err != nil {
			return outcomes, err
		}
		sha, err := r.repo.CommitAt([]string{file}, fmt.Sprintf("chore: add shark data %d", i), r.opts.User, now)
		if err != nil {
			return outcomes, fmt.Errorf("failed to commit on %s: %w", out.Branch, err)
		}
		out.Commit = sha

		err = r.publish(ctx, &out, &github.NewPullRequest{
			Title: fmt.Sprintf("Shark Contribution %d", i),
			Head:  out.Branch,
			Base:  r.opts.BaseBranch,
			Body:  fmt.Sprintf("Automated PR for Pull Shark achievement #%d", i),
		}, r.opts.SharkMergeMethod)
		outcomes = append(outcomes, out)
		if err != nil {
			return outcomes, err
		}

		if r.opts.Push && i < count-1 {
			if err := github.Pause(ctx, r.opts.Pause); err != nil {
				return outcomes, err
			}
		}
	}
	return outcomes, nil
}

func (r *Runner) quick(ctx context.Context) ([]Outcome, error) {
	log.Status(log.TagBadge, "running quick flow")
	out := Outcome{Flow: FlowQuick}

	if r.opts.Push {
		issue, err := r.api.CreateIssue(ctx, r.opts.Repo.Owner, r.opts.Repo.Name, "Quickdraw Challenge", "Need a fix fast!")
		if err != nil {
			return nil, fmt.Errorf("failed to open issue: %w", err)
		}
		out.Issue = issue.Number
		log.Status(log.TagAPI, "issue #%d opened", issue.Number)
	} else {
		log.Status(log.TagInfo, "skipping issue creation (pushing disabled)")
	}

	out.Branch = r.branchName(FlowQuick)
	if err := r.checkoutBase(); err != nil {
		return nil, err
	}
	if err := r.repo.CreateBranch(out.Branch); err != nil {
		return nil, err
	}
	if err := r.repo.WriteFile(QuickFile, []byte("fixed\n")); err != nil {
		return nil, err
	}
	sha, err := r.repo.CommitAt([]string{QuickFile}, quickMessage, r.opts.User, r.opts.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to commit on %s: %w", out.Branch, err)
	}
	out.Commit = sha

	err = r.publish(ctx, &out, &github.NewPullRequest{
		Title: fmt.Sprintf("Fix Quickdraw #%d", out.Issue),
		Head:  out.Branch,
		Base:  r.opts.BaseBranch,
		Body:  fmt.Sprintf("Closes #%d", out.Issue),
	}, github.MergeMethodSquash)
	return []Outcome{out}, err
}

// publish pushes the branch, opens the pull request, merges it and deletes
// the branch ref. Without pushing enabled it only records the skip.
func (r *Runner) publish(ctx context.Context, out *Outcome, pr *github.NewPullRequest, method github.MergeMethod) error {
	if !r.opts.Push {
		out.Skipped = true
		log.Status(log.TagInfo, "skipping push, pull request and merge of %s (pushing disabled)", out.Branch)
		return nil
	}

	log.Status(log.TagGit, "pushing %s", out.Branch)
	res, err := publisher.Push(ctx, r.repo, out.Branch, publisher.PushOptions{ForceFallback: r.opts.ForcePushFallback})
	if err != nil {
		return err
	}
	out.Pushed = true
	out.Forced = res.Forced
	if res.Forced {
		log.Status(log.TagWarn, "%s was force-pushed after a rejected push", out.Branch)
	}

	owner, name := r.opts.Repo.Owner, r.opts.Repo.Name
	info, err := r.api.CreatePullRequest(ctx, owner, name, pr)
	if err != nil {
		return fmt.Errorf("failed to open pull request for %s: %w", out.Branch, err)
	}
	out.PR = info.Number
	log.Status(log.TagAPI, "pull request #%d opened", info.Number)

	if _, err := r.api.MergePullRequest(ctx, owner, name, info.Number, method); err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", info.Number, err)
	}
	out.Merged = true

	if err := r.api.DeleteBranch(ctx, owner, name, out.Branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", out.Branch, err)
	}
	log.Status(log.TagOK, "pull request #%d merged (%s) and %s deleted", info.Number, method, out.Branch)
	return nil
}

func (r *Runner) checkoutBase() error {
	if err := r.repo.Checkout(r.opts.BaseBranch); err != nil {
		return fmt.Errorf("failed to checkout base branch %s: %w", r.opts.BaseBranch, err)
	}
	return nil
}

// CoAuthoredMessage appends one Co-authored-by trailer per author.
func CoAuthoredMessage(subject string, authors ...git.Signature) string {
	msg := subject + "\n"
	for _, a := range authors {
		msg += fmt.Sprintf("\nCo-authored-by: %s <%s>", a.Name, a.Email)
	}
	return msg
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
