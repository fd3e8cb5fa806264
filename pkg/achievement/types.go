// Package achievement runs the branch, pull request and merge flows that
// exercise a repository's collaboration features.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/github"
)

var (
	// ErrTokenRequired is returned when a flow must reach the API but no
	// token is configured.
	ErrTokenRequired = errors.New("an access token is required to call the API (set GITHUB_TOKEN or --token)")
	// ErrCollaboratorRequired is returned by the pair flow without a collaborator identity.
	ErrCollaboratorRequired = errors.New("a collaborator identity is required for co-authored commits (set COLLABORATOR_NAME and COLLABORATOR_EMAIL)")
)

// Flow names one achievement strategy.
type Flow string

const (
	FlowPair  Flow = "pair"
	FlowShark Flow = "shark"
	FlowQuick Flow = "quick"
	FlowYolo  Flow = "yolo"
	FlowAll   Flow = "all"
)

// Flows lists every accepted flow name.
var Flows = []Flow{FlowPair, FlowShark, FlowQuick, FlowYolo, FlowAll}

// ParseFlow validates a flow name.
func ParseFlow(s string) (Flow, error) {
	for _, f := range Flows {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown badge %q (want pair, shark, quick, yolo or all)", s)
}

// Repo is the working tree a flow mutates. pkg/git.Client implements it.
type Repo interface {
	CreateBranch(name string) error
	Checkout(name string) error
	WriteFile(rel string, data []byte) error
	AppendLine(rel, line string) error
	CommitAt(paths []string, message string, sig git.Signature, when time.Time) (string, error)
	Push(ctx context.Context, branch string, force bool) error
}

// API is the remote side of a flow. pkg/github.Client implements it.
type API interface {
	CreatePullRequest(ctx context.Context, owner, repo string, newPR *github.NewPullRequest) (*github.PRInfo, error)
	CreateIssue(ctx context.Context, owner, repo, title, body string) (*github.IssueInfo, error)
	MergePullRequest(ctx context.Context, owner, repo string, number int, method github.MergeMethod) (*github.MergeResult, error)
	DeleteBranch(ctx context.Context, owner, repo, branch string) error
}

// Defaults for Options.
const (
	DefaultSharkCount = 2
	DefaultPause      = time.Second
)

// Options configures a Runner.
type Options struct {
	Repo       github.Repo
	BaseBranch string

	User         git.Signature
	Collaborator git.Signature

	// Push enables pushes and API calls. Without it remote steps are skipped.
	Push              bool
	ForcePushFallback bool

	// SharkCount is the number of pull requests the shark flow opens.
	SharkCount int
	// SharkMergeMethod is the merge method of the shark flow. Default merge.
	SharkMergeMethod github.MergeMethod
	// Pause is the sleep between shark iterations.
	Pause time.Duration

	// Now is the clock used for branch names and commit times.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.BaseBranch == "" {
		o.BaseBranch = "main"
	}
	if o.SharkCount <= 0 {
		o.SharkCount = DefaultSharkCount
	}
	if o.SharkMergeMethod == "" {
		o.SharkMergeMethod = github.MergeMethodMerge
	}
	if o.Pause < 0 {
		o.Pause = 0
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Outcome records what one flow iteration did.
type Outcome struct {
	Flow   Flow
	Branch string
	Commit string
	Pushed bool
	Forced bool
	Issue  int
	PR     int
	Merged bool
	// Skipped is true when remote steps were not run because pushing is disabled.
	Skipped bool
}

// Report aggregates the outcomes of a run.
type Report struct {
	Outcomes []Outcome
}

// Merged counts merged pull requests.
func (r Report) Merged() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Merged {
			n++
		}
	}
	return n
}
