package activity

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/valyala/fasttemplate"

	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/log"
)

// DefaultTrackingFile receives one line per synthetic commit.
const DefaultTrackingFile = "contribution_data.txt"

// DefaultMessageTemplate is used when Options.MessageTemplate is empty.
// Available tags: {date}, {day}, {current}, {total}.
const DefaultMessageTemplate = "chore: contribution update {date}"

// Committer is the part of a git working tree Backfill needs.
type Committer interface {
	AppendLine(rel, line string) error
	CommitAt(paths []string, message string, sig git.Signature, when time.Time) (string, error)
}

// MessageTemplate renders commit messages.
type MessageTemplate struct {
	tmpl *fasttemplate.Template
}

// NewMessageTemplate parses s. Tags are written as {name}.
func NewMessageTemplate(s string) (*MessageTemplate, error) {
	if s == "" {
		s = DefaultMessageTemplate
	}
	tmpl, err := fasttemplate.NewTemplate(s, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("invalid message template %q: %w", s, err)
	}
	return &MessageTemplate{tmpl: tmpl}, nil
}

// Render fills the template for the current-th of total commits.
func (m *MessageTemplate) Render(c Commit, current, total int) string {
	return m.tmpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "date":
			return w.Write([]byte(c.When.Format(time.RFC3339)))
		case "day":
			return w.Write([]byte(c.Day.Format(DateLayout)))
		case "current":
			return w.Write([]byte(strconv.Itoa(current)))
		case "total":
			return w.Write([]byte(strconv.Itoa(total)))
		default:
			return w.Write([]byte("{" + tag + "}"))
		}
	})
}

// Options configures Backfill.
type Options struct {
	TrackingFile string
	Message      *MessageTemplate
	Author       git.Signature
	// Progress, when set, is called after each successful commit.
	Progress func(created, total int)
}

// Result summarizes a backfill.
type Result struct {
	Planned int
	Created int
	Failed  int
	// Last is the SHA of the last commit created.
	Last string
}

// Backfill writes the plan into repo: append a line to the tracking file,
// then commit it at the planned time. A failed commit is logged and skipped.
// Cancellation stops the loop and returns the partial result with ctx.Err().
func Backfill(ctx context.Context, repo Committer, plan []Commit, opts Options) (Result, error) {
	if opts.TrackingFile == "" {
		opts.TrackingFile = DefaultTrackingFile
	}
	if opts.Message == nil {
		msg, err := NewMessageTemplate("")
		if err != nil {
			return Result{}, err
		}
		opts.Message = msg
	}

	res := Result{Planned: len(plan)}
	for i, c := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		stamp := c.When.Format(time.RFC3339)
		if err := repo.AppendLine(opts.TrackingFile, "Contribution at "+stamp); err != nil {
			return res, fmt.Errorf("failed to update %s: %w", opts.TrackingFile, err)
		}

		sha, err := repo.CommitAt([]string{opts.TrackingFile}, opts.Message.Render(c, i+1, len(plan)), opts.Author, c.When)
		if err != nil {
			res.Failed++
			log.Warn("commit failed, skipping", "when", stamp, "error", err)
			continue
		}
		res.Created++
		res.Last = sha
		if opts.Progress != nil {
			opts.Progress(res.Created, len(plan))
		}
	}
	return res, nil
}
