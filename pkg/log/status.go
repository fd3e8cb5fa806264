package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Tag is the bracketed prefix of a status line, e.g. [GIT].
type Tag string

const (
	TagSetup   Tag = "SETUP"
	TagGit     Tag = "GIT"
	TagAPI     Tag = "API"
	TagBoost   Tag = "BOOST"
	TagBadge   Tag = "BADGE"
	TagStep    Tag = "STEP"
	TagOK      Tag = "OK"
	TagInfo    Tag = "INFO"
	TagWarn    Tag = "WARN"
	TagError   Tag = "ERROR"
	TagHalt    Tag = "HALT"
	TagCleanup Tag = "CLEANUP"
	TagFinish  Tag = "FINISH"
)

var tagColors = map[Tag]*color.Color{
	TagOK:     color.New(color.FgGreen, color.Bold),
	TagFinish: color.New(color.FgGreen, color.Bold),
	TagWarn:   color.New(color.FgYellow),
	TagHalt:   color.New(color.FgYellow),
	TagInfo:   color.New(color.FgYellow),
	TagError:  color.New(color.FgRed, color.Bold),
}

var defaultTagColor = color.New(color.FgBlue)

var (
	statusOut   io.Writer = os.Stdout
	statusMutex sync.Mutex
)

// SetStatusOutput redirects status lines and returns the previous writer.
func SetStatusOutput(w io.Writer) io.Writer {
	statusMutex.Lock()
	defer statusMutex.Unlock()
	prev := statusOut
	statusOut = w
	return prev
}

// Status prints a user-facing "[TAG] message" line. Color is dropped
// automatically when stdout is not a terminal or NO_COLOR is set.
func Status(tag Tag, format string, args ...interface{}) {
	c, ok := tagColors[tag]
	if !ok {
		c = defaultTagColor
	}

	statusMutex.Lock()
	defer statusMutex.Unlock()
	fmt.Fprintf(statusOut, "%s %s\n", c.Sprintf("[%s]", tag), fmt.Sprintf(format, args...))
}
