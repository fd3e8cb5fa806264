package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holon-run/gogreen/pkg/config"
	"github.com/holon-run/gogreen/pkg/log"
	"github.com/holon-run/gogreen/pkg/logs/redact"
)

var (
	logLevel       string
	envFile        string
	configFile     string
	nonInteractive bool
	flagValues     config.Values
	flagSwitches   config.Switches
)

// secrets masks the resolved token in the final error line.
var secrets = redact.New()

var rootCmd = &cobra.Command{
	Use:   "gogreen",
	Short: "Generate activity in one of your own GitHub repositories.",
	Long: `gogreen clones one of your repositories into a temporary directory and
creates activity there: backdated commits (boost) or branch, pull request and
merge flows (badge).

Nothing leaves your machine unless --push is given. Without it every run is a
local rehearsal in a throwaway clone.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, ok := log.ParseLevel(logLevel)
		if !ok {
			return fmt.Errorf("invalid log level %q (want debug, info, progress, minimal or error)", logLevel)
		}
		return log.Init(log.Config{Level: level, Output: os.Stderr})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", string(log.LevelProgress), "Log level: debug, info, progress, minimal, error")
	pf.StringVar(&envFile, "env-file", config.DefaultDotEnvPath, "Path to a .env file (missing file is ignored)")
	pf.StringVar(&configFile, "config", config.DefaultFilePath, "Path to the project file (missing file is ignored)")
	pf.BoolVar(&nonInteractive, "non-interactive", false, "Fail instead of prompting for missing values")

	pf.StringVar(&flagValues.RepoURL, "repo-url", "", "Repository URL, e.g. https://github.com/owner/repo.git")
	pf.StringVar(&flagValues.UserName, "user-name", "", "Commit author name")
	pf.StringVar(&flagValues.UserEmail, "user-email", "", "Commit author email")
	pf.StringVar(&flagValues.Token, "token", "", "Access token (prefer GITHUB_TOKEN)")
	pf.StringVar(&flagValues.CollaboratorName, "collaborator-name", "", "Co-author name for the pair flow")
	pf.StringVar(&flagValues.CollaboratorEmail, "collaborator-email", "", "Co-author email for the pair flow")
	pf.StringVar(&flagValues.BaseBranch, "base", "", "Base branch (default: the cloned HEAD branch)")
	pf.StringVar(&flagValues.APIBaseURL, "api-url", "", "API base URL (default: https://api.github.com/)")
	pf.StringVar(&flagValues.Host, "host", "", "Repository host marker (default: github.com)")

	pf.BoolVar(&flagSwitches.Push, "push", false, "Push results and call the API (without it the run stays local)")
	pf.BoolVar(&flagSwitches.ForcePushFallback, "force-push-fallback", false, "Retry a rejected push once with --force (requires --push)")
	pf.BoolVar(&flagSwitches.DryRun, "dry-run", false, "Plan the run without creating commits")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	_ = log.Sync()
	if err == nil {
		return 0
	}

	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		log.Status(log.TagHalt, "interrupted by user")
	}
	log.Status(log.TagError, "%s", secrets.String(err.Error()))
	return 1
}
