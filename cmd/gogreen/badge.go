package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/holon-run/gogreen/pkg/achievement"
	"github.com/holon-run/gogreen/pkg/config"
	"github.com/holon-run/gogreen/pkg/git"
	"github.com/holon-run/gogreen/pkg/github"
	"github.com/holon-run/gogreen/pkg/log"
)

var (
	badgeFlow        string
	badgeCount       int
	badgeMergeMethod string
	badgePause       time.Duration
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Run a branch, pull request and merge flow",
	Long: `Run one of the collaboration flows against the repository:

  pair   co-authored commit merged through a pull request
  shark  several pull requests, each merged and its branch deleted
  quick  issue opened and closed by an immediately merged pull request
  yolo   pull request merged without review (same steps as pair)
  all    pair, quick, then shark

Without --push the git steps run in the throwaway clone and every remote
step is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		flow, err := achievement.ParseFlow(badgeFlow)
		if err != nil {
			return err
		}
		cfg, file, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		opts, err := resolveBadgeOptions(cmd.Flags(), file.Badge, cfg)
		if err != nil {
			return err
		}

		if cfg.DryRun {
			log.Status(log.TagBadge, "dry run: would run %s flow on %s (shark count %d, merge method %s)",
				flow, cfg.Repo.FullName(), opts.SharkCount, opts.SharkMergeMethod)
			return nil
		}

		s, err := openSession(ctx, cfg, cfg.Push)
		defer s.Close()
		if err != nil {
			return err
		}
		opts.BaseBranch = s.base
		opts.User = s.author()

		var api achievement.API
		var client *github.Client
		if cfg.Push {
			if client, err = s.apiClient(); err != nil {
				return err
			}
			if client != nil {
				api = client
			}
		}

		report, err := achievement.NewRunner(s.repo, api, opts).Run(ctx, flow)
		if client != nil {
			rl := client.RateLimit()
			log.Info("API quota", "limit", rl.Limit, "remaining", rl.Remaining, "reset", rl.Reset)
		}
		log.Status(log.TagOK, "%d flow steps completed, %d pull requests merged", len(report.Outcomes), report.Merged())
		if err != nil {
			explainAPIError(err)
			return err
		}
		log.Status(log.TagFinish, "%s flow finished", flow)
		return nil
	},
}

func init() {
	addBadgeFlags(badgeCmd.Flags())
	rootCmd.AddCommand(badgeCmd)
}

func addBadgeFlags(f *pflag.FlagSet) {
	f.StringVar(&badgeFlow, "badge", string(achievement.FlowPair), "Flow: pair, shark, quick, yolo, all")
	f.IntVar(&badgeCount, "count", achievement.DefaultSharkCount, "Number of pull requests for the shark flow")
	f.StringVar(&badgeMergeMethod, "merge-method", string(github.MergeMethodMerge), "Merge method for the shark flow: merge or squash")
	f.DurationVar(&badgePause, "pause", achievement.DefaultPause, "Pause between shark pull requests")
}

// resolveBadgeOptions applies flag > project file > default to the badge options.
func resolveBadgeOptions(flags *pflag.FlagSet, file config.BadgeFile, cfg *config.Config) (achievement.Options, error) {
	opts := achievement.Options{
		Repo:              cfg.Repo,
		Collaborator:      git.Signature{Name: cfg.Collaborator.Name, Email: cfg.Collaborator.Email},
		Push:              cfg.Push,
		ForcePushFallback: cfg.ForcePushFallback,
		SharkCount:        badgeCount,
		Pause:             badgePause,
	}

	if !flags.Changed("count") && file.Count != 0 {
		opts.SharkCount = file.Count
	}
	if opts.SharkCount < 1 {
		return opts, fmt.Errorf("count must be at least 1, got %d", opts.SharkCount)
	}

	method := badgeMergeMethod
	if !flags.Changed("merge-method") && file.MergeMethod != "" {
		method = file.MergeMethod
	}
	m, err := github.ParseMergeMethod(method)
	if err != nil {
		return opts, err
	}
	opts.SharkMergeMethod = m

	if !flags.Changed("pause") && file.Pause != "" {
		d, err := time.ParseDuration(file.Pause)
		if err != nil {
			return opts, fmt.Errorf("invalid badge pause %q: %w", file.Pause, err)
		}
		opts.Pause = d
	}
	if opts.Pause < 0 {
		return opts, fmt.Errorf("pause must not be negative, got %s", opts.Pause)
	}
	return opts, nil
}
