package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/holon-run/gogreen/pkg/activity"
	"github.com/holon-run/gogreen/pkg/config"
	"github.com/holon-run/gogreen/pkg/log"
	"github.com/holon-run/gogreen/pkg/publisher"
)

var (
	boostStart     string
	boostEnd       string
	boostMaxPerDay int
	boostIntensity string
	boostMessage   string
	boostTimezone  string
	boostSeed      uint64
)

var boostCmd = &cobra.Command{
	Use:   "boost",
	Short: "Create backdated commits over a date range",
	Long: `Create between 1 and N commits on every day from --start to --end, each at
a random time between 09:00 and 18:59, then push the branch when --push is set.

Examples:
  gogreen boost --start 2024-01-01 --end 2024-03-31 --intensity medium
  gogreen boost --start 2024-01-01 --max-per-day 4 --push`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, file, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		settings, err := resolveBoostSettings(cmd.Flags(), file.Boost, time.Now())
		if err != nil {
			return err
		}

		plan, err := activity.Plan(settings.start, settings.end, settings.maxPerDay, newRand(settings.seed), settings.loc)
		if err != nil {
			return err
		}
		days := activity.Days(settings.start, settings.end, settings.loc)
		log.Status(log.TagBoost, "%d commits planned over %d days (%s to %s, max %d per day)",
			len(plan), days, settings.start.Format(activity.DateLayout), settings.end.Format(activity.DateLayout), settings.maxPerDay)

		if cfg.DryRun {
			printPlan(plan)
			return nil
		}

		s, err := openSession(ctx, cfg, false)
		defer s.Close()
		if err != nil {
			return err
		}

		res, err := activity.Backfill(ctx, s.repo, plan, activity.Options{
			Message: settings.message,
			Author:  s.author(),
			Progress: func(created, total int) {
				log.Progressf("commit %d/%d", created, total)
			},
		})
		log.Status(log.TagOK, "%d of %d commits created (%d skipped)", res.Created, res.Planned, res.Failed)
		if err != nil {
			return err
		}
		if res.Created == 0 {
			return errors.New("no commits were created")
		}

		if !cfg.Push {
			log.Status(log.TagInfo, "skipping push of %s (pushing disabled)", s.base)
			log.Status(log.TagFinish, "rehearsal complete")
			return nil
		}

		log.Status(log.TagGit, "pushing %s", s.base)
		pushed, err := publisher.Push(ctx, s.repo, s.base, publisher.PushOptions{ForceFallback: cfg.ForcePushFallback})
		if err != nil {
			return err
		}
		if pushed.Forced {
			log.Status(log.TagWarn, "%s was force-pushed after a rejected push", s.base)
		}
		log.Status(log.TagFinish, "contribution graph updated")
		return nil
	},
}

func init() {
	addBoostFlags(boostCmd.Flags())
	rootCmd.AddCommand(boostCmd)
}

func addBoostFlags(f *pflag.FlagSet) {
	f.StringVar(&boostStart, "start", "", "First day, YYYY-MM-DD (default: one year ago)")
	f.StringVar(&boostEnd, "end", "", "Last day, YYYY-MM-DD (default: today)")
	f.IntVar(&boostMaxPerDay, "max-per-day", 0, "Maximum commits per day (overrides --intensity)")
	f.StringVar(&boostIntensity, "intensity", string(activity.IntensityLight), "Preset: light, medium, heavy, extreme")
	f.StringVar(&boostMessage, "message", "", "Commit message template; tags {date} {day} {current} {total}")
	f.StringVar(&boostTimezone, "timezone", "", "IANA time zone for commit times (default: local)")
	f.Uint64Var(&boostSeed, "seed", 0, "Random seed for a reproducible plan (0: random)")
}

type boostSettings struct {
	start, end time.Time
	loc        *time.Location
	maxPerDay  int
	message    *activity.MessageTemplate
	seed       uint64
}

// resolveBoostSettings applies flag > project file > default to the boost options.
func resolveBoostSettings(flags *pflag.FlagSet, file config.BoostFile, now time.Time) (boostSettings, error) {
	var s boostSettings

	tz := boostTimezone
	if !flags.Changed("timezone") && file.Timezone != "" {
		tz = file.Timezone
	}
	s.loc = time.Local
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return s, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		s.loc = loc
	}

	today := now.In(s.loc)
	s.end = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
	s.start = s.end.AddDate(-1, 0, 0)
	var err error
	if boostStart != "" {
		if s.start, err = activity.ParseDate(boostStart, s.loc); err != nil {
			return s, err
		}
	}
	if boostEnd != "" {
		if s.end, err = activity.ParseDate(boostEnd, s.loc); err != nil {
			return s, err
		}
	}

	switch {
	case flags.Changed("max-per-day"):
		s.maxPerDay = boostMaxPerDay
	case flags.Changed("intensity"):
		s.maxPerDay, err = activity.Intensity(boostIntensity).MaxPerDay()
	case file.MaxPerDay != 0:
		s.maxPerDay = file.MaxPerDay
	case file.Intensity != "":
		s.maxPerDay, err = activity.Intensity(file.Intensity).MaxPerDay()
	default:
		s.maxPerDay, err = activity.Intensity(boostIntensity).MaxPerDay()
	}
	if err != nil {
		return s, err
	}
	if s.maxPerDay < 1 {
		return s, fmt.Errorf("max commits per day must be at least 1, got %d", s.maxPerDay)
	}

	msg := boostMessage
	if !flags.Changed("message") && file.MessageTemplate != "" {
		msg = file.MessageTemplate
	}
	if s.message, err = activity.NewMessageTemplate(msg); err != nil {
		return s, err
	}

	s.seed = boostSeed
	return s, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func printPlan(plan []activity.Commit) {
	counts := map[time.Time]int{}
	var days []time.Time
	for _, c := range plan {
		if counts[c.Day] == 0 {
			days = append(days, c.Day)
		}
		counts[c.Day]++
	}
	for _, d := range days {
		log.Status(log.TagStep, "%s: %d commits", d.Format(activity.DateLayout), counts[d])
	}
	log.Status(log.TagFinish, "dry run, no commits created")
}
