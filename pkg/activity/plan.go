// Package activity plans and writes backdated commits over a date range.
package activity

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

// Working-hours window every planned commit falls in: 09:00:00 to 18:59:59.
const (
	WindowStartHour = 9
	WindowEndHour   = 18
)

// DateLayout is the accepted --start/--end format.
const DateLayout = "2006-01-02"

// Intensity is a named per-day maximum.
type Intensity string

const (
	IntensityLight   Intensity = "light"
	IntensityMedium  Intensity = "medium"
	IntensityHeavy   Intensity = "heavy"
	IntensityExtreme Intensity = "extreme"
)

var intensityMax = map[Intensity]int{
	IntensityLight:   3,
	IntensityMedium:  8,
	IntensityHeavy:   15,
	IntensityExtreme: 25,
}

// MaxPerDay returns the per-day maximum of a named intensity.
func (i Intensity) MaxPerDay() (int, error) {
	limit, ok := intensityMax[i]
	if !ok {
		return 0, fmt.Errorf("unknown intensity %q (want light, medium, heavy or extreme)", i)
	}
	return limit, nil
}

// Commit is one planned synthetic commit.
type Commit struct {
	// Day is local midnight of the calendar day the commit belongs to.
	Day time.Time
	// When is the author and committer timestamp.
	When time.Time
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Plan picks, for every calendar day from start to end inclusive, between 1
// and maxPerDay commits (uniformly), each at a random second inside the
// working-hours window. Commits are ordered chronologically.
func Plan(start, end time.Time, maxPerDay int, rng *rand.Rand, loc *time.Location) ([]Commit, error) {
	if maxPerDay < 1 {
		return nil, fmt.Errorf("max commits per day must be at least 1, got %d", maxPerDay)
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if loc == nil {
		loc = time.Local
	}

	first := midnight(start, loc)
	last := midnight(end, loc)
	if last.Before(first) {
		return nil, fmt.Errorf("end date %s is before start date %s", last.Format(DateLayout), first.Format(DateLayout))
	}

	var plan []Commit
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		n := 1 + rng.IntN(maxPerDay)
		daily := make([]Commit, 0, n)
		for i := 0; i < n; i++ {
			when := time.Date(day.Year(), day.Month(), day.Day(),
				WindowStartHour+rng.IntN(WindowEndHour-WindowStartHour+1),
				rng.IntN(60), rng.IntN(60), 0, loc)
			daily = append(daily, Commit{Day: day, When: when})
		}
		sort.Slice(daily, func(a, b int) bool { return daily[a].When.Before(daily[b].When) })
		plan = append(plan, daily...)
	}
	return plan, nil
}

// Days returns the number of calendar days from start to end inclusive.
func Days(start, end time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	n := 0
	for day := midnight(start, loc); !day.After(midnight(end, loc)); day = day.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// InWindow reports whether t lies in the working-hours window of its own day in loc.
func InWindow(t time.Time, loc *time.Location) bool {
	h := t.In(loc).Hour()
	return h >= WindowStartHour && h <= WindowEndHour
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
