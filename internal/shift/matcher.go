package shift

import (
	"sort"
	"time"

	"go-timeclock/internal/job"
)

// ClockOutGrace is how long past a shift's end an open punch is tolerated
// before it counts as a forgotten clock-out.
const ClockOutGrace = 15 * time.Minute

// Match attributes a punch to one of a job's shifts.
//
// A punch that already carries a slug resolves directly against the shift
// list. Without a slug, the shift whose window contains timeIn wins; when
// several windows overlap, the earliest StartAt wins, then the
// lexicographically smallest slug. Returns nil when nothing matches.
func Match(shifts []Shift, shiftSlug *string, timeIn time.Time) *Shift {
	if shiftSlug != nil && *shiftSlug != "" {
		for i := range shifts {
			if shifts[i].Slug == *shiftSlug {
				return &shifts[i]
			}
		}
		return nil
	}

	var candidates []*Shift
	for i := range shifts {
		if shifts[i].ContainsTime(timeIn) {
			candidates = append(candidates, &shifts[i])
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartAt.Equal(candidates[j].StartAt) {
			return candidates[i].StartAt.Before(candidates[j].StartAt)
		}
		return candidates[i].Slug < candidates[j].Slug
	})
	return candidates[0]
}

// HasForgottenToClockOut reports whether an open punch has outlived its
// matched shift. True only when the job auto-clockout flag is on, the punch
// is still open, and the shift ended more than ClockOutGrace before now.
// This is a reporting flag: nothing here mutates the punch.
func HasForgottenToClockOut(j job.Job, shifts []Shift, shiftSlug *string, timeIn time.Time, timeOut *time.Time, now time.Time) bool {
	if !j.AutoClockoutShiftEnd {
		return false
	}
	if timeOut != nil {
		return false
	}

	matched := Match(shifts, shiftSlug, timeIn)
	if matched == nil {
		return false
	}
	return matched.EndAt.Add(ClockOutGrace).Before(now)
}
