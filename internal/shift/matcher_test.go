package shift_test

import (
	"testing"
	"time"

	"go-timeclock/internal/job"
	"go-timeclock/internal/shift"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func mkShift(slug string, start, end time.Time) shift.Shift {
	return shift.Shift{
		ID:      uuid.New(),
		Slug:    slug,
		Name:    slug,
		StartAt: start,
		EndAt:   end,
	}
}

func strPtr(s string) *string { return &s }

func TestMatch(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	morning := mkShift("morning", day.Add(6*time.Hour), day.Add(14*time.Hour))
	evening := mkShift("evening", day.Add(14*time.Hour), day.Add(22*time.Hour))
	shifts := []shift.Shift{morning, evening}

	t.Run("slug takes precedence over window", func(t *testing.T) {
		// timeIn sits in the morning window but the slug says evening
		got := shift.Match(shifts, strPtr("evening"), day.Add(8*time.Hour))
		if assert.NotNil(t, got) {
			assert.Equal(t, "evening", got.Slug)
		}
	})

	t.Run("unknown slug matches nothing", func(t *testing.T) {
		got := shift.Match(shifts, strPtr("night"), day.Add(8*time.Hour))
		assert.Nil(t, got)
	})

	t.Run("window containment without slug", func(t *testing.T) {
		got := shift.Match(shifts, nil, day.Add(15*time.Hour))
		if assert.NotNil(t, got) {
			assert.Equal(t, "evening", got.Slug)
		}
	})

	t.Run("window start inclusive end exclusive", func(t *testing.T) {
		got := shift.Match(shifts, nil, day.Add(14*time.Hour))
		if assert.NotNil(t, got) {
			assert.Equal(t, "evening", got.Slug)
		}
	})

	t.Run("no window contains the punch", func(t *testing.T) {
		got := shift.Match(shifts, nil, day.Add(23*time.Hour))
		assert.Nil(t, got)
	})

	t.Run("overlapping windows tie-break on earliest start then slug", func(t *testing.T) {
		wide := mkShift("b-wide", day.Add(5*time.Hour), day.Add(23*time.Hour))
		alias := mkShift("a-morning", morning.StartAt, morning.EndAt)
		overlapping := []shift.Shift{morning, wide, alias}

		got := shift.Match(overlapping, nil, day.Add(8*time.Hour))
		if assert.NotNil(t, got) {
			assert.Equal(t, "b-wide", got.Slug)
		}

		// Equal starts fall back to slug order regardless of list order
		equalStarts := []shift.Shift{morning, alias}
		got = shift.Match(equalStarts, nil, day.Add(8*time.Hour))
		if assert.NotNil(t, got) {
			assert.Equal(t, "a-morning", got.Slug)
		}
	})
}

func TestHasForgottenToClockOut(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	morning := mkShift("morning", day.Add(6*time.Hour), day.Add(14*time.Hour))
	shifts := []shift.Shift{morning}

	autoJob := job.Job{AutoClockoutShiftEnd: true}
	timeIn := day.Add(7 * time.Hour)

	t.Run("open punch past shift end plus grace", func(t *testing.T) {
		now := day.Add(14*time.Hour + 20*time.Minute)
		assert.True(t, shift.HasForgottenToClockOut(autoJob, shifts, nil, timeIn, nil, now))
	})

	t.Run("still inside grace window", func(t *testing.T) {
		now := day.Add(14*time.Hour + 10*time.Minute)
		assert.False(t, shift.HasForgottenToClockOut(autoJob, shifts, nil, timeIn, nil, now))
	})

	t.Run("closed punch never flagged", func(t *testing.T) {
		now := day.Add(20 * time.Hour)
		out := day.Add(13 * time.Hour)
		assert.False(t, shift.HasForgottenToClockOut(autoJob, shifts, nil, timeIn, &out, now))
	})

	t.Run("feature flag off", func(t *testing.T) {
		now := day.Add(20 * time.Hour)
		assert.False(t, shift.HasForgottenToClockOut(job.Job{}, shifts, nil, timeIn, nil, now))
	})

	t.Run("unmatched punch never flagged", func(t *testing.T) {
		now := day.Add(20 * time.Hour)
		assert.False(t, shift.HasForgottenToClockOut(autoJob, shifts, nil, day.Add(2*time.Hour), nil, now))
	})
}
