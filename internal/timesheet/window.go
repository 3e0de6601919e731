package timesheet

import (
	"net/http"
	"time"

	"go-timeclock/internal/shared/apperror"
)

// Window is the one place timezone conversion happens. It is built from
// caller-local calendar dates plus a location; every comparison against
// stored UTC timestamps goes through its methods. No other code in this
// package may call In or convert zones, which is what keeps the classic
// localized-date-versus-UTC-timestamp mismatch out of the aggregation.
type Window struct {
	start time.Time // local midnight of the first day
	end   time.Time // local midnight after the last day, exclusive
	loc   *time.Location
}

var errInvalidWindow = apperror.New(
	apperror.CodeValidationFailed,
	"window start_date must be before or equal end_date",
	http.StatusUnprocessableEntity,
)

var errInvalidWindowDate = apperror.New(
	apperror.CodeInvalidInput,
	"invalid window date, expected YYYY-MM-DD",
	http.StatusBadRequest,
)

// NewWindow builds an inclusive date window from YYYY-MM-DD bounds
// interpreted in loc.
func NewWindow(startDate, endDate string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return Window{}, errInvalidWindowDate
	}
	last, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return Window{}, errInvalidWindowDate
	}
	if last.Before(start) {
		return Window{}, errInvalidWindow
	}

	return Window{
		start: start,
		end:   last.AddDate(0, 0, 1),
		loc:   loc,
	}, nil
}

// UTCBounds returns the window edges as UTC instants for storage queries.
func (w Window) UTCBounds() (time.Time, time.Time) {
	return w.start.UTC(), w.end.UTC()
}

// Days returns every local day of the window, in order, as local
// midnights.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.start; d.Before(w.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// LocalDateOf maps a stored UTC instant to the local midnight of the day
// it falls on in the window's timezone.
func (w Window) LocalDateOf(utc time.Time) time.Time {
	local := utc.In(w.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, w.loc)
}

// Contains reports whether the UTC instant falls on a local date inside
// the window.
func (w Window) Contains(utc time.Time) bool {
	d := w.LocalDateOf(utc)
	return !d.Before(w.start) && d.Before(w.end)
}
