package timesheet

import (
	"sort"
	"time"

	"go-timeclock/internal/geo"
	"go-timeclock/internal/job"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/shift"
	"go-timeclock/internal/timeoff"
)

// AggregateInput carries everything the pure aggregation needs. The
// service assembles it from storage; tests build it by hand.
type AggregateInput struct {
	Punches       []punch.Punch
	Leaves        []timeoff.LeaveRequest
	JobsByID      map[string]job.Job
	ShiftsByJobID map[string][]shift.Shift
	Window        Window
	WeekStart     time.Weekday
	Now           time.Time
}

// Aggregate buckets punches and approved leave into per-day and per-week
// totals over the window. Every punch is attributed to the local date of
// its clock-in, in full, even when it runs past local midnight. Weekly
// and window totals are sums of the already-rounded daily totals, never
// re-derived, so the visible numbers always add up.
func Aggregate(in AggregateInput) TimesheetResponse {
	days := in.Window.Days()

	punches := make([]punch.Punch, len(in.Punches))
	copy(punches, in.Punches)
	sort.Slice(punches, func(i, j int) bool {
		return punches[i].TimeIn.Before(punches[j].TimeIn)
	})

	punchHours := make(map[time.Time]float64, len(days))
	leaveHours := make(map[time.Time]float64, len(days))
	details := make(map[time.Time][]DayDetail, len(days))

	for _, p := range punches {
		if p.Status == punch.StatusRejected || p.Status == punch.StatusCancelled {
			continue
		}
		if !in.Window.Contains(p.TimeIn) {
			continue
		}
		day := in.Window.LocalDateOf(p.TimeIn)
		hours := p.ElapsedHours(in.Now)
		punchHours[day] += hours
		details[day] = append(details[day], punchDetail(p, in.JobsByID, hours, in.Now))
	}

	for _, l := range in.Leaves {
		if l.Status != timeoff.StatusApproved {
			continue
		}
		for _, day := range days {
			if !l.CoversDate(day.Year(), day.Month(), day.Day()) {
				continue
			}
			leaveHours[day] += l.HoursPerDay
			details[day] = append(details[day], DayDetail{
				Kind:  DetailKindLeave,
				RefID: l.ID.String(),
				Label: l.LeaveType,
				Hours: punch.RoundHours(l.HoursPerDay),
			})
		}
	}

	resp := TimesheetResponse{
		Timezone:  in.Window.loc.String(),
		StartDate: days[0].Format("2006-01-02"),
		EndDate:   days[len(days)-1].Format("2006-01-02"),
		Anomalies: detectAnomalies(punches, in),
	}

	for _, day := range days {
		ph := punch.RoundHours(punchHours[day])
		lh := punch.RoundHours(leaveHours[day])
		dayDetails := details[day]
		resp.Days = append(resp.Days, DayBucket{
			Date:            day.Format("2006-01-02"),
			Weekday:         day.Weekday().String(),
			PunchHours:      ph,
			LeaveHours:      lh,
			TotalHours:      ph + lh,
			MultipleEntries: len(dayDetails) > 1,
			Details:         dayDetails,
		})
	}

	for i, day := range days {
		bucket := resp.Days[i]
		if i == 0 || day.Weekday() == in.WeekStart {
			resp.Weeks = append(resp.Weeks, WeekBucket{
				StartDate: bucket.Date,
				EndDate:   bucket.Date,
			})
		}
		week := &resp.Weeks[len(resp.Weeks)-1]
		week.EndDate = bucket.Date
		week.TotalHours += bucket.TotalHours
	}

	for _, w := range resp.Weeks {
		resp.TotalHours += w.TotalHours
	}

	return resp
}

func punchDetail(p punch.Punch, jobs map[string]job.Job, hours float64, now time.Time) DayDetail {
	label := "unknown job"
	if j, ok := jobs[p.JobID.String()]; ok {
		label = j.Title
	}
	d := DayDetail{
		Kind:  DetailKindPunch,
		RefID: p.ID.String(),
		Label: label,
		Hours: punch.RoundHours(hours),
		Open:  p.IsOpen(),
	}
	in := p.TimeIn.UTC().Format(time.RFC3339)
	d.TimeIn = &in
	if p.TimeOut != nil {
		out := p.TimeOut.UTC().Format(time.RFC3339)
		d.TimeOut = &out
	}
	return d
}

// detectAnomalies reports conditions a manager should look at before
// approving the period. Cancelled punches are invisible to all three
// checks; rejected ones still participate in overlap detection because
// their recorded times are what caused the rejection in the first place.
func detectAnomalies(punches []punch.Punch, in AggregateInput) Anomalies {
	a := Anomalies{
		MissingClockOuts:   []string{},
		OverlapConflicts:   []OverlapConflict{},
		GeofenceViolations: []GeofenceViolation{},
	}

	active := punches[:0:0]
	for _, p := range punches {
		if p.Status == punch.StatusCancelled {
			continue
		}
		active = append(active, p)
	}

	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if active[i].ApplicantID != active[j].ApplicantID {
				continue
			}
			if punch.Overlaps(active[i].Interval(), active[j].Interval()) {
				a.OverlapConflicts = append(a.OverlapConflicts, OverlapConflict{
					PunchID:      active[i].ID.String(),
					OtherPunchID: active[j].ID.String(),
				})
			}
		}
	}

	for _, p := range active {
		if p.Status == punch.StatusRejected {
			continue
		}

		jobID := p.JobID.String()
		j, hasJob := in.JobsByID[jobID]
		if hasJob && p.IsOpen() {
			shifts := in.ShiftsByJobID[jobID]
			if shift.HasForgottenToClockOut(j, shifts, p.ShiftSlug, p.TimeIn, p.TimeOut, in.Now) {
				a.MissingClockOuts = append(a.MissingClockOuts, p.ID.String())
			}
		}

		outside := 0
		for _, s := range p.LocationSamples {
			if s.Status == geo.StatusOutside {
				outside++
			}
		}
		if outside > 0 {
			a.GeofenceViolations = append(a.GeofenceViolations, GeofenceViolation{
				PunchID:        p.ID.String(),
				OutsideSamples: outside,
			})
		}
	}

	return a
}
