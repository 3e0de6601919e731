package timesheet

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-timeclock/internal/job"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shift"
	"go-timeclock/internal/timeoff"
)

//go:generate mockgen -source=timesheet_service.go -destination=timesheet_service_mock.go -package=timesheet

type Service interface {
	Get(ctx context.Context, companyID, workerID, applicantID string, q TimesheetQuery) (TimesheetResponse, error)
}

type TimesheetQuery struct {
	StartDate string
	EndDate   string
	Timezone  string
	WeekStart string
}

var (
	errInvalidTimezone = apperror.New(
		apperror.CodeInvalidInput,
		"unknown timezone, expected an IANA name like America/Chicago",
		http.StatusBadRequest,
	)
	errInvalidWeekStart = apperror.New(
		apperror.CodeInvalidInput,
		"invalid week_start, expected a weekday name",
		http.StatusBadRequest,
	)
)

type service struct {
	punches punch.Repository
	leaves  timeoff.Repository
	jobs    job.Repository
	shifts  shift.Repository
	logger  *zap.Logger
	nowFn   func() time.Time
}

func NewService(punches punch.Repository, leaves timeoff.Repository, jobs job.Repository, shifts shift.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{
		punches: punches,
		leaves:  leaves,
		jobs:    jobs,
		shifts:  shifts,
		logger:  l,
		nowFn:   time.Now,
	}
}

func (s *service) Get(ctx context.Context, companyID, workerID, applicantID string, q TimesheetQuery) (TimesheetResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return TimesheetResponse{}, apperror.RequiredField("company_id")
	}
	if _, err := uuid.Parse(applicantID); err != nil {
		return TimesheetResponse{}, apperror.RequiredField("applicant_id")
	}

	loc, err := resolveTimezone(q.Timezone)
	if err != nil {
		return TimesheetResponse{}, err
	}
	weekStart, err := resolveWeekStart(q.WeekStart)
	if err != nil {
		return TimesheetResponse{}, err
	}
	window, err := NewWindow(q.StartDate, q.EndDate, loc)
	if err != nil {
		return TimesheetResponse{}, err
	}

	start, end := window.UTCBounds()
	punches, err := s.punches.FindAllByApplicantInRange(ctx, companyID, applicantID, start, end)
	if err != nil {
		return TimesheetResponse{}, apperror.Wrap(err, apperror.CodeStorageUnavailable, "failed to load punches", http.StatusServiceUnavailable)
	}

	var leaves []timeoff.LeaveRequest
	if _, err := uuid.Parse(workerID); err == nil {
		leaves, err = s.leaves.FindApprovedByWorkerInRange(ctx, companyID, workerID, start, end)
		if err != nil {
			return TimesheetResponse{}, apperror.Wrap(err, apperror.CodeStorageUnavailable, "failed to load leave requests", http.StatusServiceUnavailable)
		}
	}

	jobsByID, shiftsByJobID, err := s.loadJobContext(ctx, companyID, punches)
	if err != nil {
		return TimesheetResponse{}, err
	}

	resp := Aggregate(AggregateInput{
		Punches:       punches,
		Leaves:        leaves,
		JobsByID:      jobsByID,
		ShiftsByJobID: shiftsByJobID,
		Window:        window,
		WeekStart:     weekStart,
		Now:           s.nowFn(),
	})
	resp.ApplicantID = applicantID

	contextutil.GetLogger(ctx, s.logger).Debug("timesheet aggregated",
		zap.String("applicant_id", applicantID),
		zap.String("start_date", resp.StartDate),
		zap.String("end_date", resp.EndDate),
		zap.Int("punches", len(punches)),
		zap.Int("leaves", len(leaves)),
	)
	return resp, nil
}

// loadJobContext fetches the jobs and shift schedules referenced by the
// period's punches, once per distinct job.
func (s *service) loadJobContext(ctx context.Context, companyID string, punches []punch.Punch) (map[string]job.Job, map[string][]shift.Shift, error) {
	jobsByID := make(map[string]job.Job)
	shiftsByJobID := make(map[string][]shift.Shift)

	for _, p := range punches {
		jobID := p.JobID.String()
		if _, seen := jobsByID[jobID]; seen {
			continue
		}

		j, err := s.jobs.FindByIDAndCompany(ctx, companyID, jobID)
		if err != nil {
			return nil, nil, apperror.Wrap(err, apperror.CodeStorageUnavailable, "failed to load job", http.StatusServiceUnavailable)
		}
		if j == nil {
			continue
		}
		jobsByID[jobID] = *j

		shifts, err := s.shifts.FindAllByJob(ctx, companyID, jobID)
		if err != nil {
			return nil, nil, apperror.Wrap(err, apperror.CodeStorageUnavailable, "failed to load shifts", http.StatusServiceUnavailable)
		}
		shiftsByJobID[jobID] = shifts
	}

	return jobsByID, shiftsByJobID, nil
}

func resolveTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errInvalidTimezone
	}
	return loc, nil
}

func resolveWeekStart(name string) (time.Weekday, error) {
	if name == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, errInvalidWeekStart
}
