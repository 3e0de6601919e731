package punch

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/job"
	"go-timeclock/internal/messaging/kafka"
	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/shared/apperror"
)

//go:generate mockgen -source=punch_service.go -destination=mock/punch_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, workerID, applicantID string, req ClockInRequest) (PunchResponse, error)
	ClockOut(ctx context.Context, companyID, workerID, id string, req ClockOutRequest) (PunchResponse, error)
	RecordLocation(ctx context.Context, companyID, workerID, id string, req LocationPingRequest) (LocationPingResponse, error)
	Edit(ctx context.Context, companyID, actorID, actorRole, id string, req EditPunchRequest) (PunchResponse, error)
	Approve(ctx context.Context, companyID, managerID, id string, req DecisionRequest) (PunchResponse, error)
	Reject(ctx context.Context, companyID, managerID, id string, req DecisionRequest) (PunchResponse, error)
	Cancel(ctx context.Context, companyID, workerID, id string) (PunchResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PunchResponse, error)
	ListForApplicant(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]PunchResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	jobs   job.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, jobs job.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("punch.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.service")
	}
	return &service{db: db, repo: repo, jobs: jobs, logger: l}
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, jobs job.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	s := NewService(db, repo, jobs, logger...).(*service)
	s.outbox = outbox
	return s
}

// storageErr marks a storage boundary failure as transient so the caller
// knows a retry may help. Validation failures never take this path.
func storageErr(err error) error {
	return apperror.Wrap(
		err,
		apperror.CodeStorageUnavailable,
		"storage is temporarily unavailable",
		http.StatusServiceUnavailable,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *service) ClockIn(ctx context.Context, companyID, workerID, applicantID string, req ClockInRequest) (PunchResponse, error) {
	s.logger.Debug("clock in requested",
		zap.String("company_id", companyID),
		zap.String("worker_id", workerID),
		zap.String("job_id", req.JobID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidCompanyID
	}
	workerUUID, err := uuid.Parse(workerID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidWorkerID
	}
	applicantUUID, err := uuid.Parse(applicantID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidWorkerID
	}
	jobUUID, err := uuid.Parse(req.JobID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidJobID
	}

	j, err := s.jobs.FindByIDAndCompany(ctx, companyID, req.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, puncherrors.ErrJobNotFound
		}
		return PunchResponse{}, storageErr(err)
	}

	// Advisory check. Two concurrent clock-ins can both pass it, so the
	// partial unique index on (worker_id, job_id, open) is the real gate
	// and a unique violation below maps to the same rejection.
	_, err = s.repo.FindOpenByWorkerAndJob(ctx, companyID, workerID, req.JobID)
	if err == nil {
		return PunchResponse{}, puncherrors.ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PunchResponse{}, storageErr(err)
	}

	now := time.Now().UTC()
	p := &Punch{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		WorkerID:    workerUUID,
		ApplicantID: applicantUUID,
		JobID:       jobUUID,
		ShiftSlug:   req.ShiftSlug,
		TimeIn:      now,
		Status:      StatusPending,
		UserNote:    req.UserNote,
	}

	if sample, err := classifyPing(*j, req.Latitude, req.Longitude, req.AccuracyM, now); err != nil {
		return PunchResponse{}, err
	} else if sample != nil {
		p.LocationSamples = append(p.LocationSamples, *sample)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return PunchResponse{}, puncherrors.ErrAlreadyClockedIn
		}
		s.logger.Error("clock in persist failed", zap.Error(err))
		return PunchResponse{}, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, storageErr(err)
	}

	s.logger.Info("clock in success",
		zap.String("punch_id", p.ID.String()),
		zap.String("worker_id", workerID),
		zap.String("job_id", req.JobID),
	)
	return mapToResponse(*p, now), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, workerID, id string, req ClockOutRequest) (PunchResponse, error) {
	s.logger.Debug("clock out requested",
		zap.String("punch_id", id),
		zap.String("company_id", companyID),
		zap.String("worker_id", workerID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findForWorker(ctx, qtx, companyID, workerID, id)
	if err != nil {
		return PunchResponse{}, err
	}
	if !p.IsOpen() {
		// Repeat clock-outs are rejected, not silently accepted.
		return PunchResponse{}, puncherrors.ErrPunchAlreadyClosed
	}

	now := time.Now().UTC()
	if !now.After(p.TimeIn) {
		return PunchResponse{}, puncherrors.ErrInvalidTimeRange
	}

	j, err := s.jobs.FindByIDAndCompany(ctx, companyID, p.JobID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PunchResponse{}, storageErr(err)
	}
	if err == nil {
		if sample, cerr := classifyPing(*j, req.Latitude, req.Longitude, req.AccuracyM, now); cerr != nil {
			return PunchResponse{}, cerr
		} else if sample != nil {
			p.LocationSamples = append(p.LocationSamples, *sample)
		}
	}

	p.TimeOut = &now
	if req.UserNote != nil {
		p.UserNote = req.UserNote
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("clock out persist failed", zap.String("punch_id", id), zap.Error(err))
		return PunchResponse{}, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, storageErr(err)
	}

	s.logger.Info("clock out success",
		zap.String("punch_id", id),
		zap.Float64("elapsed_hours", RoundHours(p.ElapsedHours(now))),
	)
	return mapToResponse(*p, now), nil
}

func (s *service) RecordLocation(ctx context.Context, companyID, workerID, id string, req LocationPingRequest) (LocationPingResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LocationPingResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findForWorker(ctx, qtx, companyID, workerID, id)
	if err != nil {
		return LocationPingResponse{}, err
	}
	if !p.IsOpen() {
		return LocationPingResponse{}, puncherrors.ErrPunchAlreadyClosed
	}

	j, err := s.jobs.FindByIDAndCompany(ctx, companyID, p.JobID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LocationPingResponse{}, puncherrors.ErrJobNotFound
		}
		return LocationPingResponse{}, storageErr(err)
	}
	if !j.TracksLocation() {
		// Not an error: the job simply has no location feature enabled.
		return LocationPingResponse{Recorded: false}, nil
	}

	now := time.Now().UTC()
	classification, err := geo.Classify(
		geo.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude},
		j.AnchorCoordinates(),
		j.GeofenceRadiusM,
		j.GraceDistanceFt,
	)
	if err != nil {
		return LocationPingResponse{}, err
	}

	p.LocationSamples = append(p.LocationSamples, LocationSample{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyM:      req.AccuracyM,
		Status:         classification.Status,
		WithinGeofence: classification.WithinGeofence(),
		DistanceMeters: classification.DistanceMeters,
		RecordedAt:     now,
	})

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("record location persist failed", zap.String("punch_id", id), zap.Error(err))
		return LocationPingResponse{}, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return LocationPingResponse{}, storageErr(err)
	}

	return pingResponse(classification), nil
}

func (s *service) Edit(ctx context.Context, companyID, actorID, actorRole, id string, req EditPunchRequest) (PunchResponse, error) {
	s.logger.Debug("edit punch requested",
		zap.String("punch_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("actor_role", actorRole),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidWorkerID
	}

	timeIn, err := parseTimestamp(req.TimeIn)
	if err != nil {
		return PunchResponse{}, err
	}
	var timeOut *time.Time
	if req.TimeOut != nil {
		t, err := parseTimestamp(*req.TimeOut)
		if err != nil {
			return PunchResponse{}, err
		}
		timeOut = &t
	}

	candidate := Interval{TimeIn: timeIn, TimeOut: timeOut}
	if !candidate.Valid() {
		return PunchResponse{}, puncherrors.ErrInvalidTimeRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, puncherrors.ErrPunchNotFound
		}
		return PunchResponse{}, storageErr(err)
	}
	// Workers correct only their own punches; managers and admins may
	// correct anyone's.
	if p.WorkerID.String() != actorID && actorRole != rbac.RoleManager && actorRole != rbac.RoleAdmin {
		return PunchResponse{}, puncherrors.ErrNotOwner
	}
	if p.IsFinalized() {
		return PunchResponse{}, puncherrors.ErrNotEditable
	}

	// The punch under edit must not collide with itself.
	overlap, err := qtx.HasOverlappingPunch(ctx, companyID, p.ApplicantID.String(), candidate, &id)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	if overlap {
		s.logger.Warn("edit punch overlap detected",
			zap.String("punch_id", id),
			zap.String("applicant_id", p.ApplicantID.String()),
		)
		return PunchResponse{}, puncherrors.ErrPunchOverlap
	}

	p.TimeIn = timeIn
	p.TimeOut = timeOut

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("edit punch persist failed", zap.String("punch_id", id), zap.Error(err))
		return PunchResponse{}, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, storageErr(err)
	}

	s.logger.Info("edit punch success", zap.String("punch_id", id))
	return mapToResponse(*p, time.Now().UTC()), nil
}

func (s *service) Approve(ctx context.Context, companyID, managerID, id string, req DecisionRequest) (PunchResponse, error) {
	return s.decide(ctx, companyID, managerID, id, StatusApproved, req.ManagerNote)
}

func (s *service) Reject(ctx context.Context, companyID, managerID, id string, req DecisionRequest) (PunchResponse, error) {
	return s.decide(ctx, companyID, managerID, id, StatusRejected, req.ManagerNote)
}

func (s *service) decide(ctx context.Context, companyID, managerID, id, targetStatus string, managerNote *string) (PunchResponse, error) {
	s.logger.Debug("punch decision requested",
		zap.String("punch_id", id),
		zap.String("company_id", companyID),
		zap.String("manager_id", managerID),
		zap.String("target_status", targetStatus),
	)

	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidManagerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, puncherrors.ErrPunchNotFound
		}
		return PunchResponse{}, storageErr(err)
	}
	if p.IsOpen() || p.Status != StatusPending {
		s.logger.Warn("punch decision invalid state",
			zap.String("punch_id", id),
			zap.String("status", p.Status),
			zap.Bool("open", p.IsOpen()),
		)
		return PunchResponse{}, puncherrors.ErrNotDecidable
	}

	now := time.Now().UTC()
	p.Status = targetStatus
	p.ApprovingManagerID = &managerUUID
	p.ManagerNote = managerNote
	if targetStatus == StatusApproved {
		hours := RoundHours(p.ElapsedHours(now))
		p.PaidHours = &hours
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("punch decision persist failed", zap.String("punch_id", id), zap.Error(err))
		return PunchResponse{}, storageErr(err)
	}

	if s.outbox != nil {
		eventType := events.PunchApprovedEvent
		if targetStatus == StatusRejected {
			eventType = events.PunchRejectedEvent
		}
		event, err := kafka.NewOutboxEvent(ctx, "punch", p.ID.String(), eventType, events.PunchDecidedTopic, events.PunchDecidedEvent{
			EventType:   eventType,
			PunchID:     p.ID.String(),
			CompanyID:   companyID,
			WorkerID:    p.WorkerID.String(),
			JobID:       p.JobID.String(),
			ManagerID:   managerID,
			PaidHours:   p.PaidHours,
			ManagerNote: managerNote,
			OccurredAt:  now,
		})
		if err != nil {
			return PunchResponse{}, storageErr(err)
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("punch decision outbox failed", zap.String("punch_id", id), zap.Error(err))
			return PunchResponse{}, storageErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return PunchResponse{}, storageErr(err)
	}

	s.logger.Info("punch decision success",
		zap.String("punch_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*p, now), nil
}

func (s *service) Cancel(ctx context.Context, companyID, workerID, id string) (PunchResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, storageErr(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findForWorker(ctx, qtx, companyID, workerID, id)
	if err != nil {
		return PunchResponse{}, err
	}
	if p.Status != StatusPending {
		return PunchResponse{}, puncherrors.ErrNotCancellable
	}

	// Cancellation is a status transition, never a delete.
	p.Status = StatusCancelled

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("cancel punch persist failed", zap.String("punch_id", id), zap.Error(err))
		return PunchResponse{}, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, storageErr(err)
	}

	s.logger.Info("cancel punch success", zap.String("punch_id", id))
	return mapToResponse(*p, time.Now().UTC()), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PunchResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, puncherrors.ErrPunchNotFound
		}
		return PunchResponse{}, storageErr(err)
	}
	return mapToResponse(*p, time.Now().UTC()), nil
}

func (s *service) ListForApplicant(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]PunchResponse, error) {
	punches, err := s.repo.FindAllByApplicantInRange(ctx, companyID, applicantID, start, end)
	if err != nil {
		return nil, storageErr(err)
	}

	now := time.Now().UTC()
	resp := make([]PunchResponse, len(punches))
	for i, p := range punches {
		resp[i] = mapToResponse(p, now)
	}
	return resp, nil
}

// findForWorker loads a punch and enforces that the acting worker owns it.
func (s *service) findForWorker(ctx context.Context, repo Repository, companyID, workerID, id string) (*Punch, error) {
	p, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, puncherrors.ErrPunchNotFound
		}
		return nil, storageErr(err)
	}
	if p.WorkerID.String() != workerID {
		return nil, puncherrors.ErrNotOwner
	}
	return p, nil
}

// classifyPing builds one location sample when the job tracks location and
// the request carries coordinates; otherwise reports nothing to record.
func classifyPing(j job.Job, lat, lon *float64, accuracyM float64, now time.Time) (*LocationSample, error) {
	if !j.TracksLocation() || lat == nil || lon == nil {
		return nil, nil
	}

	classification, err := geo.Classify(
		geo.Coordinates{Latitude: *lat, Longitude: *lon},
		j.AnchorCoordinates(),
		j.GeofenceRadiusM,
		j.GraceDistanceFt,
	)
	if err != nil {
		return nil, err
	}

	return &LocationSample{
		Latitude:       *lat,
		Longitude:      *lon,
		AccuracyM:      accuracyM,
		Status:         classification.Status,
		WithinGeofence: classification.WithinGeofence(),
		DistanceMeters: classification.DistanceMeters,
		RecordedAt:     now,
	}, nil
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, puncherrors.ErrInvalidTimestamp
	}
	return t.UTC(), nil
}
