package punch

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-timeclock/internal/job"
	"go-timeclock/internal/messaging/kafka"
	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/shared/apperror"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, p *Punch) error
	findByIDFn       func(ctx context.Context, companyID, id string) (*Punch, error)
	findOpenFn       func(ctx context.Context, companyID, workerID, jobID string) (*Punch, error)
	findAllFn        func(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]Punch, error)
	updateFn         func(ctx context.Context, p *Punch) error
	hasOverlappingFn func(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, p *Punch) error {
	return f.createFn(ctx, p)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Punch, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) FindOpenByWorkerAndJob(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
	return f.findOpenFn(ctx, companyID, workerID, jobID)
}
func (f *fakeRepo) FindAllByApplicantInRange(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]Punch, error) {
	return f.findAllFn(ctx, companyID, applicantID, start, end)
}
func (f *fakeRepo) Update(ctx context.Context, p *Punch) error {
	return f.updateFn(ctx, p)
}
func (f *fakeRepo) HasOverlappingPunch(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error) {
	return f.hasOverlappingFn(ctx, companyID, applicantID, candidate, excludeID)
}

type fakeJobRepo struct {
	findByIDFn func(ctx context.Context, companyID, id string) (*job.Job, error)
}

func (f *fakeJobRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*job.Job, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeJobRepo) FindAllByCompany(ctx context.Context, companyID string) ([]job.Job, error) {
	return nil, nil
}

type fakeOutbox struct {
	created   []kafka.OutboxEvent
	createErr error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error {
	return nil
}

func newTestIDs() (companyID, workerID, jobID string) {
	return uuid.New().String(), uuid.New().String(), uuid.New().String()
}

func plainJob(id string) *job.Job {
	jobUUID := uuid.MustParse(id)
	return &job.Job{ID: jobUUID, Title: "Server"}
}

func geofencedJob(id string) *job.Job {
	j := plainJob(id)
	j.GeofenceEnabled = true
	j.Latitude = -6.2
	j.Longitude = 106.8167
	j.GeofenceRadiusM = 100
	return j
}

func TestService_ClockIn(t *testing.T) {
	companyID, workerID, jobID := newTestIDs()
	ctx := context.Background()

	t.Run("opens a pending punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var saved *Punch
		repo := &fakeRepo{
			findOpenFn: func(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, p *Punch) error { saved = p; return nil },
		}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return plainJob(jobID), nil
		}}
		svc := NewService(db, repo, jobs)

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.ClockIn(ctx, companyID, workerID, workerID, ClockInRequest{JobID: jobID})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, resp.Status)
		assert.Nil(t, resp.TimeOut)
		require.NotNil(t, saved)
		assert.Empty(t, saved.LocationSamples)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("records a sample when the job geofences", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var saved *Punch
		repo := &fakeRepo{
			findOpenFn: func(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, p *Punch) error { saved = p; return nil },
		}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return geofencedJob(jobID), nil
		}}
		svc := NewService(db, repo, jobs)

		lat, lon := -6.2, 106.8167
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err = svc.ClockIn(ctx, companyID, workerID, workerID, ClockInRequest{
			JobID: jobID, Latitude: &lat, Longitude: &lon,
		})
		require.NoError(t, err)
		require.Len(t, saved.LocationSamples, 1)
		require.NotNil(t, saved.LocationSamples[0].WithinGeofence)
		assert.True(t, *saved.LocationSamples[0].WithinGeofence)
	})

	t.Run("rejects a second open punch", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &fakeRepo{
			findOpenFn: func(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
				return &Punch{ID: uuid.New()}, nil
			},
		}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return plainJob(jobID), nil
		}}
		svc := NewService(db, repo, jobs)

		_, err = svc.ClockIn(ctx, companyID, workerID, workerID, ClockInRequest{JobID: jobID})
		assert.ErrorIs(t, err, puncherrors.ErrAlreadyClockedIn)
	})

	t.Run("maps the index race to the same rejection", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &fakeRepo{
			findOpenFn: func(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, p *Punch) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return plainJob(jobID), nil
		}}
		svc := NewService(db, repo, jobs)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.ClockIn(ctx, companyID, workerID, workerID, ClockInRequest{JobID: jobID})
		assert.ErrorIs(t, err, puncherrors.ErrAlreadyClockedIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown job", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := &fakeRepo{}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return nil, gorm.ErrRecordNotFound
		}}
		svc := NewService(db, repo, jobs)

		_, err = svc.ClockIn(ctx, companyID, workerID, workerID, ClockInRequest{JobID: jobID})
		assert.ErrorIs(t, err, puncherrors.ErrJobNotFound)
	})
}

func TestService_ClockOut(t *testing.T) {
	companyID, workerID, jobID := newTestIDs()
	ctx := context.Background()

	openPunch := func() *Punch {
		return &Punch{
			ID:          uuid.New(),
			CompanyID:   uuid.MustParse(companyID),
			WorkerID:    uuid.MustParse(workerID),
			ApplicantID: uuid.MustParse(workerID),
			JobID:       uuid.MustParse(jobID),
			TimeIn:      time.Now().UTC().Add(-3 * time.Hour),
			Status:      StatusPending,
		}
	}

	t.Run("closes the punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := openPunch()
		var saved *Punch
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { saved = p; return nil },
		}
		jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
			return plainJob(jobID), nil
		}}
		svc := NewService(db, repo, jobs)

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.ClockOut(ctx, companyID, workerID, p.ID.String(), ClockOutRequest{})
		require.NoError(t, err)
		assert.NotNil(t, resp.TimeOut)
		assert.InDelta(t, 3.0, resp.ElapsedHours, 0.01)
		require.NotNil(t, saved.TimeOut)
	})

	t.Run("rejects a repeat clock-out", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := openPunch()
		out := p.TimeIn.Add(time.Hour)
		p.TimeOut = &out
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.ClockOut(ctx, companyID, workerID, p.ID.String(), ClockOutRequest{})
		assert.ErrorIs(t, err, puncherrors.ErrPunchAlreadyClosed)
	})

	t.Run("rejects another worker's punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := openPunch()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.ClockOut(ctx, companyID, uuid.New().String(), p.ID.String(), ClockOutRequest{})
		assert.ErrorIs(t, err, puncherrors.ErrNotOwner)
	})
}

func TestService_RecordLocation_NoTracking(t *testing.T) {
	companyID, workerID, jobID := newTestIDs()
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := &Punch{
		ID:       uuid.New(),
		WorkerID: uuid.MustParse(workerID),
		JobID:    uuid.MustParse(jobID),
		TimeIn:   time.Now().UTC().Add(-time.Hour),
		Status:   StatusPending,
	}
	updated := false
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		updateFn:   func(ctx context.Context, p *Punch) error { updated = true; return nil },
	}
	jobs := &fakeJobRepo{findByIDFn: func(ctx context.Context, companyID, id string) (*job.Job, error) {
		return plainJob(jobID), nil
	}}
	svc := NewService(db, repo, jobs)

	mock.ExpectBegin()
	mock.ExpectRollback()
	resp, err := svc.RecordLocation(ctx, companyID, workerID, p.ID.String(), LocationPingRequest{
		Latitude: -6.2, Longitude: 106.8,
	})
	require.NoError(t, err)
	assert.False(t, resp.Recorded)
	assert.False(t, updated)
}

func TestService_Edit(t *testing.T) {
	companyID, workerID, _ := newTestIDs()
	ctx := context.Background()

	pending := func() *Punch {
		out := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)
		return &Punch{
			ID:          uuid.New(),
			WorkerID:    uuid.MustParse(workerID),
			ApplicantID: uuid.MustParse(workerID),
			TimeIn:      time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			TimeOut:     &out,
			Status:      StatusPending,
		}
	}

	t.Run("rewrites the interval", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := pending()
		var saved *Punch
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { saved = p; return nil },
			hasOverlappingFn: func(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error) {
				require.NotNil(t, excludeID)
				assert.Equal(t, p.ID.String(), *excludeID)
				return false, nil
			},
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		newOut := "2026-03-03T18:30:00Z"
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Edit(ctx, companyID, workerID, rbac.RoleWorker, p.ID.String(), EditPunchRequest{
			TimeIn:  "2026-03-03T10:00:00Z",
			TimeOut: &newOut,
		})
		require.NoError(t, err)
		assert.Equal(t, 8.5, resp.ElapsedHours)
		assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), saved.TimeIn)
	})

	t.Run("rejects inverted times", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		svc := NewService(db, &fakeRepo{}, &fakeJobRepo{})
		out := "2026-03-03T08:00:00Z"
		_, err = svc.Edit(ctx, companyID, workerID, rbac.RoleWorker, uuid.New().String(), EditPunchRequest{
			TimeIn:  "2026-03-03T09:00:00Z",
			TimeOut: &out,
		})
		assert.ErrorIs(t, err, puncherrors.ErrInvalidTimeRange)
	})

	t.Run("rejects overlap with a sibling punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := pending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			hasOverlappingFn: func(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error) {
				return true, nil
			},
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Edit(ctx, companyID, workerID, rbac.RoleWorker, p.ID.String(), EditPunchRequest{TimeIn: "2026-03-03T09:00:00Z"})
		assert.ErrorIs(t, err, puncherrors.ErrPunchOverlap)
	})

	t.Run("a worker cannot correct someone else's punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := pending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Edit(ctx, companyID, uuid.New().String(), rbac.RoleWorker, p.ID.String(), EditPunchRequest{TimeIn: "2026-03-03T09:00:00Z"})
		assert.ErrorIs(t, err, puncherrors.ErrNotOwner)
	})

	t.Run("a manager corrects any worker's punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := pending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { return nil },
			hasOverlappingFn: func(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error) {
				return false, nil
			},
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err = svc.Edit(ctx, companyID, uuid.New().String(), rbac.RoleManager, p.ID.String(), EditPunchRequest{TimeIn: "2026-03-03T09:30:00Z"})
		require.NoError(t, err)
	})

	t.Run("rejects a finalized punch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := pending()
		p.Status = StatusApproved
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Edit(ctx, companyID, workerID, rbac.RoleWorker, p.ID.String(), EditPunchRequest{TimeIn: "2026-03-03T09:00:00Z"})
		assert.ErrorIs(t, err, puncherrors.ErrNotEditable)
	})
}

func TestService_Decisions(t *testing.T) {
	companyID, workerID, _ := newTestIDs()
	managerID := uuid.New().String()
	ctx := context.Background()

	closedPending := func() *Punch {
		in := time.Now().UTC().Add(-5 * time.Hour)
		out := in.Add(4 * time.Hour)
		return &Punch{
			ID:          uuid.New(),
			WorkerID:    uuid.MustParse(workerID),
			ApplicantID: uuid.MustParse(workerID),
			JobID:       uuid.New(),
			TimeIn:      in,
			TimeOut:     &out,
			Status:      StatusPending,
		}
	}

	t.Run("approval locks paid hours and queues an event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := closedPending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { return nil },
		}
		outbox := &fakeOutbox{}
		svc := NewServiceWithOutbox(db, repo, &fakeJobRepo{}, outbox)

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Approve(ctx, companyID, managerID, p.ID.String(), DecisionRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, resp.Status)
		require.NotNil(t, resp.PaidHours)
		assert.Equal(t, 4.0, *resp.PaidHours)
		require.Len(t, outbox.created, 1)
		assert.Equal(t, p.ID.String(), outbox.created[0].AggregateID)
	})

	t.Run("a failed outbox write rolls the decision back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := closedPending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { return nil },
		}
		outbox := &fakeOutbox{createErr: errors.New("outbox insert failed")}
		svc := NewServiceWithOutbox(db, repo, &fakeJobRepo{}, outbox)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Approve(ctx, companyID, managerID, p.ID.String(), DecisionRequest{})
		require.Error(t, err)
		appErr := apperror.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperror.CodeStorageUnavailable, appErr.Code)
		assert.Empty(t, outbox.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open punches are not decidable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := closedPending()
		p.TimeOut = nil
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Approve(ctx, companyID, managerID, p.ID.String(), DecisionRequest{})
		assert.ErrorIs(t, err, puncherrors.ErrNotDecidable)
	})

	t.Run("rejection leaves paid hours empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := closedPending()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { return nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Reject(ctx, companyID, managerID, p.ID.String(), DecisionRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, resp.Status)
		assert.Nil(t, resp.PaidHours)
	})

	t.Run("decided punches stay decided", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := closedPending()
		p.Status = StatusApproved
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Reject(ctx, companyID, managerID, p.ID.String(), DecisionRequest{})
		assert.ErrorIs(t, err, puncherrors.ErrNotDecidable)
	})
}

func TestService_Cancel(t *testing.T) {
	companyID, workerID, _ := newTestIDs()
	ctx := context.Background()

	t.Run("pending punch cancels", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		p := &Punch{
			ID:       uuid.New(),
			WorkerID: uuid.MustParse(workerID),
			TimeIn:   time.Now().UTC().Add(-time.Hour),
			Status:   StatusPending,
		}
		var saved *Punch
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
			updateFn:   func(ctx context.Context, p *Punch) error { saved = p; return nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Cancel(ctx, companyID, workerID, p.ID.String())
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, resp.Status)
		assert.Equal(t, StatusCancelled, saved.Status)
	})

	t.Run("approved punch does not cancel", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		out := time.Now().UTC()
		p := &Punch{
			ID:       uuid.New(),
			WorkerID: uuid.MustParse(workerID),
			TimeIn:   out.Add(-time.Hour),
			TimeOut:  &out,
			Status:   StatusApproved,
		}
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID, id string) (*Punch, error) { return p, nil },
		}
		svc := NewService(db, repo, &fakeJobRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Cancel(ctx, companyID, workerID, p.ID.String())
		assert.ErrorIs(t, err, puncherrors.ErrNotCancellable)
	})
}
