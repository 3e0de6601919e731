package punch

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=punch_repo.go -destination=mock/punch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Punch) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Punch, error)
	FindOpenByWorkerAndJob(ctx context.Context, companyID, workerID, jobID string) (*Punch, error)
	FindAllByApplicantInRange(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]Punch, error)
	Update(ctx context.Context, p *Punch) error
	HasOverlappingPunch(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds the statement to the transaction when one is set.
// WithContext clones the statement first, so swapping the pool never
// leaks into the shared handle.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, p *Punch) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Punch, error) {
	var p Punch
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindOpenByWorkerAndJob(ctx context.Context, companyID, workerID, jobID string) (*Punch, error) {
	var p Punch
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("worker_id = ?", workerID).
		Where("job_id = ?", jobID).
		Where("time_out IS NULL").
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByApplicantInRange(ctx context.Context, companyID, applicantID string, start, end time.Time) ([]Punch, error) {
	var punches []Punch
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("applicant_id = ?", applicantID).
		Where("time_in >= ? AND time_in < ?", start, end).
		Order("time_in ASC").
		Find(&punches).Error
	return punches, err
}

func (r *repository) Update(ctx context.Context, p *Punch) error {
	return r.conn(ctx).Save(p).Error
}

// HasOverlappingPunch checks the candidate interval against every
// non-cancelled punch of the applicant, across all jobs. A stored punch
// without a time_out is open-ended. excludeID keeps an edited punch from
// colliding with itself.
func (r *repository) HasOverlappingPunch(ctx context.Context, companyID, applicantID string, candidate Interval, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&Punch{}).
		Where("company_id = ?", companyID).
		Where("applicant_id = ?", applicantID).
		Where("status <> ?", StatusCancelled).
		Where("time_out IS NULL OR time_out > ?", candidate.TimeIn)

	if candidate.TimeOut != nil {
		db = db.Where("time_in < ?", *candidate.TimeOut)
	}
	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
