package timeoff

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeoff_repo.go -destination=mock/timeoff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string, limit, offset int) ([]LeaveRequest, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindApprovedByWorkerInRange(ctx context.Context, companyID, workerID string, start, end time.Time) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	HasOverlappingPeriod(ctx context.Context, companyID, workerID string, startDate, endDate time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, limit, offset int) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	return &l, err
}

// FindApprovedByWorkerInRange feeds the timesheet aggregator. Only
// approved leave counts toward hours.
func (r *repository) FindApprovedByWorkerInRange(ctx context.Context, companyID, workerID string, start, end time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("worker_id = ?", workerID).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, workerID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("company_id = ?", companyID).
		Where("worker_id = ?", workerID).
		Where("status <> ?", StatusCancelled).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
