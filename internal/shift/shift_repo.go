package shift

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	FindAllByJob(ctx context.Context, companyID, jobID string) ([]Shift, error)
	FindBySlugAndJob(ctx context.Context, companyID, jobID, slug string) (*Shift, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAllByJob(ctx context.Context, companyID, jobID string) ([]Shift, error) {
	var shifts []Shift
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("job_id = ?", jobID).
		Order("start_at ASC, slug ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *repository) FindBySlugAndJob(ctx context.Context, companyID, jobID, slug string) (*Shift, error) {
	var s Shift
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("job_id = ?", jobID).
		First(&s, "slug = ?", slug).Error
	return &s, err
}
