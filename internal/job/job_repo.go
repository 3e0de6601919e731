package job

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=job_repo.go -destination=mock/job_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Job, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Job, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&j, "id = ?", id).Error
	return &j, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("title ASC").
		Find(&jobs).Error
	return jobs, err
}
