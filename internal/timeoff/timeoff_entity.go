package timeoff

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	WorkerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_worker_dates"`

	LeaveType   string    `gorm:"type:varchar(30);not null;default:'PTO'"`
	StartDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_worker_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_worker_dates"`
	TotalDays   int       `gorm:"type:int;not null;default:1"`
	HoursPerDay float64   `gorm:"not null;default:8"`
	Reason      string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// CoversDate reports whether the given calendar date falls inside the
// request, both bounds inclusive. Dates are compared at day granularity.
func (l LeaveRequest) CoversDate(year int, month time.Month, day int) bool {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}
