package shift

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterEntry assigns one worker to a shift, optionally only on certain
// weekdays.
type RosterEntry struct {
	WorkerID string   `json:"worker_id"`
	Weekdays []string `json:"weekdays,omitempty"`
}

type Shift struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shifts_job_slug"`

	Slug string `gorm:"type:varchar(80);not null;uniqueIndex:idx_shifts_job_slug"`
	Name string `gorm:"type:varchar(120);not null"`

	StartAt time.Time `gorm:"column:start_at;type:timestamptz;not null;index"`
	EndAt   time.Time `gorm:"column:end_at;type:timestamptz;not null"`

	DefaultSchedule map[string][]RosterEntry `gorm:"column:default_schedule;serializer:json"`
	Roster          []RosterEntry            `gorm:"column:roster;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Shift) TableName() string {
	return "shifts"
}

// ContainsTime reports whether t falls inside the shift window, start
// inclusive, end exclusive.
func (s Shift) ContainsTime(t time.Time) bool {
	return !t.Before(s.StartAt) && t.Before(s.EndAt)
}
