package punch

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-timeclock/internal/geo"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// LocationSample is one classified position ping, appended in order while
// the punch is open. Earlier samples are never rewritten by later ones.
type LocationSample struct {
	Latitude       float64              `json:"latitude"`
	Longitude      float64              `json:"longitude"`
	AccuracyM      float64              `json:"accuracy_m"`
	Status         geo.ComplianceStatus `json:"status"`
	WithinGeofence *bool                `json:"within_geofence,omitempty"`
	DistanceMeters float64              `json:"distance_meters"`
	RecordedAt     time.Time            `json:"recorded_at"`
}

type Punch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	// WorkerID is the placement, ApplicantID the human behind it. Overlap
	// validation runs per applicant, open-punch uniqueness per worker+job.
	WorkerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_punches_open,where:time_out IS NULL"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index:idx_punches_applicant_time_in"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_punches_open,where:time_out IS NULL"`
	ShiftSlug   *string   `gorm:"type:varchar(80)"`

	TimeIn  time.Time  `gorm:"column:time_in;type:timestamptz;not null;index:idx_punches_applicant_time_in"`
	TimeOut *time.Time `gorm:"column:time_out;type:timestamptz"`

	LocationSamples []LocationSample `gorm:"column:location_samples;serializer:json"`

	Status             string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	UserNote           *string    `gorm:"type:text"`
	ManagerNote        *string    `gorm:"type:text"`
	ApprovingManagerID *uuid.UUID `gorm:"type:uuid"`
	PaidHours          *float64   `gorm:"column:paid_hours"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Punch) TableName() string {
	return "punches"
}

// IsOpen reports whether the worker is still clocked in on this punch.
func (p Punch) IsOpen() bool {
	return p.TimeOut == nil
}

// IsFinalized reports whether the punch reached a terminal state.
func (p Punch) IsFinalized() bool {
	return p.Status == StatusApproved || p.Status == StatusRejected || p.Status == StatusCancelled
}

// Interval returns the punch's validated time pair for overlap checks.
func (p Punch) Interval() Interval {
	return Interval{TimeIn: p.TimeIn, TimeOut: p.TimeOut}
}

// ElapsedHours is the worked duration in hours, using now for an open
// punch. Unrounded; callers round at the output boundary.
func (p Punch) ElapsedHours(now time.Time) float64 {
	end := now
	if p.TimeOut != nil {
		end = *p.TimeOut
	}
	return end.Sub(p.TimeIn).Hours()
}

// RoundHours rounds an hour value to two decimals for display and for the
// paid-hours field. Internal sums stay unrounded.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
